package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodieapi/internal/domain"
	"foodieapi/internal/repository/memory"
	"foodieapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage satisfies storage.FileStorage without S3.
type fakeStorage struct{}

func (fakeStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	return "https://bucket.test/upload/" + objectKey, nil
}

func (fakeStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://bucket.test/get/" + objectKey, nil
}

// testEnv is a full router over in-memory repositories.
type testEnv struct {
	router *gin.Engine
	users  *memory.UserRepository
	foods  *memory.ResourceRepository[domain.Food]
	shoes  *memory.ResourceRepository[domain.Shoe]
}

func newTestEnv(t *testing.T, providers ...service.Provider) *testEnv {
	t.Helper()

	env := &testEnv{
		users: memory.NewUserRepository(),
		foods: memory.NewResourceRepository[domain.Food](),
		shoes: memory.NewResourceRepository[domain.Shoe](),
	}

	svcs := Services{
		Auth:       service.NewAuthService(env.users, testJWTSecret, time.Hour),
		OAuth:      service.NewOAuthService(env.users, providers, testJWTSecret, time.Hour),
		Uploads:    service.NewUploadService(fakeStorage{}),
		Foods:      service.NewResourceService[domain.Food](env.foods),
		Shoes:      service.NewResourceService[domain.Shoe](env.shoes),
		Cafes:      service.NewResourceService[domain.Cafe](memory.NewResourceRepository[domain.Cafe]()),
		Categories: service.NewResourceService[domain.Category](memory.NewResourceRepository[domain.Category]()),
	}

	env.router = gin.New()
	SetupRoutes(env.router, testJWTSecret, svcs)
	return env
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func testToken(t *testing.T) string {
	t.Helper()
	token, err := service.MintToken("user-1", testJWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestPing(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnmatchedRoute(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShoesCreate_ExactResponseShape(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/shoes", testToken(t), map[string]any{
		"brand":    "Nike",
		"color":    "black",
		"laced":    true,
		"material": "canvas",
		"price":    89.99,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	wantKeys := []string{"id", "brand", "color", "laced", "material", "price", "createdAt", "updatedAt"}
	assert.Len(t, body, len(wantKeys))
	for _, key := range wantKeys {
		assert.Contains(t, body, key)
	}
	assert.Equal(t, "Nike", body["brand"])
	assert.Equal(t, "black", body["color"])
	assert.Equal(t, true, body["laced"])
	assert.Equal(t, "canvas", body["material"])
	assert.Equal(t, 89.99, body["price"])
	assert.NotEmpty(t, body["id"])
}

func TestFoodsList_EmptyCollection(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/foods", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestFoodsCreate_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/foods", testToken(t), map[string]any{"title": "Mongolian Beef"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decodeBody(t, w)
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok, "422 body carries a field map: %s", w.Body.String())
	assert.Contains(t, errs, "image")
	assert.Contains(t, errs, "category")
	assert.Zero(t, env.foods.Len())
}

func TestFoodsMutations_RequireAuth(t *testing.T) {
	t.Parallel()

	expired, err := service.MintToken("user-1", testJWTSecret, -1*time.Minute)
	require.NoError(t, err)

	food := map[string]any{"title": "Mongolian Beef", "image": "beef.jpg", "category": "Dinner"}

	tests := []struct {
		name  string
		token string
	}{
		{name: "no token", token: ""},
		{name: "expired token", token: expired},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			w := env.do(t, http.MethodPost, "/api/foods", tt.token, food)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			// Rejected before any persistence mutation.
			assert.Zero(t, env.foods.Len())
		})
	}
}

func TestFoodsReads_ArePublic(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	created := decodeBody(t, env.do(t, http.MethodPost, "/api/foods", testToken(t),
		map[string]any{"title": "Mongolian Beef", "image": "beef.jpg", "category": "Dinner"}))

	w := env.do(t, http.MethodGet, "/api/foods/"+created["id"].(string), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Mongolian Beef", decodeBody(t, w)["title"])
}

func TestFoodsUpdate_Partial(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := testToken(t)
	created := decodeBody(t, env.do(t, http.MethodPost, "/api/foods", token,
		map[string]any{"title": "Mongolian Beef", "image": "beef.jpg", "category": "Dinner"}))

	w := env.do(t, http.MethodPut, "/api/foods/"+created["id"].(string), token,
		map[string]any{"title": "Spaghetti Carbonara"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Spaghetti Carbonara", body["title"])
	// Omitted fields survive the update.
	assert.Equal(t, "beef.jpg", body["image"])
	assert.Equal(t, "Dinner", body["category"])
}

func TestFoodsShow_NotFound(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/foods/64b000000000000000000000", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/foods/not-an-id", "", nil).Code)
}

func TestFoodsDelete_Twice(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := testToken(t)
	created := decodeBody(t, env.do(t, http.MethodPost, "/api/foods", token,
		map[string]any{"title": "Mongolian Beef", "image": "beef.jpg", "category": "Dinner"}))
	path := "/api/foods/" + created["id"].(string)

	first := env.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Empty(t, first.Body.String(), "delete returns no body")

	second := env.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, second.Code)
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/register", "", map[string]any{
		"firstname":            "test",
		"lastname":             "test",
		"username":             "test",
		"email":                "test@test.com",
		"password":             "test",
		"passwordConfirmation": "test",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "test", body["username"])
	assert.NotContains(t, body, "passwordHash")
	assert.NotContains(t, body, "password")
}

func TestRegister_ConfirmationMismatch(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/register", "", map[string]any{
		"firstname":            "test",
		"lastname":             "test",
		"username":             "test",
		"email":                "test@test.com",
		"password":             "test",
		"passwordConfirmation": "different",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	errs, ok := decodeBody(t, w)["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "passwordConfirmation")
}

func TestRegister_BadDetails(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/register", "", map[string]any{
		"email":    "bad",
		"password": "bad",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func registerTestUser(t *testing.T, env *testEnv) {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/register", "", map[string]any{
		"firstname":            "test",
		"lastname":             "test",
		"username":             "test",
		"email":                "test@test.com",
		"password":             "test",
		"passwordConfirmation": "test",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	registerTestUser(t, env)

	w := env.do(t, http.MethodPost, "/api/login", "", map[string]any{
		"email":    "test@test.com",
		"password": "test",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "Welcome test!", body["message"])
}

func TestLogin_FailureShapesAreIdentical(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	registerTestUser(t, env)

	wrongPassword := env.do(t, http.MethodPost, "/api/login", "", map[string]any{
		"email":    "test@test.com",
		"password": "nope",
	})
	unknownEmail := env.do(t, http.MethodPost, "/api/login", "", map[string]any{
		"email":    "nobody@test.com",
		"password": "test",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Nothing in the response reveals which credential was wrong.
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestLoginToken_OpensProtectedRoutes(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	registerTestUser(t, env)

	login := decodeBody(t, env.do(t, http.MethodPost, "/api/login", "", map[string]any{
		"email":    "test@test.com",
		"password": "test",
	}))

	w := env.do(t, http.MethodPost, "/api/foods", login["token"].(string),
		map[string]any{"title": "Mongolian Beef", "image": "beef.jpg", "category": "Dinner"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUploads(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := testToken(t)

	w := env.do(t, http.MethodPost, "/api/uploads", token, map[string]any{
		"filename":    "beef.jpg",
		"contentType": "image/jpeg",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Contains(t, body, "key")
	assert.Contains(t, body, "uploadUrl")
	assert.Contains(t, body, "url")

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/uploads", "", map[string]any{
		"filename":    "beef.jpg",
		"contentType": "image/jpeg",
	}).Code)

	missing := env.do(t, http.MethodPost, "/api/uploads", token, map[string]any{"filename": "beef.jpg"})
	assert.Equal(t, http.StatusUnprocessableEntity, missing.Code)
}
