package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodieapi/internal/domain"
	"foodieapi/internal/repository/memory"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFakeGithub stands in for GitHub's token and profile endpoints.
func newFakeGithub(t *testing.T, profile map[string]any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("code") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"access_token": "gho_test"})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") != "gho_test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(profile)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func githubAgainst(baseURL string) Provider {
	p := GithubProvider("client-id", "client-secret")
	p.TokenURL = baseURL + "/login/oauth/access_token"
	p.ProfileURL = baseURL + "/user"
	return p
}

func TestOAuthExchange_CreatesUserAndMintsToken(t *testing.T) {
	t.Parallel()

	server := newFakeGithub(t, map[string]any{
		"id":         12345,
		"login":      "octocat",
		"email":      "octo@test.com",
		"avatar_url": "https://avatars.test/octocat.png",
	})

	repo := memory.NewUserRepository()
	svc := NewOAuthService(repo, []Provider{githubAgainst(server.URL)}, testSecret, time.Hour)

	token, user, err := svc.Exchange(context.Background(), "github", "good-code", "")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, "octocat", user.Username)
	assert.Equal(t, "12345", user.GithubID)
	assert.Equal(t, "octo@test.com", user.Email)
	assert.Equal(t, "https://avatars.test/octocat.png", user.Image)

	claims := struct {
		UserID string `json:"userId"`
		jwt.RegisteredClaims
	}{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
}

func TestOAuthExchange_LinksExistingUserByEmail(t *testing.T) {
	t.Parallel()

	server := newFakeGithub(t, map[string]any{
		"id":    777,
		"login": "octocat",
		"email": "existing@test.com",
	})

	repo := memory.NewUserRepository()
	existing := &domain.User{Username: "existing", Email: "existing@test.com", PasswordHash: "x"}
	_, err := repo.Create(context.Background(), existing)
	require.NoError(t, err)

	svc := NewOAuthService(repo, []Provider{githubAgainst(server.URL)}, testSecret, time.Hour)

	_, user, err := svc.Exchange(context.Background(), "github", "good-code", "")
	require.NoError(t, err)

	// Linked, not duplicated.
	assert.Equal(t, existing.ID, user.ID)
	assert.Equal(t, "777", user.GithubID)

	stored, err := repo.GetByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "777", stored.GithubID)
}

func TestOAuthExchange_SecondLoginReusesAccount(t *testing.T) {
	t.Parallel()

	server := newFakeGithub(t, map[string]any{
		"id":    42,
		"login": "repeat",
		"email": "repeat@test.com",
	})

	repo := memory.NewUserRepository()
	svc := NewOAuthService(repo, []Provider{githubAgainst(server.URL)}, testSecret, time.Hour)

	_, first, err := svc.Exchange(context.Background(), "github", "good-code", "")
	require.NoError(t, err)
	_, second, err := svc.Exchange(context.Background(), "github", "good-code", "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestOAuthExchange_UpstreamFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	svc := NewOAuthService(memory.NewUserRepository(), []Provider{githubAgainst(server.URL)}, testSecret, time.Hour)

	_, _, err := svc.Exchange(context.Background(), "github", "good-code", "")
	assert.ErrorIs(t, err, ErrProviderExchange)
}

func TestOAuthExchange_UnknownProvider(t *testing.T) {
	t.Parallel()

	svc := NewOAuthService(memory.NewUserRepository(), nil, testSecret, time.Hour)

	_, _, err := svc.Exchange(context.Background(), "gitlab", "code", "")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
