package api

import (
	"fmt"
	"net/http"

	"foodieapi/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

// RegisterRequest carries the registration profile. Constraint checking
// happens in the service so failures come back as the 422 field map, not
// a bind error.
type RegisterRequest struct {
	Firstname            string `json:"firstname"`
	Lastname             string `json:"lastname"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is shared by login and the OAuth exchange.
type TokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// --- Handler Methods ---

// Register handles POST /api/register. Success returns the created user
// without credential material; the client logs in separately.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Firstname:            req.Firstname,
		Lastname:             req.Lastname,
		Username:             req.Username,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Login handles POST /api/login. Bad credentials of either kind produce
// the same 401 body.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token:   token,
		Message: fmt.Sprintf("Welcome %s!", user.Username),
	})
}
