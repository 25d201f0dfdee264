package api

import (
	"fmt"
	"net/http"

	"foodieapi/internal/service"

	"github.com/gin-gonic/gin"
)

// OAuthHandler holds the OAuth exchange service dependency.
type OAuthHandler struct {
	oauthService service.OAuthService
}

// NewOAuthHandler creates a new OAuthHandler.
func NewOAuthHandler(oauthService service.OAuthService) *OAuthHandler {
	return &OAuthHandler{oauthService: oauthService}
}

// OAuthRequest carries the authorization code from the client-side popup.
// redirectUri is only needed by providers that verify it on exchange.
type OAuthRequest struct {
	Code        string `json:"code" binding:"required"`
	RedirectURI string `json:"redirectUri"`
}

// Exchange handles POST /api/oauth/:provider. Upstream provider failures
// surface as a 500; the guarded details stay in the server log.
func (h *OAuthHandler) Exchange(c *gin.Context) {
	var req OAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	token, user, err := h.oauthService.Exchange(c.Request.Context(), c.Param("provider"), req.Code, req.RedirectURI)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token:   token,
		Message: fmt.Sprintf("Welcome %s!", user.Username),
	})
}
