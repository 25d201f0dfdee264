package api

import (
	"errors"
	"log"
	"net/http"

	"foodieapi/internal/repository"
	"foodieapi/internal/service"
	"foodieapi/internal/validation"

	"github.com/gin-gonic/gin"
)

// respondError funnels every service failure through one status mapping:
// not-found → 404, validation → 422 with field messages, auth → 401, and
// anything else → 500 with a generic body. Nothing below this layer is
// allowed to pick an HTTP status.
func respondError(c *gin.Context, err error) {
	var validationErrs validation.Errors
	switch {
	case errors.As(err, &validationErrs):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"errors": validationErrs})
	case errors.Is(err, service.ErrResourceNotFound),
		errors.Is(err, service.ErrUnknownProvider),
		errors.Is(err, repository.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, "Unauthorized")
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}
