package api

import (
	"errors"
	"net/http"

	"foodieapi/internal/service"
	"foodieapi/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResourceHandler translates the five canonical operations on one resource
// collection into HTTP. One generic implementation serves every registered
// resource; the routes differ only in the collection noun.
type ResourceHandler[T any] struct {
	service service.ResourceService[T]
}

// NewResourceHandler creates a handler over svc.
func NewResourceHandler[T any](svc service.ResourceService[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{service: svc}
}

// List handles GET /api/<resource>. An empty collection is a 200 with [].
func (h *ResourceHandler[T]) List(c *gin.Context) {
	docs, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// Show handles GET /api/<resource>/:id.
func (h *ResourceHandler[T]) Show(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	doc, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Create handles POST /api/<resource>.
func (h *ResourceHandler[T]) Create(c *gin.Context) {
	var doc T
	if err := c.ShouldBindJSON(&doc); err != nil {
		bindError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), &doc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/<resource>/:id as a partial update: only the
// fields present in the body are overwritten.
func (h *ResourceHandler[T]) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	fields := map[string]any{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		bindError(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/<resource>/:id. Success is an empty 204; the
// deleted document is not returned.
func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseID reads the :id route parameter. An id that cannot be an ObjectID
// cannot name a stored document, so it renders as the 404 class rather
// than a server error.
func parseID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Not found")
		return primitive.NilObjectID, false
	}
	return id, true
}

// bindError maps request binding failures: constraint violations become the
// 422 field map, anything else (malformed JSON) is a 400.
func bindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		respondError(c, validation.FromFieldErrors(fieldErrs))
		return
	}
	abortWithError(c, http.StatusBadRequest, "Invalid request body")
}
