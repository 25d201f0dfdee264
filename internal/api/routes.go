package api

import (
	"net/http"

	"foodieapi/internal/domain"
	"foodieapi/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the route table needs.
type Services struct {
	Auth       service.AuthService
	OAuth      service.OAuthService
	Uploads    service.UploadService
	Foods      service.ResourceService[domain.Food]
	Shoes      service.ResourceService[domain.Shoe]
	Cafes      service.ResourceService[domain.Cafe]
	Categories service.ResourceService[domain.Category]
}

// SetupRoutes wires the full API surface. Reads are public; every mutating
// route sits behind the bearer-token middleware.
func SetupRoutes(router *gin.Engine, jwtSecret string, svcs Services) {
	authHandler := NewAuthHandler(svcs.Auth)
	oauthHandler := NewOAuthHandler(svcs.OAuth)
	uploadHandler := NewUploadHandler(svcs.Uploads)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/register", authHandler.Register)
		apiGroup.POST("/login", authHandler.Login)
		apiGroup.POST("/oauth/:provider", oauthHandler.Exchange)

		apiGroup.POST("/uploads", authMiddleware, uploadHandler.Create)

		registerResource(apiGroup, "foods", authMiddleware, svcs.Foods)
		registerResource(apiGroup, "shoes", authMiddleware, svcs.Shoes)
		registerResource(apiGroup, "cafes", authMiddleware, svcs.Cafes)
		registerResource(apiGroup, "categories", authMiddleware, svcs.Categories)
	}

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "Not found")
	})
}

// registerResource mounts the five canonical routes for one collection
// noun. The same generic handler backs every resource.
func registerResource[T any](group *gin.RouterGroup, name string, auth gin.HandlerFunc, svc service.ResourceService[T]) {
	h := NewResourceHandler(svc)

	group.GET("/"+name, h.List)
	group.GET("/"+name+"/:id", h.Show)
	group.POST("/"+name, auth, h.Create)
	group.PUT("/"+name+"/:id", auth, h.Update)
	group.DELETE("/"+name+"/:id", auth, h.Delete)
}
