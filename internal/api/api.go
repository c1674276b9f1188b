package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/userprofile/backend/internal/middleware"
	"github.com/pageza/userprofile/backend/internal/service"
)

// Dependencies are the collaborators the HTTP API is built from. Redis is
// optional.
type Dependencies struct {
	DB             *gorm.DB
	Redis          *redis.Client
	TokenVerifier  service.TokenVerifier
	ProfileService service.IProfileService
	RateLimiter    *middleware.RateLimiter
}

// SetupAPI registers every route on router.
func SetupAPI(router *gin.Engine, deps Dependencies) {
	healthHandler := NewHealthHandler(deps.DB, deps.Redis)
	profileHandler := NewProfileHandler(deps.ProfileService)

	healthHandler.RegisterRoutes(router)
	profileHandler.RegisterRoutes(router,
		deps.RateLimiter.RateLimitMiddleware(),
		middleware.AuthMiddleware(deps.TokenVerifier),
	)
}
