package v1

import (
	"go-job-intake/config"
	"go-job-intake/internal/delivery/http/middleware"
	"go-job-intake/internal/domain"
	"go-job-intake/pkg/auth"
	"go-job-intake/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	IntakeUC domain.IntakeUsecase
	ExportUC domain.ExportUsecase
	HealthUC domain.HealthUsecase
	Tokens   *auth.SessionTokens
	Guards   DocumentGuards
	Config   *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL, deps.Config.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	NewHealthHandler(v1, deps.HealthUC)
	NewIntakeHandler(v1, deps.IntakeUC, deps.Tokens, deps.Guards, deps.Config)
	NewAdminHandler(v1, deps.ExportUC, deps.Config.AdminAPIKey)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
