package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"osfr/internal/config"
	apperrors "osfr/internal/errors"
	"osfr/internal/handler"
	identity "osfr/internal/middleware"
	"osfr/internal/service"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth        *handler.AuthHandler
	Catalog     *handler.CatalogHandler
	Resource    *handler.ResourceHandler
	Instruction *handler.InstructionHandler
	Software    *handler.SoftwareHandler
	Image       *handler.ImageHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	l *zap.Logger,
	authService service.AuthService,
	h Handlers,
) {
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler(l)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			l.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
		AllowCredentials: true,
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	if !cfg.Production {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	e.GET("/uploads/:filename", h.Image.Serve)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/categories", h.Catalog.Categories)
	api.GET("/items", h.Catalog.Items)
	api.GET("/software/:id", h.Software.Get)
	api.GET("/software/download/:id", h.Software.Download)

	// Admin routes (require a valid bearer token of an existing administrator)
	admin := api.Group("/admin", identity.AdminIdentity(authService, l)...)

	admin.GET("/dashboard", h.Auth.Dashboard)
	admin.GET("/me", h.Auth.Me)
	admin.POST("/auth/logout", h.Auth.Logout)

	admin.GET("/categories", h.Catalog.Categories)
	admin.GET("/all-items", h.Catalog.Items)

	admin.GET("/resources/:id", h.Resource.Get)
	admin.POST("/resources", h.Resource.Create)
	admin.PUT("/resources/:id", h.Resource.Update)
	admin.DELETE("/resources/:id", h.Resource.Delete)

	admin.GET("/instructions", h.Instruction.List)
	admin.GET("/instructions/:id", h.Instruction.Get)
	admin.POST("/instructions", h.Instruction.Create)
	admin.PUT("/instructions/:id", h.Instruction.Update)
	admin.DELETE("/instructions/:id", h.Instruction.Delete)

	admin.POST("/software", h.Software.Create)
	admin.GET("/software/:id", h.Software.Get)
	admin.PUT("/software/:id", h.Software.Replace)
	admin.POST("/software/:id", h.Software.Replace)
	admin.DELETE("/software/:id", h.Software.Delete)
	admin.GET("/software/download/:id", h.Software.Download)

	admin.POST("/upload-image", h.Image.Upload)
	admin.POST("/delete-image", h.Image.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
