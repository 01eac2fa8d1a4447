package container

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-rental-marketplace/app/db"
	"github.com/FACorreiaa/go-rental-marketplace/config"
	"github.com/FACorreiaa/go-rental-marketplace/internal/api/auth"
	"github.com/FACorreiaa/go-rental-marketplace/internal/api/property"
	"github.com/FACorreiaa/go-rental-marketplace/internal/api/services"
	"github.com/FACorreiaa/go-rental-marketplace/internal/api/user"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *slog.Logger
	Pool            *pgxpool.Pool
	AuthHandler     *auth.HandlerImpl
	PropertyHandler *property.HandlerImpl
	ServicesHandler *services.HandlerImpl
	UserHandler     *user.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, cfg.JWT, logger)
	authHandler := auth.NewHandlerImpl(authService, cfg, logger)

	propertyRepo := property.NewPostgresPropertyRepo(pool, logger)
	propertyService := property.NewPropertyService(propertyRepo, logger)
	propertyHandler := property.NewHandlerImpl(propertyService, logger)

	servicesRepo := services.NewPostgresServiceRepo(pool, logger)
	servicesService := services.NewServicesService(servicesRepo, logger)
	servicesHandler := services.NewHandlerImpl(servicesService, logger)

	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, logger)
	userHandler := user.NewHandlerImpl(userService, logger)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		Pool:            pool,
		AuthHandler:     authHandler,
		PropertyHandler: propertyHandler,
		ServicesHandler: servicesHandler,
		UserHandler:     userHandler,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
		c.Logger.Info("Database pool closed")
	}
}
