package main

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/authstack/backend/internal/config"
	"github.com/authstack/backend/internal/db"
	"github.com/authstack/backend/internal/handler"
	"github.com/authstack/backend/internal/logger"
	"github.com/authstack/backend/internal/service"
)

// @title Auth API
// @version 1.0
// @description Authentication and role-based authorization service.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx)
	if err != nil {
		log.Fatal("connecting to postgres", zap.Error(err))
	}
	defer pool.Close()

	store := db.New(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("preparing schema", zap.Error(err))
	}

	accessTTL := parseDuration(cfg.Auth.JWTAccessTTL, time.Hour, log)
	refreshTTL := parseDuration(cfg.Auth.JWTRefreshTTL, 7*24*time.Hour, log)
	lockDuration := parseDuration(cfg.Auth.LockDuration, 30*time.Minute, log)
	maxAttempts := parseInt(cfg.Auth.MaxLoginAttempts, 5, log)

	tokens, err := service.NewTokenService([]byte(cfg.Auth.JWTSecret), accessTTL, refreshTTL)
	if err != nil {
		log.Fatal("initializing token service", zap.Error(err))
	}
	hasher := service.NewPasswordHasher()
	revoked := service.NewMemoryRevocationStore(time.Minute)
	defer revoked.Close()

	lockout := service.NewLockoutPolicy(store, maxAttempts, lockDuration, log)
	resolver := service.NewPermissionResolver(store)

	authSvc := service.NewAuthService(store, tokens, hasher, lockout, resolver, revoked, db.IsNoRows, log)
	userSvc := service.NewUserService(store, hasher, db.IsNoRows, log)
	personSvc := service.NewPersonService(store, db.IsNoRows, db.IsUniqueViolation, log)
	roleSvc := service.NewRoleService(store, db.IsNoRows, log)
	permissionSvc := service.NewPermissionService(store, db.IsNoRows, log)
	assignmentSvc := service.NewAssignmentService(store, resolver, log)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	personHandler := handler.NewPersonHandler(personSvc)
	roleHandler := handler.NewRoleHandler(roleSvc)
	permissionHandler := handler.NewPermissionHandler(permissionSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)

	router := gin.Default()
	router.Use(handler.CORSMiddleware(strings.Split(cfg.Server.CORSOrigins, ",")))

	router.GET("/", handler.Root)
	router.GET("/ping", handler.Ping)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/validate", authHandler.Validate)
		auth.POST("/logout", authHandler.Logout)
	}

	api := router.Group("/api/v1")
	api.Use(handler.AuthMiddleware(authSvc, tokens))
	{
		users := api.Group("/users")
		{
			users.POST("", userHandler.Create)
			users.GET("", userHandler.List)
			users.GET("/status/:status", userHandler.ListByStatus)
			users.GET("/username/:username", userHandler.GetByUsername)
			users.GET("/exists/:username", userHandler.Exists)
			users.GET("/:userId", userHandler.GetByID)
			users.PUT("/:userId", userHandler.Update)
			users.DELETE("/:userId", userHandler.Delete)
			users.PATCH("/:userId/restore", userHandler.Restore)
			users.PATCH("/:userId/suspend", userHandler.Suspend)
			users.PATCH("/:userId/block", userHandler.Block)
			users.PATCH("/:userId/unblock", userHandler.Unblock)

			users.GET("/:userId/roles", assignmentHandler.GetUserRoles)
			users.POST("/:userId/roles", assignmentHandler.AssignRole)
			users.DELETE("/:userId/roles/:roleId", assignmentHandler.RemoveRole)
			users.GET("/:userId/has-role/:roleId", assignmentHandler.HasRole)
			users.GET("/:userId/effective-permissions", assignmentHandler.EffectivePermissions)
			users.GET("/:userId/has-permission", assignmentHandler.HasPermission)
		}

		persons := api.Group("/persons")
		{
			persons.POST("", personHandler.Create)
			persons.GET("", personHandler.List)
			persons.GET("/:personId", personHandler.GetByID)
			persons.PUT("/:personId", personHandler.Update)
			persons.DELETE("/:personId", personHandler.Delete)
		}

		roles := api.Group("/roles")
		{
			roles.POST("", roleHandler.Create)
			roles.GET("", roleHandler.List)
			roles.GET("/active", roleHandler.ListActive)
			roles.GET("/inactive", roleHandler.ListInactive)
			roles.GET("/name/:name", roleHandler.GetByName)
			roles.GET("/exists/:name", roleHandler.Exists)
			roles.GET("/:roleId", roleHandler.GetByID)
			roles.PUT("/:roleId", roleHandler.Update)
			roles.DELETE("/:roleId", roleHandler.Delete)
			roles.POST("/:roleId/restore", roleHandler.Restore)

			roles.GET("/:roleId/users", assignmentHandler.GetRoleUsers)
			roles.GET("/:roleId/permissions", assignmentHandler.GetRolePermissions)
			roles.POST("/:roleId/permissions", assignmentHandler.AssignPermission)
			roles.DELETE("/:roleId/permissions/:permissionId", assignmentHandler.RemovePermission)
		}

		permissions := api.Group("/permissions")
		{
			permissions.POST("", permissionHandler.Create)
			permissions.GET("", permissionHandler.List)
			permissions.GET("/:permissionId", permissionHandler.GetByID)
			permissions.PUT("/:permissionId", permissionHandler.Update)
			permissions.DELETE("/:permissionId", permissionHandler.Delete)
		}
	}

	log.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func parseDuration(value string, fallback time.Duration, log *zap.Logger) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Warn("invalid duration, using default", zap.String("value", value), zap.Duration("default", fallback))
		return fallback
	}
	return d
}

func parseInt(value string, fallback int, log *zap.Logger) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Warn("invalid integer, using default", zap.String("value", value), zap.Int("default", fallback))
		return fallback
	}
	return n
}
