package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"eventsnap/internal/auth"
	"eventsnap/internal/config"
	"eventsnap/internal/database"
	"eventsnap/internal/events"
	"eventsnap/internal/health"
	"eventsnap/internal/logging"
	"eventsnap/internal/models"
	"eventsnap/internal/requestid"
	"eventsnap/internal/users"
	"eventsnap/internal/vision"
)

func main() {
	cfg := config.Load()
	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Init(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	userStore := users.NewStore(db, logger)
	if err := userStore.EnsureAdmin(cfg.AdminPassword); err != nil {
		log.Fatalf("failed to bootstrap admin user: %v", err)
	}

	eventStore := events.NewStore(db, logger)
	visionClient := vision.NewClient(cfg, logger)

	if cfg.Env == "development" && cfg.SeedDevData {
		if err := database.SeedDevData(db); err != nil {
			logger.Warn("failed to seed dev data", "error", err)
		}
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware(logger))

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("eventsnap_session", sessionStore))

	r.GET("/health", gin.WrapF(health.Handler))
	r.POST("/login", auth.HandleLogin(userStore, logger))
	r.POST("/logout", auth.HandleLogout(logger))

	api := r.Group("/api", auth.RequireAuth())

	// Admin pages are identity-gated, permission pages capability-gated;
	// the two gates are deliberately independent.
	admin := api.Group("", auth.RequireAdmin())
	admin.GET("/users", users.ListUsersHandler(userStore))
	admin.POST("/users", users.CreateUserHandler(userStore))
	admin.PUT("/users/:username/permissions", users.UpdatePermissionsHandler(userStore))
	admin.DELETE("/users/:username", users.DeleteUserHandler(userStore))
	admin.POST("/extract", vision.ExtractHandler(visionClient))
	admin.GET("/extract/status", vision.StatusHandler(visionClient))
	admin.GET("/events/stats", events.StatsHandler(eventStore))

	calendar := api.Group("/events", auth.RequirePermission(models.CapabilityCalendar))
	calendar.GET("", events.ListEventsHandler(eventStore))
	calendar.POST("", events.CreateEventHandler(eventStore))
	calendar.PUT("/:id", events.UpdateEventHandler(eventStore))
	calendar.DELETE("/:id", events.DeleteEventHandler(eventStore))

	addr := ":" + cfg.Port
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
