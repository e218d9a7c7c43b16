package main

import (
	"time"

	"ironpress-terminal/internal/apiclient"
	"ironpress-terminal/internal/auth"
	"ironpress-terminal/internal/billing"
	"ironpress-terminal/internal/config"
	"ironpress-terminal/internal/handlers"
	"ironpress-terminal/internal/session"
	"ironpress-terminal/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Local state file (the session blob lives here).
	state, err := storage.Open(cfg.StatePath)
	if err != nil {
		log.Fatal("Failed to open state file: ", err)
	}
	log.Println("✅ State file ready at " + cfg.StatePath)

	// Restore any persisted session; a corrupt blob just means logging in
	// again.
	sessions := session.NewStore(state, log)

	api := apiclient.New(cfg.APIBaseURL, sessions, log)
	authSvc := auth.NewService(api, sessions, log)
	bills := billing.NewStore(api, sessions, log)
	h := handlers.New(sessions, authSvc, bills, api, log)

	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	// The terminal UI may be served from a separate origin during
	// development, same split the backend team runs.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	h.Routes(r)

	log.Println("🚀 Terminal starting on " + cfg.Address + " (API: " + cfg.APIBaseURL + ")")
	if err := r.Run(cfg.Address); err != nil {
		log.Fatal("Terminal failed to start: ", err)
	}
}
