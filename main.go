package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/admin"
	"inkwell/auth"
	"inkwell/blog"
	"inkwell/common"
	"inkwell/config"
	"inkwell/database"
	"inkwell/posts"
	"inkwell/relay"
	"inkwell/site"
	"inkwell/upload"
)

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	db := common.ConnectDb(cfg)
	if db == nil {
		log.Fatal("Failed to connect to database")
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := database.SeedAdminUser(db, cfg); err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}

	router := gin.Default()

	router.SetFuncMap(map[string]interface{}{
		"now": func() time.Time {
			return time.Now()
		},
		"domain": func() string {
			return cfg.Domain
		},
	})

	router.LoadHTMLGlob("*/views/*.html")

	router.Static("/public", "./public")

	store := posts.NewStore(db)
	counter := posts.NewViewCounter(store)
	tokens := auth.NewTokenService(cfg.JWTSecret)

	var uploader admin.ImageUploader
	if up, err := upload.NewUploader(cfg.CloudinaryURL); err != nil {
		log.Printf("image uploads disabled: %v", err)
	} else {
		uploader = up
	}

	relayClient := relay.NewClient(cfg.FormspreeURL)

	siteModule := site.NewSiteModule(store, relayClient, cfg.Domain)
	siteModule.RegisterRoutes(router)

	blogModule := blog.NewBlogModule(store, counter, tokens)
	blogModule.RegisterRoutes(router)

	adminModule := admin.NewAdminModule(db, store, tokens, uploader, cfg.CookieSecure)
	adminModule.RegisterRoutes(router)

	log.Printf("Starting server on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
