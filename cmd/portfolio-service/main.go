package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/princekumarofficial/portfolio-service/docs"
	"github.com/princekumarofficial/portfolio-service/internal/bootstrap"
	"github.com/princekumarofficial/portfolio-service/internal/cache"
	"github.com/princekumarofficial/portfolio-service/internal/config"
	"github.com/princekumarofficial/portfolio-service/internal/events"
	"github.com/princekumarofficial/portfolio-service/internal/http/handlers/contact"
	"github.com/princekumarofficial/portfolio-service/internal/http/handlers/marketing"
	"github.com/princekumarofficial/portfolio-service/internal/http/handlers/media"
	"github.com/princekumarofficial/portfolio-service/internal/http/handlers/projects"
	wsHandlers "github.com/princekumarofficial/portfolio-service/internal/http/handlers/websocket"
	"github.com/princekumarofficial/portfolio-service/internal/http/middleware"
	contactService "github.com/princekumarofficial/portfolio-service/internal/services/contact"
	contentService "github.com/princekumarofficial/portfolio-service/internal/services/content"
	marketingService "github.com/princekumarofficial/portfolio-service/internal/services/marketing"
	mediaService "github.com/princekumarofficial/portfolio-service/internal/services/media"
	"github.com/princekumarofficial/portfolio-service/internal/site"
	"github.com/princekumarofficial/portfolio-service/internal/storage"
	"github.com/princekumarofficial/portfolio-service/internal/websocket"
)

// @title Portfolio Service API
// @version 1.0
// @description Projects, media, marketing gallery and contact endpoints for the portfolio site.
// @BasePath /
func main() {
	// load config
	cfg := config.MustLoad()
	logger := bootstrap.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// storage setup
	rows, err := bootstrap.OpenStorage(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage: ", err)
	}
	defer rows.Close()

	redisClient, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize redis: ", err)
	}

	var store storage.Storage = rows
	var rateLimits *middleware.RateLimitConfig
	if redisClient != nil {
		defer redisClient.Close()
		store = cache.NewCacheService(rows, redisClient)
		rateLimits = middleware.NewRateLimitConfig(redisClient, cfg.RateLimit)
	} else {
		slog.Warn("Redis disabled; caching and rate limiting are off")
	}

	objects, err := mediaService.NewService(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize object storage: ", err)
	}
	slog.Info("Connected to object storage", slog.String("bucket", cfg.MinIO.BucketName))

	socialLinks, err := bootstrap.SocialLinks(cfg.Social)
	if err != nil {
		log.Fatal("Invalid social links: ", err)
	}

	// live view
	hub := websocket.NewHub()
	go hub.Run(ctx)
	publisher := events.NewEventPublisher(hub)

	content := contentService.NewService(store, objects, publisher, logger)
	gallery := marketingService.NewService(store, objects, publisher, logger)
	messages := contactService.NewService(store, logger)
	mediaHandlers := media.NewMediaHandlers(content, gallery, cfg.Media.MaxFileSize)

	// setup router
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":       "ok",
			"live_viewers": hub.GetClientCount(),
		})
	})

	router.HandleFunc("GET /projects", projects.List(content))
	router.HandleFunc("GET /projects/{id}", projects.Get(content))
	router.HandleFunc("PATCH /projects/{id}", projects.Update(content))
	router.HandleFunc("DELETE /projects/{id}", projects.Delete(content))
	router.Handle("POST /projects/{id}/media", rateLimits.RateLimitedHandler(middleware.ActionUpload, mediaHandlers.Upload()))
	router.HandleFunc("DELETE /media/{id}", mediaHandlers.Delete())

	router.HandleFunc("GET /profile/image", mediaHandlers.GetProfileImage())
	router.Handle("PUT /profile/image", rateLimits.RateLimitedHandler(middleware.ActionUpload, mediaHandlers.UploadProfileImage()))

	router.HandleFunc("GET /marketing", marketing.List(gallery))
	router.HandleFunc("POST /marketing", marketing.Create(gallery))
	router.HandleFunc("PATCH /marketing/{id}", marketing.Update(gallery))
	router.HandleFunc("DELETE /marketing/{id}", marketing.Delete(gallery))
	router.Handle("POST /marketing/images", rateLimits.RateLimitedHandler(middleware.ActionUpload, mediaHandlers.UploadMarketingImage()))

	router.Handle("POST /contact", rateLimits.RateLimitedHandler(middleware.ActionContact, contact.Submit(messages)))
	router.HandleFunc("GET /social-links", contact.SocialLinks(socialLinks))

	router.HandleFunc("GET /ws", wsHandlers.WebSocketHandler(hub, content, gallery, site.FadeDelay))

	if redisClient != nil {
		router.HandleFunc("GET /admin/cache/stats", cache.GetCacheStats(redisClient))
		router.HandleFunc("DELETE /admin/cache", cache.ClearCache(redisClient))
	}

	router.Handle("GET /swagger/", httpSwagger.WrapHandler)

	server := http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      middleware.Chain(router, middleware.RequestLogger(logger), middleware.CORS(cfg.CORS.AllowedOrigins)),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	slog.Info("server started", slog.String("address", cfg.HTTPServer.Address))

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}
