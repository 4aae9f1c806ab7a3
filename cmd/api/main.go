package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/projectdesk/projectdesk-backend/config"
	"github.com/projectdesk/projectdesk-backend/internal/ai"
	"github.com/projectdesk/projectdesk-backend/internal/bootstrap"
	"github.com/projectdesk/projectdesk-backend/internal/media"
	"github.com/projectdesk/projectdesk-backend/internal/search"
)

const serviceName = "projectdesk-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer store.Close()

	limiter, janitor := bootstrap.BuildLimiter(cfg.RateLimit)
	if janitor != nil {
		defer janitor.Stop()
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		CORSOrigin:  cfg.CORS.Origin,
		Store:       store,
		OpenAI:      ai.NewOpenAIClient(cfg.Upstream.OpenAIBaseURL, cfg.Upstream.OpenAIKey, cfg.Upstream.OpenAIModel),
		Gemini:      ai.NewGeminiClient(cfg.Upstream.GeminiBaseURL, cfg.Upstream.GeminiKey, cfg.Upstream.GeminiModel),
		Algolia:     search.NewClient(cfg.Upstream.AlgoliaAppID, cfg.Upstream.AlgoliaAPIKey, cfg.Upstream.AlgoliaIndex, cfg.Upstream.AlgoliaBaseURL),
		Pexels:      media.NewClient(cfg.Upstream.PexelsBaseURL, cfg.Upstream.PexelsKey),
		Limiter:     limiter,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// signal.Notify requires the channel to be buffered
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on :%s (driver=%s)", cfg.Server.Port, cfg.Database.Driver)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server: %v", err)
	}
}
