package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/verify-api/internal/application/verification"
	"github.com/verify-api/internal/config"
	"github.com/verify-api/internal/domain"
	jwtinfra "github.com/verify-api/internal/infrastructure/jwt"
	"github.com/verify-api/internal/notify"
	"github.com/verify-api/internal/store"
	dynamostore "github.com/verify-api/internal/store/dynamo"
	memorystore "github.com/verify-api/internal/store/memory"
	redisstore "github.com/verify-api/internal/store/redis"
	transporthttp "github.com/verify-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Verification store backend.
	var st store.Store
	switch cfg.StoreBackend {
	case "dynamo":
		client := dynamostore.NewClient(cfg)
		dynamostore.Bootstrap(context.Background(), client, cfg.DynamoTable)
		st = dynamostore.NewStore(client, cfg.DynamoTable)
	case "redis":
		st = redisstore.NewStore(redisstore.NewClient(cfg))
	default:
		st = memorystore.New()
	}

	// Channel dispatchers. SMS is optional — graceful fallback when AWS
	// config is unavailable; requests for that channel then fail as
	// dispatch failures, with the code already stored.
	dispatchers := map[domain.Channel]notify.Dispatcher{
		domain.ChannelEmail: notify.NewEmailDispatcher(cfg),
	}
	if sms, err := notify.NewSMSDispatcher(cfg); err == nil {
		dispatchers[domain.ChannelSMS] = sms
	} else {
		log.Printf("WARN: SMS dispatcher not available: %v", err)
	}

	// Proof-token provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: proof-token provider not available: %v", err)
	}

	svc := verification.NewService(verification.Deps{
		Store:       st,
		Dispatchers: dispatchers,
		CodeLength:  cfg.OTPLength,
		TTL:         cfg.OTPTTL,
	})

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Service:     svc,
		JWTProvider: jwtProvider,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, store=%s)", cfg.AppPort, cfg.AppEnv, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
