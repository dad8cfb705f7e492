package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeclash/internal/api"
	"codeclash/internal/app/service"
	"codeclash/internal/app/worker"
	"codeclash/internal/common/security"
	"codeclash/internal/domain/repository"
	"codeclash/internal/platform/cache"
	"codeclash/internal/platform/client"
	"codeclash/internal/platform/config"
	"codeclash/internal/platform/database"
	"codeclash/internal/platform/logger"
)

func main() {
	config.Load()
	security.InitJWT()

	log := logger.New()
	log.Info().Msg("configuration loaded")

	database.Connect()
	defer database.Close()
	log.Info().Msg("database connected")

	cache.ConnectRedis()
	defer cache.CloseRedis()
	log.Info().Msg("redis connected")

	userRepo := repository.NewPgUserRepository(database.DB)
	gameRepo := repository.NewPgGameRepository(database.DB)
	scoreRepo := repository.NewPgScoreRepository(database.DB)
	testCaseRepo := repository.NewPgTestCaseRepository(database.DB)
	chatRepo := repository.NewPgChatRepository(database.DB)
	presenceRepo := repository.NewRedisPresenceRepository(cache.RDB)

	openrouter := client.NewOpenRouterClient(
		config.AppConfig.OpenRouterBaseURL,
		config.AppConfig.OpenRouterAPIKey,
		config.AppConfig.OpenRouterModel,
	)
	piston := client.NewPistonClient(config.AppConfig.PistonURL)
	leetcode := client.NewLeetCodeClient(config.AppConfig.LeetCodeAPIURL)

	authService := service.NewAuthService(userRepo, log)
	gameService := service.NewGameService(gameRepo, presenceRepo, scoreRepo, chatRepo, log)
	presenceService := service.NewPresenceService(presenceRepo, gameService, log)
	scoreService := service.NewScoreService(scoreRepo, gameRepo, log)
	chatService := service.NewChatService(chatRepo, gameRepo)
	testCaseService := service.NewTestCaseService(testCaseRepo, openrouter, log)
	executionService := service.NewExecutionService(piston, log)
	evaluationService := service.NewEvaluationService(openrouter, log)

	searchService, err := service.NewSearchService()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load problem index")
	}

	sweeper := worker.NewLifecycleSweeper(gameService, presenceService, log)
	sweeperCtx, sweeperCancel := context.WithCancel(context.Background())
	defer sweeperCancel()
	go sweeper.Start(sweeperCtx)
	log.Info().Msg("lifecycle sweeper started")

	router := api.NewRouter(
		authService,
		gameService,
		presenceService,
		scoreService,
		chatService,
		testCaseService,
		executionService,
		evaluationService,
		searchService,
		leetcode,
	)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", config.AppConfig.APIPort).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-stop

	log.Info().Msg("shutting down")
	sweeperCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown failed")
	}

	log.Info().Msg("stopped gracefully")
}
