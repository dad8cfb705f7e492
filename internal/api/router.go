package api

import (
	"net/http"
	"strings"
	"time"

	"codeclash/internal/api/handler"
	"codeclash/internal/app/service"
	"codeclash/internal/common/security"
	"codeclash/internal/platform/client"
	"codeclash/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rs/cors"
)

func NewRouter(
	authService *service.AuthService,
	gameService *service.GameService,
	presenceService *service.PresenceService,
	scoreService *service.ScoreService,
	chatService *service.ChatService,
	testCaseService *service.TestCaseService,
	executionService *service.ExecutionService,
	evaluationService *service.EvaluationService,
	searchService *service.SearchService,
	leetcodeClient *client.LeetCodeClient,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   strings.Split(config.AppConfig.CORSOrigins, ","),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	// Puts verified claims in context; routes decide whether identity is
	// required.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		gameHandler := handler.NewGameHandler(gameService, presenceService, scoreService, chatService, leetcodeClient)
		v1.Route("/games", gameHandler.RegisterRoutes)

		problemHandler := handler.NewProblemHandler(leetcodeClient, searchService)
		v1.Route("/problems", problemHandler.RegisterRoutes)

		testCaseHandler := handler.NewTestCaseHandler(testCaseService)
		v1.Route("/testcases", testCaseHandler.RegisterRoutes)

		executionHandler := handler.NewExecutionHandler(executionService, evaluationService)
		v1.Group(func(exec chi.Router) {
			executionHandler.RegisterRoutes(exec)
		})
	})

	return r
}
