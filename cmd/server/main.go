// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/uniguru/uniguru-server/internal/config"
	"github.com/uniguru/uniguru-server/internal/domain"
	"github.com/uniguru/uniguru-server/internal/handlers"
	"github.com/uniguru/uniguru-server/internal/middleware"
	"github.com/uniguru/uniguru-server/internal/ratelimit"
	chatrepo "github.com/uniguru/uniguru-server/internal/repository/chat"
	gururepo "github.com/uniguru/uniguru-server/internal/repository/guru"
	messagerepo "github.com/uniguru/uniguru-server/internal/repository/message"
	userrepo "github.com/uniguru/uniguru-server/internal/repository/user"
	"github.com/uniguru/uniguru-server/internal/services"
	"github.com/uniguru/uniguru-server/internal/services/ai"
	"github.com/uniguru/uniguru-server/internal/services/composer"
	"github.com/uniguru/uniguru-server/internal/services/user_services"
)

func main() {
	cfg := config.Load()
	logger := services.NewLogger("uniguru")

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Guru{}, &domain.Chat{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := userrepo.NewGormUserRepository(db)
	guruRepo := gururepo.NewGuruRepository(db)
	chatRepo := chatrepo.NewChatRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)

	// --- Services ---
	aiProvider := ai.NewOpenAIProvider(&ai.Config{
		LLMKey:     cfg.LLMAPIKey,
		LLMBaseURL: cfg.LLMBaseURL,
		Timeout:    cfg.LLMTimeout,
	})

	userService := user_services.NewUserService(userRepo, cfg.JWTSecretKey, logger)

	guruService, err := services.NewGuruService(guruRepo, chatRepo, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Guru Service: %v", err)
	}

	chatService, err := services.NewChatService(chatRepo, messageRepo, guruService, aiProvider, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Chat Service: %v", err)
	}

	composerService, err := composer.NewService(&composer.Config{
		PythonBin:  cfg.ComposerPythonBin,
		ScriptPath: cfg.ComposerScriptPath,
		Timeout:    cfg.ComposerTimeout,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Composer Service: %v", err)
	}

	markdownService := services.NewMarkdownService()

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userService)
	guruHandler := handlers.NewGuruHandler(guruService)
	chatHandler := handlers.NewChatHandler(chatService, markdownService)
	composeHandler := handlers.NewComposeHandler(composerService)

	// --- Rate Limiting ---
	authLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultAuthConfig())
	defer authLimiter.Close()

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(userService.AuthService)

	r.Use(middleware.CORS)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")
	r.HandleFunc("/api/log", handlers.LogFrontendEvent).Methods("POST")

	// Login and registration are brute-force targets; both sit behind the
	// auth limiter, and a successful login resets the caller's counter.
	authRoutes := r.PathPrefix("/api/auth").Subrouter()
	authRoutes.Use(middleware.RateLimitMiddleware(authLimiter, "auth"))
	authRoutes.Handle("/login",
		middleware.AuthSuccessMiddleware(authLimiter)(http.HandlerFunc(authHandler.Login))).Methods("POST")
	authRoutes.HandleFunc("/register", authHandler.Register).Methods("POST")
	authRoutes.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	// Public share links resolve without a token.
	r.HandleFunc("/api/shared/chats/{publicId}", chatHandler.GetSharedChat).Methods("GET")

	// --- Protected API Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")

	api.HandleFunc("/gurus", guruHandler.CreateGuru).Methods("POST")
	api.HandleFunc("/gurus", guruHandler.ListGurus).Methods("GET")
	api.HandleFunc("/gurus/{id:[0-9]+}", guruHandler.GetGuru).Methods("GET")
	api.HandleFunc("/gurus/{id:[0-9]+}", guruHandler.UpdateGuru).Methods("PUT")
	api.HandleFunc("/gurus/{id:[0-9]+}", guruHandler.DeleteGuru).Methods("DELETE")
	api.HandleFunc("/gurus/{id:[0-9]+}/like", guruHandler.ToggleLike).Methods("POST")

	api.HandleFunc("/chats", chatHandler.CreateChat).Methods("POST")
	api.HandleFunc("/chats", chatHandler.ListChats).Methods("GET")
	api.HandleFunc("/chats", chatHandler.ArchiveAll).Methods("DELETE")
	api.HandleFunc("/chats/messages", chatHandler.SendMessage).Methods("POST")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.GetChat).Methods("GET")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.UpdateChat).Methods("PATCH")
	api.HandleFunc("/chats/{id:[0-9]+}", chatHandler.ArchiveChat).Methods("DELETE")
	api.HandleFunc("/chats/{id:[0-9]+}/rename", chatHandler.RenameChat).Methods("PUT")
	api.HandleFunc("/chats/{id:[0-9]+}/share", chatHandler.ShareChat).Methods("POST")
	api.HandleFunc("/chats/{id:[0-9]+}/messages", chatHandler.GetChatMessages).Methods("GET")
	api.HandleFunc("/chats/{id:[0-9]+}/messages", chatHandler.SendMessageToChat).Methods("POST")
	api.HandleFunc("/chats/{id:[0-9]+}/messages", chatHandler.ClearMessages).Methods("DELETE")
	api.HandleFunc("/chats/{id:[0-9]+}/permanent", chatHandler.HardDeleteChat).Methods("DELETE")

	api.HandleFunc("/compose", composeHandler.Compose).Methods("POST")

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:         port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 3 * time.Minute,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("UniGuru server starting on port %s", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
