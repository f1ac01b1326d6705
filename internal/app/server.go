package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/showee/rag-api/internal/agents"
	"github.com/showee/rag-api/internal/api/handlers"
	"github.com/showee/rag-api/internal/config"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, coordinator *agents.Coordinator) *Server {
	chatHandler := handlers.NewChatHandler(coordinator.Chat)
	docHandler := handlers.NewDocumentHandler(coordinator.Documents)
	sessionHandler := handlers.NewSessionHandler(coordinator.Sessions)
	forumHandler := handlers.NewForumHandler(coordinator.Forums)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Forum scrapes space page fetches with fixed delays, so the budget is
	// generous.
	r.Use(middleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8501", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"RAG API Server is running"}`))
	})

	r.Post("/chat", chatHandler.Chat)
	r.Post("/forums-search", forumHandler.Search)
	r.Post("/upload-doc", docHandler.Upload)
	r.Post("/delete-doc", docHandler.Delete)
	r.Get("/list-docs", docHandler.List)
	r.Get("/chat-sessions", sessionHandler.Sessions)
	r.Get("/chat-history", sessionHandler.History)

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
