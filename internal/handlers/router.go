package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/staranysa/TheHappyHaul/pkg/middleware"
)

// RouterConfig carries everything the HTTP surface depends on.
type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
	// UploadsDir is served under /uploads/ when set.
	UploadsDir string

	Users *UserHandler
	Kids  *KidHandler
	Media *MediaHandler
}

// NewRouter wires every route and wraps the result in CORS, panic recovery
// and request logging.
func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(NotFoundHandler)
	router.MethodNotAllowedHandler = http.HandlerFunc(NotFoundHandler)

	router.HandleFunc("/", InfoHandler).Methods("GET")
	router.HandleFunc("/health", HealthHandler).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", cfg.Users.RegisterHandler).Methods("POST")
	api.HandleFunc("/auth/login", cfg.Users.LoginHandler).Methods("POST")
	api.HandleFunc("/share/{shareToken}", cfg.Kids.GetSharedWishlistHandler).Methods("GET")
	api.HandleFunc("/search", cfg.Kids.SearchHandler).Methods("GET")

	// Routes open to anonymous share-link visitors
	optional := api.NewRoute().Subrouter()
	optional.Use(middleware.OptionalAuthMiddleware(cfg.JWTSecret))
	optional.HandleFunc("/kids", cfg.Kids.GetKidsHandler).Methods("GET")
	optional.HandleFunc("/kids/{kidId}/items/{itemId}", cfg.Kids.UpdateItemHandler).Methods("PUT")

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protected.HandleFunc("/auth/me", cfg.Users.MeHandler).Methods("GET")
	protected.HandleFunc("/kids", cfg.Kids.CreateKidHandler).Methods("POST")
	protected.HandleFunc("/kids/{kidId}", cfg.Kids.DeleteKidHandler).Methods("DELETE")
	protected.HandleFunc("/kids/{kidId}/items", cfg.Kids.CreateItemHandler).Methods("POST")
	protected.HandleFunc("/kids/{kidId}/items/{itemId}", cfg.Kids.DeleteItemHandler).Methods("DELETE")
	protected.HandleFunc("/kids/{kidId}/share-token", cfg.Kids.RegenerateShareTokenHandler).Methods("POST")
	protected.HandleFunc("/upload-image", cfg.Media.UploadImageHandler).Methods("POST")
	protected.HandleFunc("/extract-title", cfg.Media.ExtractTitleHandler).Methods("POST")

	if cfg.UploadsDir != "" {
		router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	log.WithField("origins", cfg.AllowedOrigins).Info("Router initialized")
	return middleware.LoggingMiddleware(c.Handler(middleware.RecoveryMiddleware(router)))
}
