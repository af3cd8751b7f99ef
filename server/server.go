package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tuneshelf/config"
	"tuneshelf/core/auth"
	"tuneshelf/db"
	"tuneshelf/logger"
	"tuneshelf/repository"

	"github.com/gorilla/mux"
)

// NewRouter builds the full route table around an APIHandler.
func NewRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()

	router.Use(corsMiddleware)
	router.Use(requestLogMiddleware)

	// Auth endpoints
	router.HandleFunc("/auth/register", h.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", h.LoginHandler).Methods(http.MethodPost)

	// Track endpoints. Reads are public, mutations ride the login cookie.
	router.HandleFunc("/tracks/", h.GetTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/tracks/add", h.CookieAuthMiddleware(h.UploadTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/tracks/update/{id}", h.CookieAuthMiddleware(h.UpdateTrackHandler)).Methods(http.MethodPut)
	router.HandleFunc("/tracks/delete/{id}", h.CookieAuthMiddleware(h.DeleteTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/tracks/play/{id}", h.PlayTrackHandler).Methods(http.MethodGet)

	// Playlist endpoints, all behind bearer auth.
	router.HandleFunc("/playlists/", h.BearerAuthMiddleware(h.GetPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/playlists/add", h.BearerAuthMiddleware(h.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/playlists/update/{id}", h.BearerAuthMiddleware(h.RenamePlaylistHandler)).Methods(http.MethodPut)
	router.HandleFunc("/playlists/delete/{id}", h.BearerAuthMiddleware(h.DeletePlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/playlists/{id}", h.BearerAuthMiddleware(h.GetPlaylistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/playlists/{id}/tracks", h.BearerAuthMiddleware(h.GetPlaylistTracksHandler)).Methods(http.MethodGet)
	router.HandleFunc("/playlists/{id}/tracks/{trackId}", h.BearerAuthMiddleware(h.AddPlaylistTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/playlists/{id}/tracks/{trackId}", h.BearerAuthMiddleware(h.RemovePlaylistTrackHandler)).Methods(http.MethodDelete)

	// Library home page
	router.HandleFunc("/", h.IndexHandler).Methods(http.MethodGet)

	return router
}

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
	})

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	ensureDirExists(cfg.UploadDir)
	ensureDirExists(cfg.AudioUploadDir)

	userRepo := repository.NewMySQLUserRepository(db.DB)
	authorRepo := repository.NewMySQLAuthorRepository(db.DB)
	trackRepo := repository.NewMySQLTrackRepository(db.DB)
	playlistRepo := repository.NewGormPlaylistRepository(db.GormDB)

	tokens := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	apiHandler := NewAPIHandler(userRepo, authorRepo, trackRepo, playlistRepo, tokens, cfg)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      NewRouter(apiHandler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}

func ensureDirExists(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Info("Creating directory", logger.String("path", path))
		if err := os.MkdirAll(path, 0755); err != nil {
			logger.Fatal("Failed to create directory", logger.String("path", path), logger.ErrorField(err))
		}
	} else if err != nil {
		logger.Fatal("Failed to check directory", logger.String("path", path), logger.ErrorField(err))
	}
}
