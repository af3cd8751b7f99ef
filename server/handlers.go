package server

import (
	"tuneshelf/config"
	"tuneshelf/core/auth"
	"tuneshelf/repository"
)

// APIHandler carries the dependencies shared by every HTTP handler.
type APIHandler struct {
	userRepo     repository.UserRepository
	authorRepo   repository.AuthorRepository
	trackRepo    repository.TrackRepository
	playlistRepo repository.PlaylistRepository
	tokens       *auth.TokenService
	cfg          *config.Config
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(
	userRepo repository.UserRepository,
	authorRepo repository.AuthorRepository,
	trackRepo repository.TrackRepository,
	playlistRepo repository.PlaylistRepository,
	tokens *auth.TokenService,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:     userRepo,
		authorRepo:   authorRepo,
		trackRepo:    trackRepo,
		playlistRepo: playlistRepo,
		tokens:       tokens,
		cfg:          cfg,
	}
}
