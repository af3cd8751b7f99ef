package server

import (
	"context"
	"testing"
	"time"

	"tuneshelf/config"
	"tuneshelf/core/auth"
	"tuneshelf/model"
	"tuneshelf/repository"
)

// newTestHandler builds an APIHandler around fakes with uploads pointed
// at a per-test temp directory.
func newTestHandler(
	t *testing.T,
	userRepo repository.UserRepository,
	authorRepo repository.AuthorRepository,
	trackRepo repository.TrackRepository,
	playlistRepo repository.PlaylistRepository,
) *APIHandler {
	t.Helper()
	cfg := &config.Config{
		UploadDir:      t.TempDir(),
		AudioUploadDir: t.TempDir(),
	}
	tokens := auth.NewTokenService("test-secret", 30*time.Minute)
	return NewAPIHandler(userRepo, authorRepo, trackRepo, playlistRepo, tokens, cfg)
}

// Function-field fakes for the repository interfaces. Tests set only the
// methods a handler is expected to call; anything else panics loudly.

type fakeUserRepo struct {
	createUser        func(ctx context.Context, user *model.User) (int64, error)
	getUserByUsername func(ctx context.Context, username string) (*model.User, error)
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	return f.createUser(ctx, user)
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return f.getUserByUsername(ctx, username)
}

type fakeAuthorRepo struct {
	getOrCreateAuthor func(ctx context.Context, name string) (*model.Author, error)
	getAuthorByName   func(ctx context.Context, name string) (*model.Author, error)
}

func (f *fakeAuthorRepo) GetOrCreateAuthor(ctx context.Context, name string) (*model.Author, error) {
	return f.getOrCreateAuthor(ctx, name)
}

func (f *fakeAuthorRepo) GetAuthorByName(ctx context.Context, name string) (*model.Author, error) {
	return f.getAuthorByName(ctx, name)
}

type fakeTrackRepo struct {
	createTrack      func(ctx context.Context, track *model.Track) (int64, error)
	getTrackByID     func(ctx context.Context, id int64) (*model.Track, error)
	getAllTracks     func(ctx context.Context) ([]*model.Track, error)
	updateTrackTitle func(ctx context.Context, trackID int64, title string) error
	deleteTrack      func(ctx context.Context, trackID int64) error
}

func (f *fakeTrackRepo) CreateTrack(ctx context.Context, track *model.Track) (int64, error) {
	return f.createTrack(ctx, track)
}

func (f *fakeTrackRepo) GetTrackByID(ctx context.Context, id int64) (*model.Track, error) {
	return f.getTrackByID(ctx, id)
}

func (f *fakeTrackRepo) GetAllTracks(ctx context.Context) ([]*model.Track, error) {
	return f.getAllTracks(ctx)
}

func (f *fakeTrackRepo) UpdateTrackTitle(ctx context.Context, trackID int64, title string) error {
	return f.updateTrackTitle(ctx, trackID, title)
}

func (f *fakeTrackRepo) DeleteTrack(ctx context.Context, trackID int64) error {
	return f.deleteTrack(ctx, trackID)
}

type fakePlaylistRepo struct {
	createPlaylist          func(ctx context.Context, playlist *model.Playlist) error
	getPlaylistByID         func(ctx context.Context, id int64) (*model.Playlist, error)
	getPlaylistsByUserID    func(ctx context.Context, userID int64) ([]*model.Playlist, error)
	renamePlaylist          func(ctx context.Context, id int64, name string) error
	deletePlaylist          func(ctx context.Context, id int64) error
	getPlaylistTracks       func(ctx context.Context, playlistID int64) ([]*model.Track, error)
	addTrackToPlaylist      func(ctx context.Context, playlistID, trackID int64) error
	removeTrackFromPlaylist func(ctx context.Context, playlistID, trackID int64) error
	detachTrack             func(ctx context.Context, trackID int64) error
}

func (f *fakePlaylistRepo) CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	return f.createPlaylist(ctx, playlist)
}

func (f *fakePlaylistRepo) GetPlaylistByID(ctx context.Context, id int64) (*model.Playlist, error) {
	return f.getPlaylistByID(ctx, id)
}

func (f *fakePlaylistRepo) GetPlaylistsByUserID(ctx context.Context, userID int64) ([]*model.Playlist, error) {
	return f.getPlaylistsByUserID(ctx, userID)
}

func (f *fakePlaylistRepo) RenamePlaylist(ctx context.Context, id int64, name string) error {
	return f.renamePlaylist(ctx, id, name)
}

func (f *fakePlaylistRepo) DeletePlaylist(ctx context.Context, id int64) error {
	return f.deletePlaylist(ctx, id)
}

func (f *fakePlaylistRepo) GetPlaylistTracks(ctx context.Context, playlistID int64) ([]*model.Track, error) {
	return f.getPlaylistTracks(ctx, playlistID)
}

func (f *fakePlaylistRepo) AddTrackToPlaylist(ctx context.Context, playlistID, trackID int64) error {
	return f.addTrackToPlaylist(ctx, playlistID, trackID)
}

func (f *fakePlaylistRepo) RemoveTrackFromPlaylist(ctx context.Context, playlistID, trackID int64) error {
	return f.removeTrackFromPlaylist(ctx, playlistID, trackID)
}

func (f *fakePlaylistRepo) DetachTrack(ctx context.Context, trackID int64) error {
	return f.detachTrack(ctx, trackID)
}
