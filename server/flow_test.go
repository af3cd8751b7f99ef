package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"tuneshelf/config"
	"tuneshelf/core/auth"
	"tuneshelf/model"
	"tuneshelf/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a stateful in-memory backend implementing all four
// repository interfaces, used to drive full request flows.
type memStore struct {
	nextID    int64
	users     map[int64]*model.User
	authors   map[int64]*model.Author
	tracks    map[int64]*model.Track
	playlists map[int64]*model.Playlist
	members   map[int64]map[int64]bool // playlistID -> trackID set
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[int64]*model.User),
		authors:   make(map[int64]*model.Author),
		tracks:    make(map[int64]*model.Track),
		playlists: make(map[int64]*model.Playlist),
		members:   make(map[int64]map[int64]bool),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return 0, repository.ErrDuplicateEntry
		}
	}
	user.ID = s.id()
	s.users[user.ID] = user
	return user.ID, nil
}

func (s *memStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (s *memStore) GetOrCreateAuthor(ctx context.Context, name string) (*model.Author, error) {
	if a, err := s.GetAuthorByName(ctx, name); err != nil || a != nil {
		return a, err
	}
	a := &model.Author{ID: s.id(), Name: name}
	s.authors[a.ID] = a
	return a, nil
}

func (s *memStore) GetAuthorByName(ctx context.Context, name string) (*model.Author, error) {
	for _, a := range s.authors {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateTrack(ctx context.Context, track *model.Track) (int64, error) {
	for _, tr := range s.tracks {
		if tr.Filename == track.Filename {
			return 0, repository.ErrDuplicateEntry
		}
	}
	track.ID = s.id()
	s.tracks[track.ID] = track
	return track.ID, nil
}

func (s *memStore) GetTrackByID(ctx context.Context, id int64) (*model.Track, error) {
	return s.tracks[id], nil
}

func (s *memStore) GetAllTracks(ctx context.Context) ([]*model.Track, error) {
	tracks := make([]*model.Track, 0, len(s.tracks))
	for _, tr := range s.tracks {
		tracks = append(tracks, tr)
	}
	return tracks, nil
}

func (s *memStore) UpdateTrackTitle(ctx context.Context, trackID int64, title string) error {
	if tr := s.tracks[trackID]; tr != nil {
		tr.Title = title
	}
	return nil
}

func (s *memStore) DeleteTrack(ctx context.Context, trackID int64) error {
	delete(s.tracks, trackID)
	return nil
}

func (s *memStore) CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	playlist.ID = s.id()
	s.playlists[playlist.ID] = playlist
	s.members[playlist.ID] = make(map[int64]bool)
	return nil
}

func (s *memStore) GetPlaylistByID(ctx context.Context, id int64) (*model.Playlist, error) {
	return s.playlists[id], nil
}

func (s *memStore) GetPlaylistsByUserID(ctx context.Context, userID int64) ([]*model.Playlist, error) {
	playlists := make([]*model.Playlist, 0)
	for _, p := range s.playlists {
		if p.UserID == userID {
			playlists = append(playlists, p)
		}
	}
	return playlists, nil
}

func (s *memStore) RenamePlaylist(ctx context.Context, id int64, name string) error {
	if p := s.playlists[id]; p != nil {
		p.Name = name
	}
	return nil
}

func (s *memStore) DeletePlaylist(ctx context.Context, id int64) error {
	delete(s.playlists, id)
	delete(s.members, id)
	return nil
}

func (s *memStore) GetPlaylistTracks(ctx context.Context, playlistID int64) ([]*model.Track, error) {
	tracks := make([]*model.Track, 0)
	for trackID := range s.members[playlistID] {
		if tr := s.tracks[trackID]; tr != nil {
			tracks = append(tracks, tr)
		}
	}
	return tracks, nil
}

func (s *memStore) AddTrackToPlaylist(ctx context.Context, playlistID, trackID int64) error {
	s.members[playlistID][trackID] = true
	return nil
}

func (s *memStore) RemoveTrackFromPlaylist(ctx context.Context, playlistID, trackID int64) error {
	if !s.members[playlistID][trackID] {
		return repository.ErrTrackNotInPlaylist
	}
	delete(s.members[playlistID], trackID)
	return nil
}

func (s *memStore) DetachTrack(ctx context.Context, trackID int64) error {
	for _, set := range s.members {
		delete(set, trackID)
	}
	return nil
}

func TestFullUserJourney(t *testing.T) {
	store := newMemStore()
	cfg := &config.Config{
		UploadDir:      t.TempDir(),
		AudioUploadDir: t.TempDir(),
	}
	tokens := auth.NewTokenService("test-secret", 30*time.Minute)
	h := NewAPIHandler(store, store, store, store, tokens, cfg)
	router := NewRouter(h)

	// Register
	rec := postForm(t, router, "/auth/register", url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"hunter22"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Login, keeping both credential forms
	rec = postForm(t, router, "/auth/login", url.Values{
		"username": {"alice"},
		"password": {"hunter22"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	bearer := "Bearer " + login["access_token"]
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]

	// Upload a track with the cookie session
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "roadsong.mp3")
	require.NoError(t, err)
	_, err = part.Write([]byte("mp3 payload"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/tracks/add", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var track model.Track
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &track))
	require.NotZero(t, track.ID)

	// Create a playlist with the bearer token
	req = httptest.NewRequest(http.MethodPost, "/playlists/add",
		strings.NewReader(url.Values{"name": {"Road Trip"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", bearer)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var playlist model.Playlist
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &playlist))

	// Add the track, twice; the second add must be a no-op success and
	// the returned playlist still holds a single copy
	addPath := "/playlists/" + itoa(playlist.ID) + "/tracks/" + itoa(track.ID)
	for i := 0; i < 2; i++ {
		req = httptest.NewRequest(http.MethodPost, addPath, nil)
		req.Header.Set("Authorization", bearer)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var added struct {
			Tracks []*model.Track `json:"tracks"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
		require.Len(t, added.Tracks, 1)
	}

	// The playlist now lists exactly one track
	req = httptest.NewRequest(http.MethodGet, "/playlists/"+itoa(playlist.ID)+"/tracks", nil)
	req.Header.Set("Authorization", bearer)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var tracks []*model.Track
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tracks))
	require.Len(t, tracks, 1)
	assert.Equal(t, "roadsong.mp3", tracks[0].Filename)

	// Anyone can stream it
	req = httptest.NewRequest(http.MethodGet, "/tracks/play/"+itoa(track.ID), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mp3 payload", rec.Body.String())

	// Deleting the track empties the playlist
	req = httptest.NewRequest(http.MethodPost, "/tracks/delete/"+itoa(track.ID), nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/playlists/"+itoa(playlist.ID)+"/tracks", nil)
	req.Header.Set("Authorization", bearer)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	tracks = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tracks))
	assert.Empty(t, tracks)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
