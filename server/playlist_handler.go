package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"tuneshelf/logger"
	"tuneshelf/model"
	"tuneshelf/repository"

	"github.com/gorilla/mux"
)

// playlistForOwner loads a playlist and checks the requester owns it.
// Writes the error response and returns nil when the request must not
// proceed.
func (h *APIHandler) playlistForOwner(w http.ResponseWriter, r *http.Request) *model.Playlist {
	playlistID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid playlist ID", http.StatusBadRequest)
		return nil
	}

	playlist, err := h.playlistRepo.GetPlaylistByID(r.Context(), playlistID)
	if err != nil {
		logger.Error("[Playlists] failed to get playlist", logger.Int64("playlistId", playlistID), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil
	}
	if playlist == nil {
		http.Error(w, "Playlist not found", http.StatusNotFound)
		return nil
	}

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}
	if !isOwner(playlist.UserID, userID) {
		http.Error(w, "Not enough permissions", http.StatusForbidden)
		return nil
	}

	return playlist
}

// CreatePlaylistHandler creates an empty playlist owned by the
// requester. Form field: name.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	name := r.PostFormValue("name")
	if name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	playlist := &model.Playlist{
		Name:   name,
		UserID: userID,
	}
	if err := h.playlistRepo.CreatePlaylist(r.Context(), playlist); err != nil {
		logger.Error("[Playlists] failed to create playlist", logger.ErrorField(err))
		http.Error(w, "Failed to create playlist", http.StatusInternalServerError)
		return
	}

	logger.Info("[Playlists] playlist created",
		logger.Int64("playlistId", playlist.ID),
		logger.Int64("userId", userID))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(playlist)
}

// GetPlaylistsHandler lists the requester's playlists.
func (h *APIHandler) GetPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	playlists, err := h.playlistRepo.GetPlaylistsByUserID(r.Context(), userID)
	if err != nil {
		logger.Error("[Playlists] failed to list playlists", logger.Int64("userId", userID), logger.ErrorField(err))
		http.Error(w, "Failed to retrieve playlists", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(playlists)
}

// GetPlaylistHandler returns one playlist together with its tracks.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlist := h.playlistForOwner(w, r)
	if playlist == nil {
		return
	}

	tracks, err := h.playlistRepo.GetPlaylistTracks(r.Context(), playlist.ID)
	if err != nil {
		logger.Error("[Playlists] failed to load tracks", logger.Int64("playlistId", playlist.ID), logger.ErrorField(err))
		http.Error(w, "Failed to retrieve playlist tracks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":     playlist.ID,
		"name":   playlist.Name,
		"userId": playlist.UserID,
		"tracks": tracks,
	})
}

// GetPlaylistTracksHandler returns just the tracks of a playlist.
func (h *APIHandler) GetPlaylistTracksHandler(w http.ResponseWriter, r *http.Request) {
	playlist := h.playlistForOwner(w, r)
	if playlist == nil {
		return
	}

	tracks, err := h.playlistRepo.GetPlaylistTracks(r.Context(), playlist.ID)
	if err != nil {
		logger.Error("[Playlists] failed to load tracks", logger.Int64("playlistId", playlist.ID), logger.ErrorField(err))
		http.Error(w, "Failed to retrieve playlist tracks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tracks)
}

// RenamePlaylistHandler renames a playlist. Form field: name.
func (h *APIHandler) RenamePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlist := h.playlistForOwner(w, r)
	if playlist == nil {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	name := r.PostFormValue("name")
	if name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	if err := h.playlistRepo.RenamePlaylist(r.Context(), playlist.ID, name); err != nil {
		logger.Error("[Playlists] failed to rename playlist", logger.Int64("playlistId", playlist.ID), logger.ErrorField(err))
		http.Error(w, "Failed to rename playlist", http.StatusInternalServerError)
		return
	}
	playlist.Name = name

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(playlist)
}

// DeletePlaylistHandler removes a playlist and its memberships. Tracks
// themselves are untouched.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlist := h.playlistForOwner(w, r)
	if playlist == nil {
		return
	}

	if err := h.playlistRepo.DeletePlaylist(r.Context(), playlist.ID); err != nil {
		logger.Error("[Playlists] failed to delete playlist", logger.Int64("playlistId", playlist.ID), logger.ErrorField(err))
		http.Error(w, "Failed to delete playlist", http.StatusInternalServerError)
		return
	}

	logger.Info("[Playlists] playlist deleted", logger.Int64("playlistId", playlist.ID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Playlist deleted"})
}

// AddPlaylistTrackHandler adds a track to a playlist. Adding a track
// that is already a member succeeds without effect.
func (h *APIHandler) AddPlaylistTrackHandler(w http.ResponseWriter, r *http.Request) {
	playlist := h.playlistForOwner(w, r)
	if playlist == nil {
		return
	}

	trackID, err := strconv.ParseInt(mux.Vars(r)["trackId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid track ID", http.StatusBadRequest)
		return
	}

	track, err := h.trackRepo.GetTrackByID(r.Context(), trackID)
	if err != nil {
		logger.Error("[Playlists] failed to get track", logger.Int64("trackId", trackID), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if track == nil {
		http.Error(w, "Track not found", http.StatusNotFound)
		return
	}

	if err := h.playlistRepo.AddTrackToPlaylist(r.Context(), playlist.ID, trackID); err != nil {
		logger.Error("[Playlists] failed to add track",
			logger.Int64("playlistId", playlist.ID),
			logger.Int64("trackId", trackID),
			logger.ErrorField(err))
		http.Error(w, "Failed to add track to playlist", http.StatusInternalServerError)
		return
	}

	tracks, err := h.playlistRepo.GetPlaylistTracks(r.Context(), playlist.ID)
	if err != nil {
		logger.Error("[Playlists] failed to load tracks", logger.Int64("playlistId", playlist.ID), logger.ErrorField(err))
		http.Error(w, "Failed to retrieve playlist tracks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":     playlist.ID,
		"name":   playlist.Name,
		"userId": playlist.UserID,
		"tracks": tracks,
	})
}

// RemovePlaylistTrackHandler removes a track from a playlist. Removing
// a track that is not a member is NotFound.
func (h *APIHandler) RemovePlaylistTrackHandler(w http.ResponseWriter, r *http.Request) {
	playlist := h.playlistForOwner(w, r)
	if playlist == nil {
		return
	}

	trackID, err := strconv.ParseInt(mux.Vars(r)["trackId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid track ID", http.StatusBadRequest)
		return
	}

	if err := h.playlistRepo.RemoveTrackFromPlaylist(r.Context(), playlist.ID, trackID); err != nil {
		if errors.Is(err, repository.ErrTrackNotInPlaylist) {
			http.Error(w, "Track not in playlist", http.StatusNotFound)
			return
		}
		logger.Error("[Playlists] failed to remove track",
			logger.Int64("playlistId", playlist.ID),
			logger.Int64("trackId", trackID),
			logger.ErrorField(err))
		http.Error(w, "Failed to remove track from playlist", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Track removed from playlist"})
}
