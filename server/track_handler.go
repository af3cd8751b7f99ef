package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"tuneshelf/logger"
	"tuneshelf/model"
	"tuneshelf/repository"

	"github.com/gorilla/mux"
)

// GetTracksHandler returns every track in the library. Unauthenticated.
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.trackRepo.GetAllTracks(r.Context())
	if err != nil {
		logger.Error("[Tracks] failed to list tracks", logger.ErrorField(err))
		http.Error(w, "Failed to retrieve tracks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tracks)
}

// UploadTrackHandler handles audio file uploads. Expects a multipart
// form with a single "file" field; the client-supplied filename becomes
// both the storage key and the initial title.
func (h *APIHandler) UploadTrackHandler(w http.ResponseWriter, r *http.Request) {
	username, err := GetUsernameFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB max memory
		http.Error(w, fmt.Sprintf("Failed to parse multipart form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing 'file' in form", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := header.Filename
	if err := model.ValidateTrackFilename(filename); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// The file is written before the insert, matching the accepted race:
	// a concurrent upload with the same name overwrites the bytes and
	// the loser surfaces as a Conflict on the unique filename.
	destPath := filepath.Join(h.cfg.AudioUploadDir, filename)
	if err := saveUploadedFile(file, destPath); err != nil {
		logger.Error("[Upload] failed to save file",
			logger.String("filename", filename),
			logger.ErrorField(err))
		http.Error(w, "Failed to save track file", http.StatusInternalServerError)
		return
	}

	author, err := h.authorRepo.GetOrCreateAuthor(r.Context(), username)
	if err != nil {
		logger.Error("[Upload] failed to resolve author", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	track := &model.Track{
		Title:    filename,
		Filename: filename,
		AuthorID: author.ID,
	}

	trackID, err := h.trackRepo.CreateTrack(r.Context(), track)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			http.Error(w, "A track with this filename already exists", http.StatusConflict)
			return
		}
		logger.Error("[Upload] failed to create track", logger.ErrorField(err))
		http.Error(w, "Failed to create track", http.StatusInternalServerError)
		return
	}
	track.ID = trackID

	logger.Info("[Upload] track uploaded",
		logger.Int64("trackId", trackID),
		logger.String("filename", filename),
		logger.String("author", username))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(track)
}

func saveUploadedFile(file multipart.File, destPath string) error {
	destFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", destPath, err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, file); err != nil {
		return fmt.Errorf("failed to copy uploaded file to %s: %w", destPath, err)
	}
	return nil
}

// trackForOwner loads a track and checks the requester owns it. Writes
// the error response and returns nil when the request must not proceed.
func (h *APIHandler) trackForOwner(w http.ResponseWriter, r *http.Request) *model.Track {
	trackID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid track ID", http.StatusBadRequest)
		return nil
	}

	track, err := h.trackRepo.GetTrackByID(r.Context(), trackID)
	if err != nil {
		logger.Error("[Tracks] failed to get track", logger.Int64("trackId", trackID), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil
	}
	if track == nil {
		http.Error(w, "Track not found", http.StatusNotFound)
		return nil
	}

	username, err := GetUsernameFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}

	author, err := h.authorRepo.GetAuthorByName(r.Context(), username)
	if err != nil {
		logger.Error("[Tracks] failed to resolve author", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil
	}
	if author == nil || !isOwner(track.AuthorID, author.ID) {
		http.Error(w, "Not enough permissions", http.StatusForbidden)
		return nil
	}

	return track
}

// UpdateTrackHandler renames a track. Form field: title. The filename
// and file contents are untouched.
func (h *APIHandler) UpdateTrackHandler(w http.ResponseWriter, r *http.Request) {
	track := h.trackForOwner(w, r)
	if track == nil {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	title := r.PostFormValue("title")
	if title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	if err := h.trackRepo.UpdateTrackTitle(r.Context(), track.ID, title); err != nil {
		logger.Error("[Tracks] failed to update title", logger.Int64("trackId", track.ID), logger.ErrorField(err))
		http.Error(w, "Failed to update track", http.StatusInternalServerError)
		return
	}
	track.Title = title

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(track)
}

// DeleteTrackHandler removes a track, its playlist memberships and the
// backing file. A missing file is tolerated.
func (h *APIHandler) DeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	track := h.trackForOwner(w, r)
	if track == nil {
		return
	}

	if err := h.playlistRepo.DetachTrack(r.Context(), track.ID); err != nil {
		logger.Error("[Tracks] failed to detach track from playlists", logger.Int64("trackId", track.ID), logger.ErrorField(err))
		http.Error(w, "Failed to delete track", http.StatusInternalServerError)
		return
	}

	if err := h.trackRepo.DeleteTrack(r.Context(), track.ID); err != nil {
		logger.Error("[Tracks] failed to delete track", logger.Int64("trackId", track.ID), logger.ErrorField(err))
		http.Error(w, "Failed to delete track", http.StatusInternalServerError)
		return
	}

	filePath := filepath.Join(h.cfg.AudioUploadDir, track.Filename)
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		logger.Warn("[Tracks] failed to remove backing file",
			logger.String("path", filePath),
			logger.ErrorField(err))
	}

	logger.Info("[Tracks] track deleted", logger.Int64("trackId", track.ID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Track deleted"})
}

// PlayTrackHandler streams the stored audio file. Unauthenticated.
func (h *APIHandler) PlayTrackHandler(w http.ResponseWriter, r *http.Request) {
	trackID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid track ID", http.StatusBadRequest)
		return
	}

	track, err := h.trackRepo.GetTrackByID(r.Context(), trackID)
	if err != nil {
		logger.Error("[Play] failed to get track", logger.Int64("trackId", trackID), logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if track == nil {
		http.Error(w, "Track not found", http.StatusNotFound)
		return
	}

	filePath := filepath.Join(h.cfg.AudioUploadDir, track.Filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", model.AudioContentType(track.Filename))
	http.ServeFile(w, r, filePath)
}
