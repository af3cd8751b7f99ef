package server

import (
	"embed"
	"html/template"
	"net/http"

	"tuneshelf/logger"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// IndexHandler renders the library home page listing every track.
func (h *APIHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.trackRepo.GetAllTracks(r.Context())
	if err != nil {
		logger.Error("[Index] failed to list tracks", logger.ErrorField(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, map[string]interface{}{"Tracks": tracks}); err != nil {
		logger.Error("[Index] failed to render template", logger.ErrorField(err))
	}
}
