package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/claude/mesoplan/internal/ingest"
	"github.com/claude/mesoplan/internal/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

// handleStrategy returns the configuration for a training age. Unknown ages
// get the default configuration, same as generation does.
func (s *Server) handleStrategy(w http.ResponseWriter, r *http.Request) {
	age, _ := models.NormalizeTrainingAge(chi.URLParam(r, "age"))
	writeJSON(w, http.StatusOK, map[string]any{
		"training_age": age,
		"strategy":     s.planner.Strategy(age),
	})
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.templates.Entries())
}

// handleExercises lists the library. Query params category, pattern and
// muscle filter; exclude is a comma-separated ID list; limit caps results.
func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ExerciseFilter{
		Pattern:       q.Get("pattern"),
		PrimaryMuscle: q.Get("muscle"),
	}
	if v := q.Get("category"); v != "" {
		c, ok := models.ParseCategory(v)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown category")
			return
		}
		filter.Category = c
	}
	var exclude []string
	if v := q.Get("exclude"); v != "" {
		exclude = strings.Split(v, ",")
	}
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	exercises, err := s.store.FindExercises(r.Context(), filter, exclude, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	writeJSON(w, http.StatusOK, exercises)
}

// maxImportBytes caps an exercise import body.
const maxImportBytes = 4 << 20

// handleImportExercises adds user-created exercises from a YAML or JSON body.
func (s *Server) handleImportExercises(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	result, err := ingest.Import(r.Context(), body, s.store, s.log)
	if errors.Is(err, ingest.ErrInvalidDocument) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.log.Error("exercise import failed", "error", err)
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
