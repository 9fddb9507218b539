package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/mesoplan/internal/models"
	"github.com/claude/mesoplan/internal/planner"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// generateRequest is a profile plus an optional request to persist the plan.
type generateRequest struct {
	models.UserProfile
	Save bool `json:"save"`
}

type generateResponse struct {
	*planner.Result
	Saved bool `json:"saved"`
}

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.DaysAvailable <= 0 {
		writeError(w, http.StatusBadRequest, "days_available must be positive")
		return
	}

	result, err := s.planner.PlanFor(r.Context(), req.UserProfile)
	if errors.Is(err, planner.ErrNoTemplate) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		s.log.Error("generate plan", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := generateResponse{Result: result}
	if req.Save {
		if err := s.store.SavePlan(r.Context(), result.Plan); err != nil {
			s.log.Error("save plan", "plan", result.Plan.ID, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Saved = true
		s.log.Info("plan saved", "plan", result.Plan.ID, "user", userInfoFromContext(r).Login)
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handlePutPlan stores a plan generated elsewhere, e.g. by the CLI.
func (s *Server) handlePutPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var plan models.Plan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if plan.ID != id {
		writeError(w, http.StatusBadRequest, "plan id does not match path")
		return
	}
	if err := s.store.SavePlan(r.Context(), &plan); err != nil {
		s.log.Error("put plan", "plan", id, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.ListPlans(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if plans == nil {
		plans = []models.PlanSummary{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	plan, err := s.store.GetPlan(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, "plan not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	err := s.store.DeletePlan(r.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, "plan not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteSession(completed bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		planID, ok := pathUUID(w, r, "id")
		if !ok {
			return
		}
		sessionID, ok := pathUUID(w, r, "sessionID")
		if !ok {
			return
		}
		err := s.store.SetSessionCompleted(r.Context(), planID, sessionID, completed)
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"session_id": sessionID, "completed": completed})
	}
}

func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+param)
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
