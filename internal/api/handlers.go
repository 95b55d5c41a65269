package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/its-pratyushpandey/Intellia/internal/identity"
	"github.com/its-pratyushpandey/Intellia/internal/intent"
	"github.com/its-pratyushpandey/Intellia/internal/models"
)

const httpShutdownTimeout = 10 * time.Second

// userID resolves the caller's user identifier. Sessions are single-user; the
// header lets multiple profiles share one deployment.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return "default"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), userID(r))
	if errors.Is(err, identity.ErrNotFound) {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load user")
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateAssistantRequest struct {
	Name           string `json:"name"`
	AssistantName  string `json:"assistantName"`
	AssistantImage string `json:"imageUrl"`
}

func (s *Server) handleUpdateAssistant(w http.ResponseWriter, r *http.Request) {
	var req updateAssistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.AssistantName) == "" {
		writeError(w, http.StatusBadRequest, "assistantName is required")
		return
	}

	id := userID(r)
	user, err := s.store.GetUser(r.Context(), id)
	if errors.Is(err, identity.ErrNotFound) {
		// First customization creates the profile.
		user = &models.User{
			ID:          id,
			Name:        req.Name,
			NLPSettings: models.DefaultNLPSettings(),
			CreatedAt:   time.Now(),
		}
		if err := s.store.UpsertUser(r.Context(), user); err != nil {
			s.logger.Error().Err(err).Msg("Failed to create user")
			writeError(w, http.StatusInternalServerError, "failed to create user")
			return
		}
	} else if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load user")
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	if err := s.store.UpdateAssistant(r.Context(), id, req.AssistantName, req.AssistantImage); err != nil {
		s.logger.Error().Err(err).Msg("Failed to update assistant")
		writeError(w, http.StatusInternalServerError, "failed to update assistant")
		return
	}

	user, err = s.store.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateSettingsRequest struct {
	VoiceSettings *models.VoiceSettings `json:"voiceSettings"`
	NLPSettings   *models.NLPSettings   `json:"nlpSettings"`
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VoiceSettings == nil && req.NLPSettings == nil {
		writeError(w, http.StatusBadRequest, "no settings provided")
		return
	}

	id := userID(r)
	if err := s.store.UpdateSettings(r.Context(), id, req.VoiceSettings, req.NLPSettings); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to update settings")
		writeError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}

	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reload user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	entries, err := s.store.History(r.Context(), userID(r), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load history")
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type askRequest struct {
	Command string `json:"command"`
}

// handleAsk runs one classify/parse cycle outside a live session. The reply
// is always a speakable intent record, including when validation or identity
// lookup fails.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, intent.ValidationError(""))
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		writeJSON(w, http.StatusOK, intent.ValidationError(req.Command))
		return
	}

	user, err := s.store.GetUser(r.Context(), userID(r))
	if err != nil {
		writeJSON(w, http.StatusOK, intent.AuthError(req.Command))
		return
	}

	raw, _ := s.classifier.Ask(r.Context(), req.Command, user.AssistantName, user.Name,
		user.VoiceSettings, user.NLPSettings)
	rec := intent.Parse(raw, req.Command, user.VoiceSettings.LanguageOrDefault())
	writeJSON(w, http.StatusOK, rec)
}
