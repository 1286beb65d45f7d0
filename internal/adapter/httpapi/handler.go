// Package httpapi exposes the learning engine over a JSON HTTP surface.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/learnpulse/internal/adapter/mapping"
	"github.com/eslsoft/learnpulse/internal/entity"
	"github.com/eslsoft/learnpulse/internal/repository"
	"github.com/eslsoft/learnpulse/internal/usecase"
)

var timeNow = time.Now

// Handler serves the engine's HTTP routes.
type Handler struct {
	engine usecase.LearningEngine
	logger *logrus.Logger
}

func NewHandler(engine usecase.LearningEngine, logger *logrus.Logger) *Handler {
	return &Handler{engine: engine, logger: logger}
}

// Register attaches all routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/events", h.recordEvent)
	mux.HandleFunc("GET /v1/users/{id}/events", h.listEvents)
	mux.HandleFunc("GET /v1/users/{id}/profile", h.getProfile)
	mux.HandleFunc("GET /v1/users/{id}/recommendations", h.getRecommendations)
	mux.HandleFunc("GET /v1/users/{id}/analytics", h.getAnalytics)
	mux.HandleFunc("GET /v1/system/stats", h.getSystemStats)
	mux.HandleFunc("GET /healthz", h.healthz)
}

func (h *Handler) recordEvent(w http.ResponseWriter, r *http.Request) {
	var req mapping.LearningEvent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, err := h.engine.RecordEvent(r.Context(), req.UserID, mapping.FromEventRequest(&req))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, mapping.ToEventResponse(stored))
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	query := &repository.ListEventQuery{
		UserID: userID,
		Pagination: repository.Pagination{
			PageNo:   queryInt32(r, "page_no", 1),
			PageSize: queryInt32(r, "page_size", 50),
		},
		FilterOrder: repository.FilterOrder{
			Filter:  r.URL.Query().Get("filter"),
			OrderBy: r.URL.Query().Get("order_by"),
		},
	}
	events, total, err := h.engine.ListEvents(r.Context(), query)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, mapping.ToListEventsResponse(events, total))
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.engine.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if profile == nil {
		h.writeError(w, http.StatusNotFound, entity.ErrProfileNotFound.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, mapping.ToProfileResponse(profile))
}

func (h *Handler) getRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	recs, err := h.engine.GenerateRecommendations(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, mapping.ToRecommendationsResponse(recs, timeNow()))
}

func (h *Handler) getAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	analytics, err := h.engine.GetAnalytics(r.Context(), userID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, mapping.ToAnalyticsResponse(analytics))
}

func (h *Handler) getSystemStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.GetSystemStats(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, mapping.ToSystemStatsResponse(stats))
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) pathUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, entity.ErrInvalidUserID.Error())
		return 0, false
	}
	return id, true
}

func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	status := mapping.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.WithError(err).Error("request failed")
		h.writeError(w, status, "internal error")
		return
	}
	h.writeError(w, status, err.Error())
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, mapping.ErrorResponse{Error: message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).Warn("failed to encode response")
	}
}

func queryInt32(r *http.Request, key string, def int32) int32 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return def
	}
	return int32(value)
}
