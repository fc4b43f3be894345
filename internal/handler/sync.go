package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/calderw/mirrorsync/internal/domain"
	"github.com/calderw/mirrorsync/internal/logger"
	"github.com/calderw/mirrorsync/internal/sync"
	"github.com/go-chi/chi/v5"
)

// SyncTrigger dispatches a sync run without waiting for it to finish.
type SyncTrigger interface {
	TriggerSync(ctx context.Context, configID int64, kind string) error
}

// TriggerSyncRequest represents an optional trigger request body
type TriggerSyncRequest struct {
	Kind string `json:"sync_type,omitempty" validate:"omitempty,oneof=manual scheduled"`
}

// TriggerSyncResponse confirms a run was enqueued
type TriggerSyncResponse struct {
	Message  string `json:"message"`
	ConfigID int64  `json:"config_id"`
	Kind     string `json:"sync_type"`
}

// parseConfigID extracts and validates the configID route parameter
func parseConfigID(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "configID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// HandleTriggerSync handles POST requests to start a sync run
// @Summary Trigger sync
// @Description Enqueue a sync run for a configuration. Returns 409 if a run is already in progress.
// @Tags sync
// @Accept json
// @Produce json
// @Param configID path int true "Config ID"
// @Param request body TriggerSyncRequest false "Trigger options"
// @Success 202 {object} TriggerSyncResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /sync/{configID}/trigger [post]
func HandleTriggerSync(svc sync.Service, trigger SyncTrigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		configID, ok := parseConfigID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
			return
		}

		req := TriggerSyncRequest{Kind: domain.RunKindManual}
		if r.Body != nil && r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				log.Error("Failed to decode trigger request", "error", err)
				respondError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
			if req.Kind == "" {
				req.Kind = domain.RunKindManual
			}
			if err := GetValidator().ValidateStruct(req); err != nil {
				log.Warn("Invalid trigger request", "error", err)
				respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
				return
			}
		}

		// Validate the config exists before enqueueing so the caller gets
		// a 404 now instead of a silently failed background run.
		if _, err := svc.Status(r.Context(), configID); err != nil {
			status, message := mapServiceErrorToUserMessage(err)
			log.Warn("Trigger rejected", "config_id", configID, "error", err)
			respondError(w, status, message)
			return
		}

		if err := trigger.TriggerSync(r.Context(), configID, req.Kind); err != nil {
			status, message := mapServiceErrorToUserMessage(err)
			log.Warn("Trigger failed", "config_id", configID, "error", err)
			respondError(w, status, message)
			return
		}

		log.Info("Sync run enqueued", "config_id", configID, "kind", req.Kind)
		respondJSON(w, http.StatusAccepted, TriggerSyncResponse{
			Message:  "Sync run enqueued",
			ConfigID: configID,
			Kind:     req.Kind,
		})
	}
}

// SyncStatusResponse reports scheduling state and the most recent run
type SyncStatusResponse struct {
	ConfigID    int64           `json:"config_id"`
	SyncEnabled bool            `json:"sync_enabled"`
	LastSyncAt  *time.Time      `json:"last_sync_at,omitempty"`
	Running     bool            `json:"running"`
	LatestRun   *domain.SyncRun `json:"latest_run,omitempty"`
}

// RunChecker reports whether a run is queued or executing for a config.
type RunChecker interface {
	Running(configID int64) bool
}

// HandleGetSyncStatus handles GET requests for the latest run of a config
// @Summary Sync status
// @Description Get the most recent sync run for a configuration
// @Tags sync
// @Produce json
// @Param configID path int true "Config ID"
// @Success 200 {object} SyncStatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sync/{configID}/status [get]
func HandleGetSyncStatus(svc sync.Service, checker RunChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		configID, ok := parseConfigID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
			return
		}

		st, err := svc.Status(r.Context(), configID)
		if err != nil {
			status, message := mapServiceErrorToUserMessage(err)
			log.Error("Failed to get sync status", "config_id", configID, "error", err)
			respondError(w, status, message)
			return
		}

		respondJSON(w, http.StatusOK, SyncStatusResponse{
			ConfigID:    configID,
			SyncEnabled: st.SyncEnabled,
			LastSyncAt:  st.LastSyncAt,
			Running:     checker.Running(configID),
			LatestRun:   st.LatestRun,
		})
	}
}

// SyncRunsResponse lists run history for a config
type SyncRunsResponse struct {
	ConfigID int64            `json:"config_id"`
	Runs     []domain.SyncRun `json:"runs"`
}

// HandleListSyncRuns handles GET requests for run history
// @Summary List sync runs
// @Description List recent sync runs for a configuration, newest first
// @Tags sync
// @Produce json
// @Param configID path int true "Config ID"
// @Param limit query int false "Maximum runs to return"
// @Success 200 {object} SyncRunsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sync/{configID}/runs [get]
func HandleListSyncRuns(svc sync.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		configID, ok := parseConfigID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
				return
			}
			limit = parsed
		}

		runs, err := svc.Runs(r.Context(), configID, limit)
		if err != nil {
			status, message := mapServiceErrorToUserMessage(err)
			log.Error("Failed to list sync runs", "config_id", configID, "error", err)
			respondError(w, status, message)
			return
		}
		if runs == nil {
			runs = []domain.SyncRun{}
		}

		respondJSON(w, http.StatusOK, SyncRunsResponse{ConfigID: configID, Runs: runs})
	}
}

// HandleSetSyncEnabled handles PUT requests to toggle scheduled syncing
// @Summary Enable or disable sync
// @Description Turn scheduled syncing on or off for a configuration
// @Tags sync
// @Produce json
// @Param configID path int true "Config ID"
// @Param enabled query bool true "Enable flag"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sync/{configID}/enabled [put]
func HandleSetSyncEnabled(svc sync.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		configID, ok := parseConfigID(r)
		if !ok {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
			return
		}

		enabled, err := strconv.ParseBool(r.URL.Query().Get("enabled"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "Missing or invalid enabled query parameter")
			return
		}

		if err := svc.SetEnabled(r.Context(), configID, enabled); err != nil {
			status, message := mapServiceErrorToUserMessage(err)
			log.Error("Failed to set sync enabled", "config_id", configID, "error", err)
			respondError(w, status, message)
			return
		}

		message := "Scheduled sync disabled"
		if enabled {
			message = "Scheduled sync enabled"
		}
		log.Info("Sync enablement updated", "config_id", configID, "enabled", enabled)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: message})
	}
}
