package camera

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hdr-bracket-sync/internal/bracket"
	"hdr-bracket-sync/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

// Handler exposes camera HTTP endpoints using go-chi.
type Handler struct {
	svc     *Service
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler that uses the given Service, Logger, and optional Metrics.
// Metrics may be nil to disable metric recording (e.g. in tests).
func NewHandler(svc *Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, log: log, metrics: m}
}

// Routes mounts the camera endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/cameras/{camera_id}", func(r chi.Router) {
		r.Get("/", h.GetStatus)
		r.Delete("/", h.RemoveCamera)
		r.Put("/profiles", h.Configure)
		r.Post("/frames", h.ProcessFrame)
		r.Post("/profile", h.RequestSwitch)
		r.Post("/reset", h.Reset)
	})
}

// Configure handles PUT /cameras/{camera_id}/profiles.
// Body: { "profile0": [19, 150], "profile1": [19, 250] } or
// { "hdr_sequence": "19:1.2,150", "hdr_sequence2": "19,250" }.
func (h *Handler) Configure(w http.ResponseWriter, r *http.Request) {
	id := CameraID(chi.URLParam(r, "camera_id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var req ConfigureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid configure body", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	res, err := h.svc.Configure(id, req)
	if err != nil {
		if errors.Is(err, bracket.ErrInvalidConfiguration) {
			h.log.Info("configuration rejected",
				slog.String("camera_id", string(id)),
				slog.String("error", err.Error()))
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
		h.log.Error("configure failed", slog.String("camera_id", string(id)), slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.log.Info("camera configured",
		slog.String("camera_id", string(id)),
		slog.String("session_id", res.SessionID),
		slog.String("hdr_sequence", res.AdjustedHDRSequence),
		slog.String("hdr_sequence2", res.AdjustedHDRSequence2),
		slog.Int("adjustments", res.Adjustments))
	if h.metrics != nil {
		h.metrics.AddExposureAdjustments(res.Adjustments)
	}
	h.writeJSON(w, http.StatusOK, res)
}

// ProcessFrame handles POST /cameras/{camera_id}/frames.
// Body: { "frame_number": 42, "exposure_us": 150 }.
func (h *Handler) ProcessFrame(w http.ResponseWriter, r *http.Request) {
	id := CameraID(chi.URLParam(r, "camera_id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var req FrameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid frame body", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	res, err := h.svc.ProcessFrame(id, req)
	if err != nil {
		h.rejectFrame(w, id, req, err)
		return
	}

	if h.metrics != nil {
		h.metrics.IncFramesProcessed()
		if res.ProfileSwitched {
			h.metrics.IncProfileSwitches()
		}
	}
	if res.ProfileSwitched {
		h.log.Info("profile switch observed",
			slog.String("camera_id", string(id)),
			slog.Uint64("frame_number", req.FrameNumber),
			slog.Int("profile", int(res.Profile)),
			slog.Uint64("master_sequence", res.MasterSequence))
	}
	h.writeJSON(w, http.StatusOK, res)
}

// rejectFrame reports a frame that could not be identified. Such errors are
// fatal to the frame only; the capture loop carries on with the next one.
func (h *Handler) rejectFrame(w http.ResponseWriter, id CameraID, req FrameRequest, err error) {
	var (
		status int
		reason string
	)
	switch {
	case errors.Is(err, ErrCameraNotFound):
		status, reason = http.StatusNotFound, "camera_not_found"
	case errors.Is(err, bracket.ErrNotConfigured):
		status, reason = http.StatusNotFound, "not_configured"
	case errors.Is(err, bracket.ErrUnknownExposure):
		status, reason = http.StatusUnprocessableEntity, "unknown_exposure"
	case errors.Is(err, bracket.ErrInvalidFrameNumber):
		status, reason = http.StatusUnprocessableEntity, "invalid_frame_number"
	default:
		h.log.Error("process frame failed", slog.String("camera_id", string(id)), slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.log.Warn("frame rejected",
		slog.String("camera_id", string(id)),
		slog.Uint64("frame_number", req.FrameNumber),
		slog.Uint64("exposure_us", uint64(req.ExposureUS)),
		slog.String("reason", reason),
		slog.String("error", err.Error()))
	if h.metrics != nil {
		h.metrics.IncFramesRejected(reason)
	}
	h.writeError(w, status, err)
}

// RequestSwitch handles POST /cameras/{camera_id}/profile.
// Body: { "profile": 1, "retries": 2 }.
func (h *Handler) RequestSwitch(w http.ResponseWriter, r *http.Request) {
	id := CameraID(chi.URLParam(r, "camera_id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var req SwitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid switch body", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.svc.RequestSwitch(id, req); err != nil {
		switch {
		case errors.Is(err, ErrCameraNotFound), errors.Is(err, bracket.ErrNotConfigured):
			h.writeError(w, http.StatusNotFound, err)
		default:
			h.writeError(w, http.StatusBadRequest, err)
		}
		return
	}

	h.log.Info("profile switch requested",
		slog.String("camera_id", string(id)),
		slog.Int("profile", int(req.Profile)))
	w.WriteHeader(http.StatusAccepted)
}

// Reset handles POST /cameras/{camera_id}/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	id := CameraID(chi.URLParam(r, "camera_id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.svc.Reset(id); err != nil {
		h.log.Error("reset failed", slog.String("camera_id", string(id)), slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.log.Info("camera reset", slog.String("camera_id", string(id)))
	w.WriteHeader(http.StatusOK)
}

// RemoveCamera handles DELETE /cameras/{camera_id}.
func (h *Handler) RemoveCamera(w http.ResponseWriter, r *http.Request) {
	id := CameraID(chi.URLParam(r, "camera_id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.svc.Remove(id); err != nil {
		h.log.Error("remove failed", slog.String("camera_id", string(id)), slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.log.Info("camera removed", slog.String("camera_id", string(id)))
	w.WriteHeader(http.StatusNoContent)
}

// GetStatus handles GET /cameras/{camera_id}.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id := CameraID(chi.URLParam(r, "camera_id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	st, ok := h.svc.Status(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Debug("encode response", slog.Int("status", status), slog.String("error", err.Error()))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
