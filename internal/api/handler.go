package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/punchamoorthee/gashawk/internal/domain"
	"github.com/punchamoorthee/gashawk/internal/frame"
	"github.com/punchamoorthee/gashawk/internal/metrics"
	"github.com/punchamoorthee/gashawk/internal/models"
	"github.com/punchamoorthee/gashawk/internal/render"
)

const (
	FramePath        = "/api"
	InteractionsPath = "/api/v1/interactions"

	maxBodyBytes  = 64 << 10
	recordTimeout = 5 * time.Second
)

// Stepper produces the screen for one interaction.
type Stepper interface {
	Step(ctx context.Context, in frame.Input) domain.Screen
}

// ReportRecorder persists finished reports. It may be nil.
type ReportRecorder interface {
	Record(ctx context.Context, r domain.SavingsReport) error
}

type Handler struct {
	flow      Stepper
	signer    *StateSigner
	reports   ReportRecorder
	publicURL string
	log       *slog.Logger
}

func NewHandler(flow Stepper, signer *StateSigner, reports ReportRecorder, publicURL string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{flow: flow, signer: signer, reports: reports, publicURL: publicURL, log: logger}
}

// FrameInitial serves the welcome frame to clients embedding the URL.
func (h *Handler) FrameInitial(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.HTTPLatency.WithLabelValues("GET", FramePath))
	defer timer.ObserveDuration()

	screen := h.flow.Step(r.Context(), frame.Input{Initial: true})
	h.respondFrame(w, r, screen)
}

// FrameAction handles a button press from a frame client.
func (h *Handler) FrameAction(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.HTTPLatency.WithLabelValues("POST", FramePath))
	defer timer.ObserveDuration()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Stream read error", "POST", FramePath)
		return
	}
	var payload models.FrameActionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "POST", FramePath)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		state = payload.UntrustedData.State
	}
	token, err := h.signer.Token(state, payload.UntrustedData.ButtonIndex)
	if err != nil {
		// An unknown button falls through to the fallback screen.
		h.log.InfoContext(r.Context(), "frame state rejected",
			"request_id", requestIDFrom(r.Context()), "error", err)
		token = ""
	}

	screen := h.flow.Step(r.Context(), frame.Input{
		PreviousAction: token,
		Text:           payload.UntrustedData.InputText,
	})
	h.record(r.Context(), screen)
	h.respondFrame(w, r, screen)
}

// Interact is the JSON form of FrameAction: the caller names the previous
// action directly and receives the screen descriptor.
func (h *Handler) Interact(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.HTTPLatency.WithLabelValues("POST", InteractionsPath))
	defer timer.ObserveDuration()

	var req models.InteractionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "POST", InteractionsPath)
		return
	}

	screen := h.flow.Step(r.Context(), frame.Input{
		PreviousAction: req.PreviousAction,
		Text:           req.InputText,
		Initial:        req.Initial,
	})
	h.record(r.Context(), screen)
	h.respondJSON(w, http.StatusOK, models.InteractionResponse{Screen: screen}, "POST", InteractionsPath)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"}, "GET", "/health")
}

func (h *Handler) record(ctx context.Context, screen domain.Screen) {
	if h.reports == nil || screen.Report == nil {
		return
	}
	report := *screen.Report
	requestID := requestIDFrom(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
		defer cancel()
		if err := h.reports.Record(ctx, report); err != nil {
			h.log.Warn("report log write failed", "request_id", requestID, "address", report.Address.String(), "error", err)
		}
	}()
}

func (h *Handler) postURL(screen domain.Screen) (string, error) {
	state, err := h.signer.Sign(screen)
	if err != nil {
		return "", err
	}
	return h.publicURL + FramePath + "?state=" + url.QueryEscape(state), nil
}

// Helpers
func (h *Handler) respondFrame(w http.ResponseWriter, r *http.Request, screen domain.Screen) {
	method := r.Method
	postURL, err := h.postURL(screen)
	if err != nil {
		h.log.ErrorContext(r.Context(), "frame state signing failed", "error", err)
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error", method, FramePath)
		return
	}
	page, err := render.Page(screen, postURL)
	if err != nil {
		h.log.ErrorContext(r.Context(), "frame render failed", "state", string(screen.State), "error", err)
		h.respondError(w, http.StatusInternalServerError, "Internal Server Error", method, FramePath)
		return
	}
	metrics.CountRequest(method, FramePath, http.StatusOK)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}

func (h *Handler) respondJSON(w http.ResponseWriter, code int, payload interface{}, method, endpoint string) {
	metrics.CountRequest(method, endpoint, code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) respondError(w http.ResponseWriter, code int, msg, method, endpoint string) {
	h.respondJSON(w, code, map[string]string{"error": msg}, method, endpoint)
}
