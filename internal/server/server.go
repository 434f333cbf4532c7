// Package server exposes the webhook receiver and the status endpoints over
// HTTP.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-telegram/bot/models"
	"github.com/gorilla/mux"

	"github.com/edgard/transbot/internal/config"
	apperrors "github.com/edgard/transbot/internal/errors"
	"github.com/edgard/transbot/internal/metrics"
)

// SecretTokenHeader carries the secret token Telegram echoes on every
// delivery when one was given at registration.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateDispatcher receives decoded updates.
type UpdateDispatcher interface {
	Dispatch(ctx context.Context, update *models.Update)
}

// RouterDeps provides dependencies for the HTTP routes.
type RouterDeps struct {
	Config     *config.Config
	Dispatcher UpdateDispatcher
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	Translator string
	Detection  string
}

type api struct {
	deps RouterDeps
	log  *slog.Logger
}

// NewRouter creates the router serving the webhook path, the status
// endpoints and /metrics.
func NewRouter(deps RouterDeps) *mux.Router {
	a := api{deps: deps, log: deps.Logger.With("component", "http")}

	router := mux.NewRouter()
	router.HandleFunc(deps.Config.Webhook.Path, a.webhookHandler).Methods(http.MethodPost)
	router.HandleFunc("/", a.homeHandler).Methods(http.MethodGet)
	router.HandleFunc("/test", a.testHandler).Methods(http.MethodGet)

	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	return router
}

// NewHTTPServer builds the listener-independent server around handler.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
}

func writeJSON(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// webhookHandler acknowledges every delivery with 200 OK, including ones that
// fail to decode, so Telegram does not retry them. Only a wrong secret token
// is refused.
func (a api) webhookHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg := a.deps.Config.Webhook

	if cfg.SecretToken != "" {
		got := r.Header.Get(SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(cfg.SecretToken)) != 1 {
			a.deps.Metrics.IncUpdate(metrics.ResultUnauthorized)
			a.log.WarnContext(ctx, "Rejected webhook delivery with bad secret token", "remote_addr", r.RemoteAddr)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
	}

	var update models.Update
	body := http.MaxBytesReader(w, r.Body, cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&update); err != nil {
		err = apperrors.NewDecodeError("failed to decode update", err)
		a.deps.Metrics.IncUpdate(metrics.ResultDecodeError)
		a.log.ErrorContext(ctx, "Webhook error", "error", err, "code", apperrors.Code(err))
		writeOK(w)
		return
	}

	a.deps.Metrics.IncUpdate(metrics.ResultAccepted)
	a.log.DebugContext(ctx, "Webhook received", "update_id", update.ID)

	a.deps.Dispatcher.Dispatch(ctx, &update)
	writeOK(w)
}

func (a api) homeHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": a.deps.Config.Messages.Home})
}

type statusResponse struct {
	Status     string `json:"status"`
	WebhookURL string `json:"webhook_url"`
	Translator string `json:"translator"`
	Detection  string `json:"detection"`
}

func (a api) testHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status:     "ok",
		WebhookURL: a.deps.Config.Webhook.URL(),
		Translator: a.deps.Translator,
		Detection:  a.deps.Detection,
	})
}
