package channel

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sheetbot/internal/bot"
	"sheetbot/internal/config"
	"sheetbot/internal/metrics"
)

// Twilio serves the inbound Twilio webhook. Every request gets a 200 with a
// TwiML body; business failures are expressed in the message text, never as
// HTTP errors, so Twilio does not retry or surface a delivery failure to the
// sender.
type Twilio struct {
	cfg       config.TwilioConfig
	responder *bot.Responder
	logger    *slog.Logger
	router    chi.Router
	server    *http.Server
}

type TwilioOptions struct {
	Config    config.TwilioConfig
	Responder *bot.Responder
	Logger    *slog.Logger
	// Metrics, when non-nil, is mounted at MetricsEndpoint.
	Metrics         http.Handler
	MetricsEndpoint string
}

func NewTwilio(opts TwilioOptions) *Twilio {
	t := &Twilio{
		cfg:       opts.Config,
		responder: opts.Responder,
		logger:    opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post(t.cfg.WebhookPath, t.handleInbound)
	r.Get("/healthz", t.handleHealth)
	if opts.Metrics != nil && opts.MetricsEndpoint != "" {
		r.Get(opts.MetricsEndpoint, opts.Metrics.ServeHTTP)
	}

	t.router = r
	return t
}

// Router exposes the HTTP handler, mainly for tests.
func (t *Twilio) Router() http.Handler { return t.router }

// Start runs the webhook server until ctx is cancelled, then shuts down
// gracefully.
func (t *Twilio) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", t.cfg.Host, t.cfg.Port)
	t.server = &http.Server{
		Addr:              addr,
		Handler:           t.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		t.logger.Info("twilio webhook listening", "addr", addr, "path", t.cfg.WebhookPath)
		if err := t.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := t.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("webhook server: %w", err)
		}
		return nil
	}
}

func (t *Twilio) handleInbound(w http.ResponseWriter, r *http.Request) {
	metrics.InflightRequests.Inc()
	defer metrics.InflightRequests.Dec()

	if err := r.ParseForm(); err != nil {
		t.logger.Warn("unparseable webhook form", "err", err)
	}

	if t.cfg.AuthToken != "" && !t.validSignature(r) {
		t.logger.Warn("rejected webhook with bad signature",
			"remote", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
		)
		http.Error(w, "invalid signature", http.StatusForbidden)
		return
	}

	body := r.PostForm.Get("Body")
	reply := t.responder.Respond(r.Context(), "twilio", body)

	w.Header().Set("Content-Type", "text/xml")
	io.WriteString(w, TwiML(reply))
}

func (t *Twilio) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	io.WriteString(w, "OK")
}

// validSignature checks the X-Twilio-Signature header: base64 HMAC-SHA1 of
// the full request URL followed by each POST parameter name and value in
// lexical order, keyed with the account auth token.
func (t *Twilio) validSignature(r *http.Request) bool {
	got := r.Header.Get("X-Twilio-Signature")
	if got == "" {
		return false
	}
	want := computeSignature(t.cfg.AuthToken, t.requestURL(r), r.PostForm)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// requestURL reconstructs the URL Twilio signed. PublicBaseURL takes
// precedence because behind a proxy the Host header and scheme seen here are
// not what Twilio used.
func (t *Twilio) requestURL(r *http.Request) string {
	if base := strings.TrimSuffix(t.cfg.PublicBaseURL, "/"); base != "" {
		return base + r.URL.RequestURI()
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func computeSignature(authToken, requestURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mac := hmac.New(sha1.New, []byte(authToken))
	io.WriteString(mac, requestURL)
	for _, k := range keys {
		io.WriteString(mac, k)
		io.WriteString(mac, form.Get(k))
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
