package locate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Route is the ingest path.
const Route = "/api/locate-request"

// Defaults for HandlerConfig.
const (
	DefaultBodyLimit = 100 << 10
	DefaultRateLimit = 60
)

// AcceptFunc receives every authenticated, valid payload after it is stamped.
type AcceptFunc func(ctx context.Context, p Payload) error

// HandlerConfig configures the ingest handler.
type HandlerConfig struct {
	Secret string
	// BodyLimit caps the request body in bytes.
	BodyLimit int64
	// RateLimit is requests per minute per client IP.
	RateLimit int
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	TrustProxy     bool
	AllowedOrigins []string
	Accept         AcceptFunc
	Now            func() time.Time
	// Registry receives the handler metrics. Nil creates a private registry.
	Registry *prometheus.Registry
}

type handler struct {
	cfg     HandlerConfig
	metrics *metrics
}

// NewHandler builds the ingest router: POST Route, GET /health and GET /metrics.
func NewHandler(cfg HandlerConfig) http.Handler {
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	h := &handler{cfg: cfg, metrics: newMetrics(cfg.Registry)}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	for _, kv := range securityHeaders {
		r.Use(middleware.SetHeader(kv[0], kv[1]))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", SignatureHeader},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(newIPLimiter(cfg.RateLimit, h.metrics).middleware)
		r.Use(middleware.RequestSize(cfg.BodyLimit))
		r.Post(Route, h.locateRequest)
	})
	return r
}

// securityHeaders mirror the usual hardening set for a JSON-only API.
var securityHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "SAMEORIGIN"},
	{"X-DNS-Prefetch-Control", "off"},
	{"Referrer-Policy", "no-referrer"},
	{"Strict-Transport-Security", "max-age=15552000; includeSubDomains"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'self'"},
	{"Cross-Origin-Resource-Policy", "same-origin"},
}

func (h *handler) locateRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := zap.L().With(
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("ip", r.RemoteAddr),
	)

	outcome := "accepted"
	defer func() {
		h.metrics.requests.WithLabelValues(outcome).Inc()
		h.metrics.duration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			outcome = "too_large"
			writeError(w, http.StatusRequestEntityTooLarge, "Payload too large")
			return
		}
		outcome = "invalid"
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if !Verify(h.cfg.Secret, body, r.Header.Get(SignatureHeader)) {
		outcome = "unauthorized"
		log.Warn("locate: signature verification failed", zap.String("url", r.URL.Path))
		writeError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	p, err := Decode(body)
	if err != nil {
		outcome = "invalid"
		log.Warn("locate: payload rejected", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	stamp(&p, h.cfg.Now())

	if h.cfg.Accept != nil {
		if err := h.cfg.Accept(r.Context(), p); err != nil {
			outcome = "failed"
			log.Error("locate: accept failed", zap.String("ticket", p.TicketNumber), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Processing failed")
			return
		}
	}

	log.Info("locate: request validated",
		zap.String("ticket", p.TicketNumber),
		zap.String("excavator", p.Excavator),
	)
	writeJSON(w, http.StatusOK, Response{Success: true, Ticket: p.TicketNumber, ReceivedAt: p.ReceivedAt})
}

// Response is the body of an accepted request.
type Response struct {
	Success    bool   `json:"success"`
	Ticket     string `json:"ticket"`
	ReceivedAt string `json:"receivedAt,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
