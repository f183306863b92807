// Package server exposes the REST surface of the driver CMS and mounts the
// websocket gateway on /ws.
package server

import (
	"log/slog"
	"net/http"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/auth"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/contract"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/observability"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/services"
)

const (
	PathWebSocket = "/ws"
	PathHealth    = "/healthz"
	PathMetrics   = "/metrics"
	PathLogin     = "/api/auth/login"
	PathRegister  = "/api/auth/register"
)

// maxBodyBytes bounds REST bodies; signatures are the largest payloads.
const maxBodyBytes = 8 << 20

type Server struct {
	log        *slog.Logger
	auth       services.IAuthService
	orders     services.IOrderService
	chat       services.IChatService
	telemetry  services.ITelemetryService
	registry   contract.IRegistry
	monitoring *observability.MonitoringManager
	middleware *auth.Middleware
	gateway    http.Handler
	metrics    http.Handler
}

func NewServer(
	log *slog.Logger,
	authService services.IAuthService,
	orderService services.IOrderService,
	chatService services.IChatService,
	telemetryService services.ITelemetryService,
	registry contract.IRegistry,
	monitoring *observability.MonitoringManager,
	tokens *auth.TokenManager,
	gateway http.Handler,
	metrics http.Handler,
) *Server {
	return &Server{
		log:        log,
		auth:       authService,
		orders:     orderService,
		chat:       chatService,
		telemetry:  telemetryService,
		registry:   registry,
		monitoring: monitoring,
		middleware: auth.NewMiddleware(tokens, PathWebSocket, PathHealth, PathMetrics, PathLogin, PathRegister),
		gateway:    gateway,
		metrics:    metrics,
	}
}

// Handler returns the complete routing tree with its middlewares.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET "+PathWebSocket, s.gateway)
	mux.Handle("GET "+PathMetrics, s.metrics)
	mux.HandleFunc("GET "+PathHealth, s.health)

	mux.HandleFunc("POST "+PathRegister, s.register)
	mux.HandleFunc("POST "+PathLogin, s.login)

	mux.HandleFunc("GET /api/orders", s.listOrders)
	mux.HandleFunc("GET /api/orders/{id}", s.getOrder)
	mux.HandleFunc("PATCH /api/orders/{id}/status", s.updateOrderStatus)
	mux.HandleFunc("POST /api/orders/{id}/signature", s.attachSignature)

	mux.HandleFunc("GET /api/chat/messages", s.chatHistory)
	mux.HandleFunc("POST /api/chat/messages", s.postChat)
	mux.HandleFunc("GET /api/chat/search", s.searchChat)

	mux.HandleFunc("POST /api/telemetry/location", s.reportLocation)

	return s.logRequests(cors(s.middleware.Wrap(mux)))
}

type healthResponse struct {
	Status      string                        `json:"status"`
	Connections int                           `json:"connections"`
	Process     observability.MonitoringStats `json:"process"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Connections: s.registry.Len(),
		Process:     s.monitoring.GetLatest(),
	})
}
