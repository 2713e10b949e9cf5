package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"

	membershipservice "clearwater/contexts/identity-access/membership-service"
	"clearwater/contexts/identity-access/membership-service/domain/entities"
	membershiphttp "clearwater/contexts/identity-access/membership-service/transport/http"
	activityservice "clearwater/contexts/moderation-safety/activity-service"
	moderationlogservice "clearwater/contexts/moderation-safety/moderation-log-service"
	_ "clearwater/internal/platform/httpserver/docs"
)

const loginRedirect = "/auth/login"

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	membership membershipservice.Module
	moderation moderationlogservice.Module
	activity   activityservice.Module
}

func New(
	membership membershipservice.Module,
	moderation moderationlogservice.Module,
	activity activityservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		membership: membership,
		moderation: moderation,
		activity:   activity,
	}
	s.registerRoutes()
	return s
}

// Handler exposes the routed mux for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/moderation/v1/logs", s.handleListLogs)
	s.mux.HandleFunc("POST /api/moderation/v1/logs", s.handleCreateLog)
	s.mux.HandleFunc("POST /api/moderation/v1/logs/{log_id}/complete", s.handleCompleteLog)
	s.mux.HandleFunc("DELETE /api/moderation/v1/logs/{log_id}", s.handleDeleteLog)

	s.mux.HandleFunc("GET /api/activity/v1/entries", s.handleListActivity)

	s.mux.HandleFunc("GET /api/membership/v1/verdict", s.handleVerdict)
	s.mux.HandleFunc("GET /api/dispatch/v1/access", s.handleDispatchAccess)
}

// principalFromRequest reads the identity attached by the authentication
// collaborator. Nil when the request is anonymous.
func principalFromRequest(r *http.Request) *entities.Principal {
	id := strings.TrimSpace(r.Header.Get("X-Principal-Id"))
	if id == "" {
		return nil
	}
	return &entities.Principal{
		ID:          id,
		DisplayName: strings.TrimSpace(r.Header.Get("X-Principal-Name")),
		AvatarRef:   strings.TrimSpace(r.Header.Get("X-Principal-Avatar")),
	}
}

// requireTier gates a request. Anonymous callers get a login redirect
// hint; authenticated callers without the tier get a terminal denial so
// a login loop cannot form.
func (s *Server) requireTier(w http.ResponseWriter, r *http.Request, tier entities.Tier) (*entities.Principal, bool) {
	principal := principalFromRequest(r)
	switch s.membership.Gate.Authorize(r.Context(), principal, tier) {
	case entities.DecisionAllowed:
		return principal, true
	case entities.DecisionUnauthenticated:
		writeJSON(w, http.StatusUnauthorized, membershiphttp.ErrorResponse{
			Code:     "unauthenticated",
			Message:  "sign in to continue",
			Redirect: loginRedirect,
		})
		return nil, false
	default:
		writeJSON(w, http.StatusForbidden, membershiphttp.ErrorResponse{
			Code:    "access_denied",
			Message: "you do not have access to this resource",
		})
		return nil, false
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
