package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xhit/go-str2duration/v2"

	"github.com/optionslab/optionslab-client/internal/apiclient"
	"github.com/optionslab/optionslab-client/internal/export"
	"github.com/optionslab/optionslab-client/internal/metrics"
	"github.com/optionslab/optionslab-client/internal/normalize"
	"github.com/optionslab/optionslab-client/internal/session"
	"github.com/optionslab/optionslab-client/internal/strategy"
	"github.com/optionslab/optionslab-client/internal/views"
)

// Views is the read side the dashboard serves.
type Views interface {
	Dashboard(ctx context.Context, userID string, level strategy.ExperienceLevel, recentLimit int) (views.Dashboard, error)
	Simulations(ctx context.Context, userID string) ([]normalize.SimulationRecord, error)
	RecentSimulations(ctx context.Context, userID string, limit int, since time.Time) ([]normalize.RecentSimulation, error)
	Statistics(ctx context.Context, userID string) (normalize.SimulationStatistics, error)
	Strategies(ctx context.Context) ([]apiclient.Strategy, error)
	Suggestions(ctx context.Context, userID string, level strategy.ExperienceLevel) (views.Suggestions, error)
	MarketAssets(ctx context.Context) ([]normalize.MarketAsset, error)
	InvalidateUser(userID string) int
}

// WatchProvider exposes the simulation watcher (nil if not running).
type WatchProvider interface {
	LastSync() time.Time
	Tracked() int
	ConcludedSeen() int
}

type Options struct {
	Level       strategy.ExperienceLevel
	RecentLimit int
	Watch       WatchProvider
	Logger      logrus.FieldLogger
	Now         func() time.Time
}

// Server is a local HTTP API serving normalized view models.
type Server struct {
	httpServer *http.Server
	views      Views
	store      session.Store
	watch      WatchProvider
	level      strategy.ExperienceLevel
	limit      int
	log        logrus.FieldLogger
	now        func() time.Time
	startedAt  time.Time
}

// NewServer creates a dashboard server bound to addr.
func NewServer(addr string, v Views, store session.Store, opts Options) *Server {
	s := &Server{
		views: v,
		store: store,
		watch: opts.Watch,
		level: opts.Level,
		limit: opts.RecentLimit,
		log:   opts.Logger,
		now:   opts.Now,
	}
	if s.limit <= 0 {
		s.limit = 5
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.startedAt = s.now()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/session", s.handleSession)
	mux.HandleFunc("/api/dashboard", s.gate(s.handleDashboard))
	mux.HandleFunc("/api/simulations", s.gate(s.handleSimulations))
	mux.HandleFunc("/api/simulations/recent", s.gate(s.handleRecent))
	mux.HandleFunc("/api/statistics", s.gate(s.handleStatistics))
	mux.HandleFunc("/api/strategies", s.gate(s.handleStrategies))
	mux.HandleFunc("/api/recommendations", s.gate(s.handleRecommendations))
	mux.HandleFunc("/api/assets", s.gate(s.handleAssets))
	mux.HandleFunc("/api/watch", s.gate(s.handleWatch))
	mux.HandleFunc("/api/export/simulations.xlsx", s.gate(s.handleExportXLSX))
	mux.HandleFunc("/api/export/dashboard.pdf", s.gate(s.handleExportPDF))
	mux.HandleFunc("/api/cache/invalidate", s.gate(s.handleInvalidate))
	mux.Handle("/metrics", metrics.Handler())

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start begins serving HTTP requests.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.log.Infof("dashboard listening on %s", ln.Addr())
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Error("dashboard server stopped")
		}
	}()
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	s.writeJSONStatus(w, http.StatusOK, v)
}

func (s *Server) writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("encode response")
	}
}

func (s *Server) writeUnauthorized(w http.ResponseWriter) {
	s.writeJSONStatus(w, http.StatusUnauthorized, map[string]string{
		"error":    "unauthorized",
		"redirect": apiclient.LoginRoute,
	})
}

// writeError maps upstream failures: a rejected session is 401, an API error
// is a bad gateway carrying the upstream status, anything else is 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		s.writeUnauthorized(w)
	case errors.As(err, &apiErr):
		s.writeJSONStatus(w, http.StatusBadGateway, map[string]interface{}{
			"error":           apiErr.Message,
			"upstream_status": apiErr.StatusCode,
		})
	default:
		s.log.WithError(err).WithField("path", r.URL.Path).Error("dashboard request failed")
		s.writeJSONStatus(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

type userHandler func(w http.ResponseWriter, r *http.Request, userID string)

// gate rejects requests without a valid, unexpired stored session.
func (s *Server) gate(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !session.Authenticated(s.store, s.now()) {
			s.writeUnauthorized(w)
			return
		}
		userID, err := session.CurrentUserID(s.store)
		if err != nil {
			s.writeUnauthorized(w)
			return
		}
		next(w, r, userID)
	}
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// GET /api/health: liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"ok":       true,
		"uptime_s": s.now().Sub(s.startedAt).Seconds(),
	})
}

// GET /api/session: whether a usable session is stored.
func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]interface{}{"authenticated": session.Authenticated(s.store, s.now())}
	if token, ok := s.store.Get(session.AccessTokenKey); ok {
		if claims, err := session.ParseClaims(token); err == nil {
			resp["user_id"] = claims.User()
			resp["email"] = claims.Email
			if claims.ExpiresAt != nil {
				resp["expires_at"] = claims.ExpiresAt.Time.UTC()
			}
		}
	}
	s.writeJSON(w, resp)
}

func (s *Server) levelParam(r *http.Request) strategy.ExperienceLevel {
	if v := r.URL.Query().Get("level"); v != "" {
		if lvl, err := strategy.ParseExperienceLevel(v); err == nil {
			return lvl
		}
	}
	return s.level
}

func (s *Server) limitParam(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return s.limit
}

// GET /api/dashboard: statistics, recent simulations, capital and suggestions.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, userID string) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	d, err := s.views.Dashboard(r.Context(), userID, s.levelParam(r), s.limitParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, d)
}

// GET /api/simulations: all simulations; ?format=csv downloads them.
func (s *Server) handleSimulations(w http.ResponseWriter, r *http.Request, userID string) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	records, err := s.views.Simulations(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.EqualFold(r.URL.Query().Get("format"), export.FormatCSV) {
		out, err := export.SimulationsCSV(records)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="simulations.csv"`)
		_, _ = w.Write(out)
		return
	}
	s.writeJSON(w, map[string]interface{}{"simulations": records, "count": len(records)})
}

// GET /api/simulations/recent?limit=5&since=7d
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request, userID string) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	var since time.Time
	if v := r.URL.Query().Get("since"); v != "" {
		d, err := str2duration.ParseDuration(v)
		if err != nil || d < 0 {
			http.Error(w, "invalid since", http.StatusBadRequest)
			return
		}
		since = s.now().Add(-d)
	}
	recent, err := s.views.RecentSimulations(r.Context(), userID, s.limitParam(r), since)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{"simulations": recent, "count": len(recent)})
}

// GET /api/statistics
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request, userID string) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	stats, err := s.views.Statistics(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, stats)
}

// GET /api/strategies: the server-side list next to the built-in catalog.
// strategyEntry is a server-side strategy with the matching catalog entry,
// when the name is known.
type strategyEntry struct {
	apiclient.Strategy
	Guide *strategy.Descriptor `json:"guide,omitempty"`
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request, _ string) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	list, err := s.views.Strategies(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entries := make([]strategyEntry, 0, len(list))
	for _, st := range list {
		e := strategyEntry{Strategy: st}
		if d, ok := strategy.Lookup(st.Name); ok {
			e.Guide = &d
		}
		entries = append(entries, e)
	}
	s.writeJSON(w, map[string]interface{}{
		"strategies": entries,
		"catalog":    strategy.Catalog(),
	})
}

// GET /api/recommendations?level=INTERMEDIATE
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request, userID string) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	sug, err := s.views.Suggestions(r.Context(), userID, s.levelParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, sug)
}

// GET /api/assets
func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request, _ string) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	assets, err := s.views.MarketAssets(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{"assets": assets, "count": len(assets)})
}

// GET /api/watch: simulation watcher status.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request, _ string) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	if s.watch == nil {
		s.writeJSON(w, map[string]interface{}{"enabled": false})
		return
	}
	resp := map[string]interface{}{
		"enabled":        true,
		"tracked":        s.watch.Tracked(),
		"concluded_seen": s.watch.ConcludedSeen(),
	}
	if last := s.watch.LastSync(); !last.IsZero() {
		resp["last_sync"] = last.UTC()
	}
	s.writeJSON(w, resp)
}

// GET /api/export/simulations.xlsx
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request, userID string) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	records, err := s.views.Simulations(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := export.SimulationsXLSX(records, views.SummarizeCapital(records))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="simulations.xlsx"`)
	_, _ = w.Write(out)
}

// GET /api/export/dashboard.pdf
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request, userID string) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	d, err := s.views.Dashboard(r.Context(), userID, s.levelParam(r), s.limitParam(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := export.DashboardPDF(d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard.pdf"`)
	_, _ = w.Write(out)
}

// POST /api/cache/invalidate: drop the user's cached payloads.
func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request, userID string) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	n := s.views.InvalidateUser(userID)
	s.writeJSON(w, map[string]interface{}{"status": "invalidated", "entries": n})
}
