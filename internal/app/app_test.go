package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/optionslab/optionslab-client/internal/config"
	"github.com/optionslab/optionslab-client/internal/logging"
	"github.com/optionslab/optionslab-client/internal/normalize"
	"github.com/optionslab/optionslab-client/internal/session"
	"github.com/optionslab/optionslab-client/internal/strategy"
	"github.com/optionslab/optionslab-client/internal/views"
)

type recordingNotifier struct {
	digests int
}

func (r *recordingNotifier) NotifyConcluded(context.Context, normalize.SimulationRecord) error {
	return nil
}

func (r *recordingNotifier) NotifyDigest(context.Context, views.Dashboard) error {
	r.digests++
	return nil
}

func testConfig(apiURL string) config.Config {
	cfg := config.Default()
	cfg.APIBaseURL = apiURL
	cfg.ExperienceLevel = "ADVANCED"
	return cfg
}

func loggedIn(t *testing.T, userID string) *session.MemoryStore {
	t.Helper()
	claims := session.Claims{
		UserID:           userID,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	store := session.NewMemoryStore()
	_ = store.Set(session.AccessTokenKey, token)
	return store
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/simulations/user/u1", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 1, "name": "Long Call", "assetSymbol": "PETR4", "initialCapital": 1000, "finalCapital": "1100"},
		})
	})
	mux.HandleFunc("/simulations/user/u1/statistics", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"totalSimulations": 1, "concludedSimulations": 0, "winRate": "50%", "avgReturn": "25%",
		})
	})
	mux.HandleFunc("/users/u1/profile", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"profile not found"}`))
	})
	mux.HandleFunc("/users/u2/profile", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"userId": "u2", "name": "Ana", "experienceLevel": "EXPERT"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewApp(t *testing.T) {
	a, err := New(testConfig("http://localhost:3000/api"), logging.Discard(), nil)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if a.Level() != strategy.Advanced {
		t.Fatalf("expected ADVANCED level, got %s", a.Level())
	}
	if a.Views() == nil || a.Client() == nil {
		t.Fatal("expected views and client to be wired")
	}
}

func TestNewAppRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig("not a url")
	if _, err := New(cfg, logging.Discard(), nil); err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestCurrentUserWithoutSession(t *testing.T) {
	a, _ := New(testConfig("http://localhost:3000/api"), logging.Discard(), nil)
	if _, err := a.CurrentUser(); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, err := a.NewTracker(); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("tracker should need a session, got %v", err)
	}
}

func TestDashboardEndToEnd(t *testing.T) {
	srv := fakeAPI(t)
	a, err := New(testConfig(srv.URL), logging.Discard(), loggedIn(t, "u1"))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	d, err := a.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if d.Statistics.Total != 1 || d.Statistics.InProgress != 1 {
		t.Fatalf("unexpected statistics %+v", d.Statistics)
	}
	if d.Capital.NetResult != "100.00" {
		t.Fatalf("expected net 100.00, got %s", d.Capital.NetResult)
	}
	if d.Suggestions.Risk != strategy.RiskHigh || len(d.Suggestions.Strategies) != 1 {
		t.Fatalf("unexpected suggestions %+v", d.Suggestions)
	}
}

func TestSendDigest(t *testing.T) {
	srv := fakeAPI(t)
	n := &recordingNotifier{}
	a, _ := New(testConfig(srv.URL), logging.Discard(), loggedIn(t, "u1"), WithNotifier(n))
	if err := a.SendDigest(context.Background()); err != nil {
		t.Fatalf("send digest: %v", err)
	}
	if n.digests != 1 {
		t.Fatalf("expected one digest, got %d", n.digests)
	}

	plain, _ := New(testConfig(srv.URL), logging.Discard(), loggedIn(t, "u1"))
	if err := plain.SendDigest(context.Background()); err == nil {
		t.Fatal("expected error without notifier")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	srv := fakeAPI(t)
	a, _ := New(testConfig(srv.URL), logging.Discard(), loggedIn(t, "u1"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, "127.0.0.1:0", true) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestProfileMissingIsNotAnError(t *testing.T) {
	srv := fakeAPI(t)
	a, err := New(testConfig(srv.URL), logging.Discard(), loggedIn(t, "u1"))
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	profile, found, err := a.Profile(context.Background())
	if err != nil || found || profile != nil {
		t.Fatalf("expected missing profile, got %v %v %v", profile, found, err)
	}

	a, _ = New(testConfig(srv.URL), logging.Discard(), loggedIn(t, "u2"))
	profile, found, err = a.Profile(context.Background())
	if err != nil || !found {
		t.Fatalf("expected profile, got %v %v", found, err)
	}
	if profile.Name != "Ana" || profile.ExperienceLevel != "EXPERT" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}
