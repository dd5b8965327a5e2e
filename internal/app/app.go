package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/optionslab/optionslab-client/internal/api"
	"github.com/optionslab/optionslab-client/internal/apiclient"
	"github.com/optionslab/optionslab-client/internal/config"
	"github.com/optionslab/optionslab-client/internal/metrics"
	"github.com/optionslab/optionslab-client/internal/normalize"
	"github.com/optionslab/optionslab-client/internal/notify"
	"github.com/optionslab/optionslab-client/internal/portfolio"
	"github.com/optionslab/optionslab-client/internal/query"
	"github.com/optionslab/optionslab-client/internal/session"
	"github.com/optionslab/optionslab-client/internal/strategy"
	"github.com/optionslab/optionslab-client/internal/views"
)

// Notifier defines the alerts the watch loop sends.
type Notifier interface {
	NotifyConcluded(ctx context.Context, rec normalize.SimulationRecord) error
	NotifyDigest(ctx context.Context, d views.Dashboard) error
}

// App wires configuration, session, REST client and views together.
type App struct {
	cfg    config.Config
	log    *logrus.Logger
	store  session.Store
	client *apiclient.Client
	views  *views.Service
	level  strategy.ExperienceLevel

	notifier Notifier
	now      func() time.Time
}

// Option customizes App construction.
type Option func(*App)

// WithNotifier replaces the Telegram notifier built from config.
func WithNotifier(n Notifier) Option {
	return func(a *App) { a.notifier = n }
}

// WithClientOptions passes extra options to the REST client.
func WithClientOptions(opts ...apiclient.Option) Option {
	return func(a *App) {
		a.client = apiclient.New(a.cfg.APIBaseURL, a.store, append(a.clientOptions(), opts...)...)
	}
}

func New(cfg config.Config, log *logrus.Logger, store session.Store, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: invalid config: %w", err)
	}
	level, err := strategy.ParseExperienceLevel(cfg.ExperienceLevel)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if store == nil {
		store = session.NewMemoryStore()
	}
	metrics.Init()

	a := &App{
		cfg:   cfg,
		log:   log,
		store: store,
		level: level,
		now:   time.Now,
	}
	a.client = apiclient.New(cfg.APIBaseURL, store, a.clientOptions()...)
	if cfg.Telegram.Enabled {
		a.notifier = notify.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	}
	for _, opt := range opts {
		opt(a)
	}

	a.views = views.NewService(a.client, query.New(), normalize.New(), views.TTLs{
		Statistics:  cfg.Cache.StatisticsTTL,
		Simulations: cfg.Cache.SimulationsTTL,
		Strategies:  cfg.Cache.StrategiesTTL,
		Assets:      cfg.Cache.AssetsTTL,
	})
	return a, nil
}

func (a *App) clientOptions() []apiclient.Option {
	return []apiclient.Option{
		apiclient.WithTimeout(a.cfg.RequestTimeout),
		apiclient.WithLogger(a.log),
		apiclient.WithNavigator(apiclient.NavigatorFunc(func(string) {
			a.log.Warn("session expired; run `optionslab login` to sign in again")
		})),
	}
}

func (a *App) Config() config.Config           { return a.cfg }
func (a *App) Logger() *logrus.Logger          { return a.log }
func (a *App) Client() *apiclient.Client       { return a.client }
func (a *App) Views() *views.Service           { return a.views }
func (a *App) Level() strategy.ExperienceLevel { return a.level }
func (a *App) Store() session.Store            { return a.store }

// CurrentUser returns the signed-in user id, or session.ErrNoSession when no
// unexpired session is stored.
func (a *App) CurrentUser() (string, error) {
	if !session.Authenticated(a.store, a.now()) {
		return "", session.ErrNoSession
	}
	return session.CurrentUserID(a.store)
}

// Dashboard loads the dashboard for the signed-in user.
func (a *App) Dashboard(ctx context.Context) (views.Dashboard, error) {
	userID, err := a.CurrentUser()
	if err != nil {
		return views.Dashboard{}, err
	}
	return a.views.Dashboard(ctx, userID, a.level, a.cfg.Recent.Limit)
}

// Profile loads the signed-in user's profile. A user who never saved one gets
// found=false rather than an error.
func (a *App) Profile(ctx context.Context) (profile *apiclient.UserProfile, found bool, err error) {
	userID, err := a.CurrentUser()
	if err != nil {
		return nil, false, err
	}
	profile, err = a.client.GetUserProfile(ctx, userID)
	if apiclient.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return profile, true, nil
}

// NewTracker builds the simulation watcher for the signed-in user.
func (a *App) NewTracker() (*portfolio.Tracker, error) {
	userID, err := a.CurrentUser()
	if err != nil {
		return nil, err
	}
	var alerter portfolio.Alerter
	if a.notifier != nil {
		alerter = a.notifier
	}
	return portfolio.NewTracker(a.views, userID, a.cfg.Watch.Interval, alerter, a.log), nil
}

// SendDigest sends the dashboard digest if a notifier is configured.
func (a *App) SendDigest(ctx context.Context) error {
	if a.notifier == nil {
		return errors.New("app: telegram notifications are not enabled")
	}
	d, err := a.Dashboard(ctx)
	if err != nil {
		return err
	}
	return a.notifier.NotifyDigest(ctx, d)
}

// Watch runs the simulation watcher until ctx is cancelled.
func (a *App) Watch(ctx context.Context) error {
	tracker, err := a.NewTracker()
	if err != nil {
		return err
	}
	a.log.WithField("interval", a.cfg.Watch.Interval).Info("watching simulations")
	if err := tracker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Serve runs the dashboard server until ctx is cancelled. With watch set the
// simulation watcher runs alongside it and is reported at /api/watch.
func (a *App) Serve(ctx context.Context, addr string, watch bool) error {
	if addr == "" {
		addr = a.cfg.Dashboard.Addr
	}
	opts := api.Options{
		Level:       a.level,
		RecentLimit: a.cfg.Recent.Limit,
		Logger:      a.log,
	}

	if watch {
		tracker, err := a.NewTracker()
		if err != nil {
			return err
		}
		opts.Watch = tracker
		go func() {
			if err := tracker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.log.WithError(err).Error("watch loop stopped")
			}
		}()
	}

	srv := api.NewServer(addr, a.views, a.store, opts)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("app: start dashboard: %w", err)
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
