package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"procurement/internal/api"
	"procurement/internal/config"
	"procurement/internal/controller"
	"procurement/internal/logger"
	"procurement/internal/notify"
	"procurement/internal/repository"
	"procurement/internal/router"
	"procurement/internal/service"
	"procurement/internal/session"
)

type App struct {
	store      session.Store
	closer     io.Closer
	client     *api.Client
	service    *service.Service
	controller *controller.Controller
	log        *logger.Logger
	stopSig    chan os.Signal
	cfg        *config.Config

	Done chan struct{}
}

type option func(*App)

func WithConfig(cfg *config.Config) option {
	return func(app *App) {
		app.cfg = cfg
	}
}

// WithStore replaces the configured session backend. The app does not close it.
func WithStore(store session.Store) option {
	return func(app *App) {
		app.store = store
	}
}

func NewApp(opts ...option) (*App, error) {
	var err error

	app := &App{
		stopSig: make(chan os.Signal, 2),
		Done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.cfg == nil {
		cfg, err := config.NewConfig()
		if err != nil {
			return nil, err
		}
		app.cfg = cfg
	}
	app.log = logger.New(app.cfg.LogLevel)

	if app.store == nil {
		app.store, app.closer, err = OpenStore(app.cfg)
		if err != nil {
			return nil, err
		}
	}

	app.client = api.NewClient(app.cfg.BaseURL, app.store,
		api.WithLogger(app.log),
		api.WithLoginTimeout(app.cfg.LoginTimeout),
		api.WithRetry(app.cfg.MaxRetries, app.cfg.RetryDelay),
	)

	var bridge *notify.Bridge
	if app.cfg.NotifyConfig.Enabled {
		registerPath := app.cfg.RegisterPath
		bridge = notify.NewBridge(
			notify.ConnectivityFunc(app.client.Ping),
			notify.ParsePermission(app.cfg.Permission),
			notify.RegistrarFunc(func(ctx context.Context, deviceId, platform string) error {
				return app.client.RegisterDevice(ctx, registerPath, api.DeviceRegistration{
					DeviceId: deviceId,
					Platform: platform,
				})
			}),
			app.store,
			app.log,
		)
	}

	app.service = service.NewService(app.client, bridge, app.log)
	app.controller = controller.NewController(app.service, app.log)

	return app, nil
}

// OpenStore builds the session backend named by SESSION_BACKEND. The closer is nil
// for backends that hold no resources.
func OpenStore(cfg *config.Config) (session.Store, io.Closer, error) {
	if cfg.SessionConfig.Backend == "memory" {
		return session.NewMemoryStore(), nil, nil
	}

	key, err := session.DeriveKey(cfg.Secret)
	if err != nil {
		return nil, nil, fmt.Errorf("app.OpenStore: %w", err)
	}

	switch cfg.SessionConfig.Backend {
	case "badger":
		store, err := session.NewBadgerStore(cfg.SessionConfig.Path, key)
		if err != nil {
			return nil, nil, fmt.Errorf("app.OpenStore: %w", err)
		}
		return store, store, nil
	case "postgres":
		repo, err := repository.NewRepository(nil, &cfg.PostgresConfig, key)
		if err != nil {
			return nil, nil, fmt.Errorf("app.OpenStore: %w", err)
		}
		return repo, repo, nil
	default:
		return nil, nil, fmt.Errorf("app.OpenStore: unknown session backend %q", cfg.SessionConfig.Backend)
	}
}

func (app *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		signal.Notify(app.stopSig, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		sig := <-app.stopSig
		app.log.Infof("Received signal: %s", sig)
		cancel()
	}()

	server := http.Server{
		Addr:         app.cfg.ServerAddress,
		Handler:      router.NewRouter(app.controller, app.log),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			app.log.Errorf("Http server error: %s", err)
		}
	}()

	app.log.Infof("Gateway started at %s for %s, listening for connections...", app.cfg.ServerAddress, app.cfg.BaseURL)
	<-ctx.Done()

	timeout, tcancel := context.WithTimeout(context.Background(), time.Second*10)
	defer tcancel()
	app.log.Infof("Shutting down http server...")
	server.Shutdown(timeout)

	if app.closer != nil {
		app.log.Infof("Closing session store...")
		err := app.closer.Close()
		if err != nil {
			app.log.Errorf("Session store closing error: %s", err)
		}
	}

	close(app.Done)
	app.log.Infof("Exiting app.")
}
