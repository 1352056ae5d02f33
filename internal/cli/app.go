package cli

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/actionkit"
	"github.com/aretw0/actionkit/internal/compiler"
	"github.com/aretw0/actionkit/internal/config"
	httpadapter "github.com/aretw0/actionkit/pkg/adapters/http"
	"github.com/aretw0/actionkit/pkg/adapters/memory"
	"github.com/aretw0/actionkit/pkg/adapters/redis"
	"github.com/aretw0/actionkit/pkg/observability"
	"github.com/aretw0/actionkit/pkg/persistence/middleware"
	"github.com/aretw0/actionkit/pkg/ports"
	"github.com/aretw0/actionkit/pkg/registry"
	"github.com/aretw0/actionkit/pkg/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/afero"
)

// App assembles servers from a configuration. Files are read through Fs.
type App struct {
	Config   config.Config
	Fs       afero.Fs
	Registry *registry.Registry
	Logger   *slog.Logger
}

// NewApp creates an app with the builtin services registered.
func NewApp(fsys afero.Fs, cfg config.Config, logger *slog.Logger) *App {
	reg := registry.NewRegistry()
	RegisterBuiltins(reg)
	return &App{Config: cfg, Fs: fsys, Registry: reg, Logger: logger}
}

// Assembly is one built generation of the application.
type Assembly struct {
	Server      *httpadapter.Server
	Handler     http.Handler
	Engine      *render.Engine
	Controllers []*actionkit.Controller

	closer io.Closer
}

// Close releases the flash store.
func (a *Assembly) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Templates loads the template directory, or an empty engine when none is configured.
func (a *App) Templates() (*render.Engine, error) {
	opts := []render.Option{render.WithLayout(a.Config.Layout), render.WithLogger(a.Logger)}
	if a.Config.Templates == "" {
		return render.New(nil, opts...)
	}
	dir := strings.TrimPrefix(a.Config.Templates, "./")
	sub, err := fs.Sub(afero.NewIOFS(a.Fs), dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open templates %s: %w", dir, err)
	}
	return render.New(sub, opts...)
}

// Definitions loads and compiles every configured definition without serving them.
func (a *App) Definitions(engine *render.Engine) ([]*compiler.Definition, error) {
	defs, err := compiler.LoadAll(a.Fs, a.Config.Definitions)
	if err != nil {
		return nil, err
	}
	c := compiler.New(a.Registry, compiler.WithViews(engine), compiler.WithLogger(a.Logger))
	var errs []error
	for _, def := range defs {
		if err := c.Check(def); err != nil {
			errs = append(errs, err)
		}
	}
	return defs, errors.Join(errs...)
}

// Build loads templates and definitions and wires the server.
func (a *App) Build() (*Assembly, error) {
	engine, err := a.Templates()
	if err != nil {
		return nil, err
	}
	defs, err := a.Definitions(engine)
	if err != nil {
		return nil, err
	}

	hooks := observability.LogHooks(a.Logger)
	serverOpts := []httpadapter.Option{
		httpadapter.WithLogger(a.Logger),
		httpadapter.WithSessionCookie(a.Config.SessionCookie),
		httpadapter.WithInfo("actionkit", actionkit.Version),
	}
	if a.Config.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		metrics, err := observability.NewMetrics(observability.MetricsConfig{
			Namespace: a.Config.Metrics.Namespace,
			Registry:  reg,
		})
		if err != nil {
			return nil, err
		}
		hooks = observability.Chain(metrics.Hooks(), hooks)
		serverOpts = append(serverOpts, httpadapter.WithMetrics(reg))
	}

	store, closer, err := a.flashStore()
	if err != nil {
		return nil, err
	}
	asm := &Assembly{Engine: engine, closer: closer}
	asm.Server = httpadapter.NewServer(engine, serverOpts...)

	c := compiler.New(a.Registry, compiler.WithViews(engine), compiler.WithLogger(a.Logger))
	for _, def := range defs {
		ctrl, err := c.Build(def,
			actionkit.WithFlashStore(store),
			actionkit.WithLifecycleHooks(hooks),
			actionkit.WithLogger(a.Logger),
		)
		if err != nil {
			asm.Close()
			return nil, err
		}
		asm.Controllers = append(asm.Controllers, ctrl)
		asm.Server.Mount(def.Prefix(), ctrl)
	}
	asm.Handler = asm.Server.Handler()
	return asm, nil
}

// flashStore builds the configured backend wrapped by the masking and
// encryption middleware. The closer releases the backend.
func (a *App) flashStore() (ports.FlashStore, io.Closer, error) {
	f := a.Config.Flash

	var backend interface {
		ports.FlashStore
		io.Closer
	}
	if f.Store == config.StoreRedis {
		opts := []redis.Option{redis.WithTTL(f.TTL)}
		if f.Prefix != "" {
			opts = append(opts, redis.WithPrefix(f.Prefix))
		}
		backend = redis.New(f.RedisAddr, f.RedisPassword, f.RedisDB, opts...)
	} else {
		backend = memory.NewStore(memory.WithTTL(f.TTL))
	}

	var mws []middleware.Middleware
	if len(f.RedactPatterns) > 0 {
		mw, err := middleware.NewPIIMiddleware(f.RedactPatterns)
		if err != nil {
			backend.Close()
			return nil, nil, err
		}
		mws = append(mws, mw)
	}
	if f.EncryptionKey != "" {
		mw, err := encryptionMiddleware(f.EncryptionKey, f.FallbackKeys)
		if err != nil {
			backend.Close()
			return nil, nil, err
		}
		mws = append(mws, mw)
	}
	return middleware.Chain(backend, mws...), backend, nil
}

func encryptionMiddleware(active string, fallbacks []string) (middleware.Middleware, error) {
	decode := func(k string) ([]byte, error) {
		b, err := base64.StdEncoding.DecodeString(k)
		if err != nil {
			return nil, fmt.Errorf("invalid flash encryption key: %w", err)
		}
		return b, nil
	}
	cfg := middleware.EncryptionConfig{}
	var err error
	if cfg.ActiveKey, err = decode(active); err != nil {
		return nil, err
	}
	for _, k := range fallbacks {
		b, err := decode(k)
		if err != nil {
			return nil, err
		}
		cfg.FallbackKeys = append(cfg.FallbackKeys, b)
	}
	return middleware.NewEncryptionMiddleware(cfg)
}

// Describe returns routes and actions of every definition, for the describe and routes commands.
func (a *App) Describe() (*httpadapter.Server, []*actionkit.Controller, error) {
	engine, err := a.Templates()
	if err != nil {
		return nil, nil, err
	}
	defs, err := a.Definitions(engine)
	if err != nil {
		return nil, nil, err
	}
	srv := httpadapter.NewServer(engine)
	c := compiler.New(a.Registry, compiler.WithViews(engine))
	var ctrls []*actionkit.Controller
	for _, def := range defs {
		ctrl, err := c.Build(def)
		if err != nil {
			return nil, nil, err
		}
		srv.Mount(def.Prefix(), ctrl)
		ctrls = append(ctrls, ctrl)
	}
	return srv, ctrls, nil
}

