// Package server builds the HTTP handler and its dependencies from config.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/audiohub/internal/blob"
	blobs3 "github.com/dropDatabas3/audiohub/internal/blob/s3"
	"github.com/dropDatabas3/audiohub/internal/bootstrap"
	"github.com/dropDatabas3/audiohub/internal/cache"
	"github.com/dropDatabas3/audiohub/internal/config"
	"github.com/dropDatabas3/audiohub/internal/domain/repository"
	"github.com/dropDatabas3/audiohub/internal/http/controllers"
	"github.com/dropDatabas3/audiohub/internal/http/router"
	"github.com/dropDatabas3/audiohub/internal/http/services"
	"github.com/dropDatabas3/audiohub/internal/http/services/health"
	jwtx "github.com/dropDatabas3/audiohub/internal/jwt"
	"github.com/dropDatabas3/audiohub/internal/metrics"
	"github.com/dropDatabas3/audiohub/internal/oauth/yandex"
	"github.com/dropDatabas3/audiohub/internal/observability/logger"
	"github.com/dropDatabas3/audiohub/internal/rate"
	"github.com/dropDatabas3/audiohub/internal/security/password"
	"github.com/dropDatabas3/audiohub/internal/store"
	"github.com/dropDatabas3/audiohub/internal/store/pg"
)

// App is the wired service. Close releases storage and cache.
type App struct {
	Handler http.Handler
	Store   repository.Store
	Cache   cache.Client
	Codec   *jwtx.Codec
}

func (a *App) Close() error {
	var errs []error
	if a.Cache != nil {
		errs = append(errs, a.Cache.Close())
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	return errors.Join(errs...)
}

// Build opens every dependency named by cfg and returns the handler.
// On error everything opened so far is closed.
func Build(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	log := logger.L().With(logger.Component("server"), logger.Op("Build"))
	app := &App{}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	app.Store, err = OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("storage ready", logger.String("driver", app.Store.Driver()))

	app.Cache, err = cache.New(cache.Config{
		Driver:   cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
		MaxItems: cfg.Providers.Yandex.ProfileCacheSize,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	log.Info("cache ready", logger.String("kind", cfg.Cache.Kind))

	app.Codec, err = NewCodec(cfg)
	if err != nil {
		return nil, err
	}

	blobs, err := openBlobs(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("blob store ready", logger.String("driver", blobs.Name()))

	y := cfg.Providers.Yandex
	provider := yandex.New(yandex.Config{
		ClientID:     y.ClientID,
		ClientSecret: y.ClientSecret,
		RedirectURI:  y.RedirectURI,
		AuthURL:      y.AuthURL,
		TokenURL:     y.TokenURL,
		InfoURL:      y.InfoURL,
		Timeout:      y.Timeout,
		Cache:        yandex.NewProfileCache(app.Cache, y.ProfileCacheTTL, nil),
	})

	hasher := password.NewHasher(password.DefaultCost)
	created, err := bootstrap.EnsureSuperuser(ctx, app.Store.Users(), hasher, bootstrap.SuperuserConfig{
		Email:    cfg.Bootstrap.AdminEmail,
		Username: cfg.Bootstrap.AdminUsername,
		Password: cfg.Bootstrap.AdminPassword,
	})
	if err != nil {
		return nil, err
	}
	if created {
		log.Info("bootstrap superuser created")
	}

	svcs := services.New(services.Deps{
		Store:             app.Store,
		Codec:             app.Codec,
		Hasher:            hasher,
		Provider:          provider,
		Blobs:             blobs,
		MaxUploadSize:     cfg.Uploads.MaxSize,
		AllowedExtensions: cfg.Uploads.AllowedExtensions,
		Version:           cfg.App.Version,
		HealthChecks: map[string]health.Pinger{
			"storage": app.Store,
			"cache":   app.Cache,
		},
		HealthOrder: []string{"storage", "cache"},
	})

	var extra []prometheus.Collector
	if ps, ok := app.Store.(*pg.Store); ok {
		extra = append(extra, metrics.NewPoolCollector(ps.Pool))
	}
	if err := metrics.Register(nil, extra...); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	proxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return nil, err
	}
	app.Handler = router.New(router.Deps{
		Controllers:    controllers.New(svcs, cfg.Uploads.MaxSize),
		Sessions:       svcs.Auth.Session,
		AuthLimiter:    newAuthLimiter(cfg, app.Cache),
		CORSOrigins:    cfg.Server.CORSAllowedOrigins,
		TrustedProxies: proxies,
		Metrics:        metrics.Handler(),
	})
	return app, nil
}

// OpenStore opens the configured repository backend. Shared with the CLI.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	sc := store.Config{
		Driver:  cfg.Storage.Driver,
		DSN:     cfg.Storage.DSN,
		Migrate: cfg.Storage.Migrate,
	}
	sc.Postgres.MaxOpenConns = cfg.Storage.Postgres.MaxOpenConns
	sc.Postgres.MaxIdleConns = cfg.Storage.Postgres.MaxIdleConns
	sc.Postgres.ConnMaxLifetime = cfg.Storage.Postgres.ConnMaxLifetime
	s, err := store.Open(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return s, nil
}

// NewCodec builds the session token codec. Shared with the CLI.
func NewCodec(cfg *config.Config) (*jwtx.Codec, error) {
	c, err := jwtx.NewCodec(jwtx.Config{
		Secret:     []byte(cfg.JWT.Secret),
		Algorithm:  cfg.JWT.Algorithm,
		DefaultTTL: cfg.JWT.AccessTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	return c, nil
}

func openBlobs(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	u := cfg.Uploads
	switch u.Driver {
	case "s3":
		s, err := blobs3.New(ctx, blobs3.Config{
			Bucket:    u.S3.Bucket,
			Region:    u.S3.Region,
			Endpoint:  u.S3.Endpoint,
			AccessKey: u.S3.AccessKey,
			SecretKey: u.S3.SecretKey,
			PathStyle: u.S3.PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("blob s3: %w", err)
		}
		return s, nil
	default:
		l, err := blob.NewLocal(u.Dir)
		if err != nil {
			return nil, fmt.Errorf("blob fs: %w", err)
		}
		return l, nil
	}
}

// newAuthLimiter shares counters through Redis when the cache is Redis,
// otherwise counts in process.
func newAuthLimiter(cfg *config.Config, c cache.Client) rate.Limiter {
	if !cfg.Rate.Enabled {
		return nil
	}
	if rc, ok := c.(interface{ Redis() *redis.Client }); ok {
		return rate.NewRedisLimiter(rc.Redis(), cfg.Cache.Redis.Prefix+"rl:", cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
	}
	return rate.NewMemoryLimiter(cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
}
