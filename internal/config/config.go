package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env     string `yaml:"app_env"`
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Addr               string        `yaml:"addr"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
		ReadHeaderTimeout  time.Duration `yaml:"read_header_timeout"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`

		// TrustedProxies lists the CIDRs or IPs whose X-Forwarded-For is believed.
		TrustedProxies []string `yaml:"trusted_proxies"`
	} `yaml:"server"`

	Storage struct {
		// memory | postgres
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Migrate  bool   `yaml:"migrate"`
		Postgres struct {
			MaxOpenConns    int           `yaml:"max_open_conns"`
			MaxIdleConns    int           `yaml:"max_idle_conns"`
			ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	JWT struct {
		Secret    string        `yaml:"secret"`
		Algorithm string        `yaml:"algorithm"`
		AccessTTL time.Duration `yaml:"access_ttl"`
	} `yaml:"jwt"`

	Providers struct {
		Yandex struct {
			ClientID         string        `yaml:"client_id"`
			ClientSecret     string        `yaml:"client_secret"`
			RedirectURI      string        `yaml:"redirect_uri"`
			AuthURL          string        `yaml:"auth_url"`
			TokenURL         string        `yaml:"token_url"`
			InfoURL          string        `yaml:"info_url"`
			Timeout          time.Duration `yaml:"timeout"`
			ProfileCacheTTL  time.Duration `yaml:"profile_cache_ttl"`
			ProfileCacheSize int           `yaml:"profile_cache_size"`
		} `yaml:"yandex"`
	} `yaml:"providers"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int           `yaml:"limit"`
			Window time.Duration `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	Uploads struct {
		// fs | s3
		Driver            string   `yaml:"driver"`
		Dir               string   `yaml:"dir"`
		MaxSize           int64    `yaml:"max_size"`
		AllowedExtensions []string `yaml:"allowed_extensions"`
		S3                struct {
			Bucket    string `yaml:"bucket"`
			Region    string `yaml:"region"`
			Endpoint  string `yaml:"endpoint"`
			AccessKey string `yaml:"access_key"`
			SecretKey string `yaml:"secret_key"`
			PathStyle bool   `yaml:"path_style"`
		} `yaml:"s3"`
	} `yaml:"uploads"`

	Bootstrap struct {
		AdminEmail    string `yaml:"admin_email"`
		AdminUsername string `yaml:"admin_username"`
		AdminPassword string `yaml:"admin_password"`
	} `yaml:"bootstrap"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads the YAML file at path (optional: empty path means defaults only),
// applies environment overrides and fills defaults.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}
	c.applyEnvOverrides()
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "audiohub"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Storage.Driver == "" {
		if c.Storage.DSN != "" {
			c.Storage.Driver = "postgres"
		} else {
			c.Storage.Driver = "memory"
		}
	}
	if c.Storage.Postgres.MaxOpenConns == 0 {
		c.Storage.Postgres.MaxOpenConns = 10
	}
	if c.Storage.Postgres.ConnMaxLifetime == 0 {
		c.Storage.Postgres.ConnMaxLifetime = 30 * time.Minute
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "audiohub:"
	}
	if c.JWT.Algorithm == "" {
		c.JWT.Algorithm = "HS256"
	}
	if c.JWT.AccessTTL == 0 {
		c.JWT.AccessTTL = 30 * time.Minute
	}
	y := &c.Providers.Yandex
	if y.AuthURL == "" {
		y.AuthURL = "https://oauth.yandex.ru/authorize"
	}
	if y.TokenURL == "" {
		y.TokenURL = "https://oauth.yandex.ru/token"
	}
	if y.InfoURL == "" {
		y.InfoURL = "https://login.yandex.ru/info?format=json"
	}
	if y.Timeout == 0 {
		y.Timeout = 10 * time.Second
	}
	if y.ProfileCacheTTL == 0 {
		y.ProfileCacheTTL = 5 * time.Minute
	}
	if y.ProfileCacheSize == 0 {
		y.ProfileCacheSize = 1000
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == 0 {
		c.Rate.Login.Window = time.Minute
	}
	if c.Uploads.Driver == "" {
		c.Uploads.Driver = "fs"
	}
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = "static"
	}
	if c.Uploads.MaxSize == 0 {
		c.Uploads.MaxSize = 10 << 20
	}
	if len(c.Uploads.AllowedExtensions) == 0 {
		c.Uploads.AllowedExtensions = []string{"mp3", "wav", "ogg"}
	}
	if c.Uploads.S3.Region == "" {
		c.Uploads.S3.Region = "us-east-1"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvInt64(key string) (int64, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides layers environment variables over the YAML file.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("APP_VERSION"); ok {
		c.App.Version = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvDur("SERVER_SHUTDOWN_TIMEOUT"); ok {
		c.Server.ShutdownTimeout = v
	}
	if v, ok := getEnvCSV("SERVER_TRUSTED_PROXIES"); ok {
		c.Server.TrustedProxies = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	} else if c.Storage.DSN == "" {
		if dsn, ok := postgresDSNFromEnv(); ok {
			c.Storage.DSN = dsn
		}
	}
	if v, ok := getEnvBool("STORAGE_MIGRATE"); ok {
		c.Storage.Migrate = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_OPEN_CONNS"); ok {
		c.Storage.Postgres.MaxOpenConns = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_IDLE_CONNS"); ok {
		c.Storage.Postgres.MaxIdleConns = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}

	// JWT
	if v, ok := getEnvStr("SECRET_KEY"); ok {
		c.JWT.Secret = v
	}
	if v, ok := getEnvStr("ALGORITHM"); ok {
		c.JWT.Algorithm = strings.ToUpper(v)
	}
	if v, ok := getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES"); ok {
		c.JWT.AccessTTL = time.Duration(v) * time.Minute
	}

	// PROVIDERS
	y := &c.Providers.Yandex
	if v, ok := getEnvStr("YANDEX_CLIENT_ID"); ok {
		y.ClientID = v
	}
	if v, ok := getEnvStr("YANDEX_CLIENT_SECRET"); ok {
		y.ClientSecret = v
	}
	if v, ok := getEnvStr("YANDEX_REDIRECT_URI"); ok {
		y.RedirectURI = v
	}
	if v, ok := getEnvStr("YANDEX_TOKEN_URL"); ok {
		y.TokenURL = v
	}
	if v, ok := getEnvStr("YANDEX_INFO_URL"); ok {
		y.InfoURL = v
	}
	if v, ok := getEnvDur("YANDEX_TIMEOUT"); ok {
		y.Timeout = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LOGIN_LIMIT"); ok {
		c.Rate.Login.Limit = v
	}
	if v, ok := getEnvDur("RATE_LOGIN_WINDOW"); ok {
		c.Rate.Login.Window = v
	}

	// UPLOADS
	if v, ok := getEnvStr("UPLOADS_DRIVER"); ok {
		c.Uploads.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("UPLOADS_DIR"); ok {
		c.Uploads.Dir = v
	}
	if v, ok := getEnvInt64("UPLOADS_MAX_SIZE"); ok {
		c.Uploads.MaxSize = v
	}
	if v, ok := getEnvCSV("UPLOADS_ALLOWED_EXTENSIONS"); ok {
		c.Uploads.AllowedExtensions = v
	}
	if v, ok := getEnvStr("S3_BUCKET"); ok {
		c.Uploads.S3.Bucket = v
	}
	if v, ok := getEnvStr("S3_REGION"); ok {
		c.Uploads.S3.Region = v
	}
	if v, ok := getEnvStr("S3_ENDPOINT"); ok {
		c.Uploads.S3.Endpoint = v
	}
	if v, ok := getEnvStr("S3_ACCESS_KEY"); ok {
		c.Uploads.S3.AccessKey = v
	}
	if v, ok := getEnvStr("S3_SECRET_KEY"); ok {
		c.Uploads.S3.SecretKey = v
	}
	if v, ok := getEnvBool("S3_PATH_STYLE"); ok {
		c.Uploads.S3.PathStyle = v
	}

	// BOOTSTRAP
	if v, ok := getEnvStr("BOOTSTRAP_ADMIN_EMAIL"); ok {
		c.Bootstrap.AdminEmail = v
	}
	if v, ok := getEnvStr("BOOTSTRAP_ADMIN_USERNAME"); ok {
		c.Bootstrap.AdminUsername = v
	}
	if v, ok := getEnvStr("BOOTSTRAP_ADMIN_PASSWORD"); ok {
		c.Bootstrap.AdminPassword = v
	}

	// LOG
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
}

// postgresDSNFromEnv composes a DSN from POSTGRES_USER, POSTGRES_PASSWORD,
// POSTGRES_HOST, POSTGRES_PORT and POSTGRES_DB. Host is required.
func postgresDSNFromEnv() (string, bool) {
	host, ok := getEnvStr("POSTGRES_HOST")
	if !ok {
		return "", false
	}
	port, ok := getEnvStr("POSTGRES_PORT")
	if !ok {
		port = "5432"
	}
	user, _ := getEnvStr("POSTGRES_USER")
	pass, _ := getEnvStr("POSTGRES_PASSWORD")
	db, _ := getEnvStr("POSTGRES_DB")

	u := url.URL{
		Scheme: "postgres",
		Host:   host + ":" + port,
		Path:   "/" + db,
	}
	if user != "" {
		u.User = url.UserPassword(user, pass)
	}
	q := url.Values{}
	q.Set("sslmode", "disable")
	if v, ok := getEnvStr("POSTGRES_SSLMODE"); ok {
		q.Set("sslmode", v)
	}
	u.RawQuery = q.Encode()
	return u.String(), true
}

// Validate checks the values the service cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret (SECRET_KEY) is required"))
	}
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("jwt.algorithm %q not supported", c.JWT.Algorithm))
	}
	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q not supported", c.Storage.Driver))
	}
	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind %q not supported", c.Cache.Kind))
	}
	switch c.Uploads.Driver {
	case "fs":
	case "s3":
		if c.Uploads.S3.Bucket == "" {
			errs = append(errs, errors.New("uploads.s3.bucket is required for s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("uploads.driver %q not supported", c.Uploads.Driver))
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		errs = append(errs, err)
	}
	y := c.Providers.Yandex
	if c.IsProd() && (y.ClientID == "" || y.ClientSecret == "" || y.RedirectURI == "") {
		errs = append(errs, errors.New("providers.yandex client_id, client_secret and redirect_uri are required in prod"))
	}
	return errors.Join(errs...)
}

// TrustedProxyPrefixes parses Server.TrustedProxies. A bare IP becomes a
// single-address prefix.
func (c *Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(c.Server.TrustedProxies))
	for _, raw := range c.Server.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("server.trusted_proxies: %w", err)
			}
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("server.trusted_proxies: %w", err)
		}
		a = a.Unmap()
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	return out, nil
}

func (c *Config) IsProd() bool { return c.App.Env == "prod" || c.App.Env == "production" }
