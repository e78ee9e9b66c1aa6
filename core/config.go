package core

import (
	"net"
	"net/mail"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const devSecretKey = "dev-only-8yq!t7c+w2$zk0o#1n@v5r9e^m6x4p3s"

var errInsecureSecret = errors.New("config: secretKey (JWT_SECRET) must be set outside debug mode")

type (
	Config struct {
		Debug            bool
		TestMode         bool
		Env              string
		Build            string
		AppName          string
		SecretKey        string
		DefaultFromEmail mail.Address
		FrontendBaseURL  string
		SendgridAPIKey   string
		RollbarToken     string
		Server           ServerConfig
		Database         DatabaseConfig
		Redis            RedisConfig
	}

	ServerConfig struct {
		Host               string
		Port               int
		DebugHost          string
		CORSOrigin         string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
	}

	DatabaseConfig struct {
		URL        string
		Engine     string
		Host       string
		Port       int
		User       string
		Password   string
		Name       string
		DisableTLS bool
	}

	RedisConfig struct {
		Address  string
		Password string
		DB       int
		StatsTTL time.Duration
	}
)

// Address returns the host:port the API server listens on.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

func (d DatabaseConfig) Address() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

// DSN returns DATABASE_URL when set, otherwise builds a URL from the individual settings.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	sslMode := "require"
	if d.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   d.Engine,
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Address(),
		Path:     d.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func newViper() *viper.Viper {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "INZOZI")
	v.SetDefault("secretKey", devSecretKey)
	v.SetDefault("defaultFromEmail", "INZOZI <noreply@localhost>")
	v.SetDefault("frontendBaseURL", "http://localhost:5173")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.debugHost", "localhost:5001")
	v.SetDefault("server.corsOrigin", "http://localhost:5173")
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "inzozi")
	v.SetDefault("database.password", "inzozi")
	v.SetDefault("database.name", "inzozi")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.statsTTL", time.Minute)

	return v
}

// NewConfig loads the configuration for the environment named by $ENV (DEV by default).
// Values come from defaults, then config/.env.<env> if it exists, then the environment.
func NewConfig() (*Config, error) {
	v := newViper()

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(configDir(), ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "config.godotenv(%s)", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "config.os.Stat(%s)", dotEnvPath)
	}
	v.AutomaticEnv()

	// unprefixed names shared with the frontend tooling
	_ = v.BindEnv("secretKey", env+"_SECRETKEY", "JWT_SECRET")
	_ = v.BindEnv("server.port", env+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.corsOrigin", env+"_SERVER_CORSORIGIN", "CORS_ORIGIN")
	_ = v.BindEnv("database.url", env+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("redis.address", env+"_REDIS_ADDRESS", "REDIS_ADDR")

	return buildConfig(v, env)
}

func buildConfig(v *viper.Viper, env string) (*Config, error) {
	from, err := mail.ParseAddress(v.GetString("defaultFromEmail"))
	if err != nil {
		return nil, errors.Wrap(err, "config: parsing defaultFromEmail")
	}

	conf := &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		Env:              env,
		Build:            v.GetString("build"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		DefaultFromEmail: *from,
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			Port:               v.GetInt("server.port"),
			DebugHost:          v.GetString("server.debugHost"),
			CORSOrigin:         v.GetString("server.corsOrigin"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			URL:        v.GetString("database.url"),
			Engine:     v.GetString("database.engine"),
			Host:       v.GetString("database.host"),
			Port:       v.GetInt("database.port"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			Name:       v.GetString("database.name"),
			DisableTLS: v.GetBool("database.disableTLS"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			StatsTTL: v.GetDuration("redis.statsTTL"),
		},
	}

	if !conf.Debug && conf.SecretKey == devSecretKey {
		return nil, errInsecureSecret
	}
	return conf, nil
}

// configDir returns $CONFIG_DIR, falling back to ./config.
func configDir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return "config"
}
