package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Shopify      ShopifyConfig
	Billing      BillingConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CARTBOOST_APP_ENV" required:"true"`
	Port         string `envconfig:"CARTBOOST_APP_PORT" default:"8080"`
	BaseURL      string `envconfig:"CARTBOOST_APP_BASE_URL"`
	LogLevel     string `envconfig:"CARTBOOST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CARTBOOST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CARTBOOST_DB_DSN"`
	Driver string `envconfig:"CARTBOOST_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CARTBOOST_DB_HOST"`
	Port     int    `envconfig:"CARTBOOST_DB_PORT" default:"5432"`
	User     string `envconfig:"CARTBOOST_DB_USER"`
	Password string `envconfig:"CARTBOOST_DB_PASSWORD"`
	Name     string `envconfig:"CARTBOOST_DB_NAME"`
	SSLMode  string `envconfig:"CARTBOOST_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CARTBOOST_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CARTBOOST_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CARTBOOST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CARTBOOST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CARTBOOST_REDIS_URL"`
	Address      string        `envconfig:"CARTBOOST_REDIS_ADDR"`
	Password     string        `envconfig:"CARTBOOST_REDIS_PASSWORD"`
	DB           int           `envconfig:"CARTBOOST_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CARTBOOST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CARTBOOST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CARTBOOST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CARTBOOST_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CARTBOOST_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type ShopifyConfig struct {
	APIKey        string        `envconfig:"CARTBOOST_SHOPIFY_API_KEY" required:"true"`
	APISecret     string        `envconfig:"CARTBOOST_SHOPIFY_API_SECRET" required:"true"`
	Scopes        string        `envconfig:"CARTBOOST_SHOPIFY_SCOPES" default:"read_products,write_script_tags"`
	MembershipTTL time.Duration `envconfig:"CARTBOOST_SHOPIFY_MEMBERSHIP_CACHE_TTL" default:"5m"`
}

type BillingConfig struct {
	ChargeName string `envconfig:"CARTBOOST_BILLING_CHARGE_NAME" default:"CartBoost Pro"`
	PricePro   string `envconfig:"CARTBOOST_BILLING_PRICE_PRO" default:"9.99"`
	Test       bool   `envconfig:"CARTBOOST_BILLING_TEST" default:"false"`
	ReturnPath string `envconfig:"CARTBOOST_BILLING_RETURN_PATH" default:"/admin/billing/confirm"`
}

type CORSConfig struct {
	AdminOrigins []string `envconfig:"CARTBOOST_CORS_ADMIN_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CARTBOOST_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CARTBOOST_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := map[string]string{
		"CARTBOOST_DB_HOST": db.Host,
		"CARTBOOST_DB_USER": db.User,
		"CARTBOOST_DB_NAME": db.Name,
	}
	for _, envName := range []string{"CARTBOOST_DB_HOST", "CARTBOOST_DB_USER", "CARTBOOST_DB_NAME"} {
		if required[envName] == "" {
			missing = append(missing, envName)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either CARTBOOST_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
