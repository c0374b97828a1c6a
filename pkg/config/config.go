package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	State         StateConfig
	Latency       LatencyConfig
	Store         StoreConfig
	Admin         AdminConfig
	GoogleMaps    GoogleMapsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.State.validate(); err != nil {
		return nil, err
	}
	if cfg.needsDatabase() {
		if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
			return nil, err
		}
	}
	if err := cfg.PubSub.validate(cfg.GCP); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// needsDatabase reports whether the selected state backend is the SQL store.
func (c Config) needsDatabase() bool {
	return strings.EqualFold(c.State.Backend, StateBackendDB)
}

type AppConfig struct {
	Env          string `envconfig:"DRYFRUIT_APP_ENV" required:"true"`
	Port         string `envconfig:"DRYFRUIT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"DRYFRUIT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DRYFRUIT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DRYFRUIT_DB_DSN"`
	Driver string `envconfig:"DRYFRUIT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DRYFRUIT_DB_HOST"`
	LegacyPort     int    `envconfig:"DRYFRUIT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DRYFRUIT_DB_USER"`
	LegacyPassword string `envconfig:"DRYFRUIT_DB_PASSWORD"`
	LegacyName     string `envconfig:"DRYFRUIT_DB_NAME"`
	LegacySSLMode  string `envconfig:"DRYFRUIT_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"DRYFRUIT_SQLITE_PATH" default:"dryfruit.db"`

	MaxOpenConns    int           `envconfig:"DRYFRUIT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DRYFRUIT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DRYFRUIT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DRYFRUIT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DRYFRUIT_REDIS_URL"`
	Address      string        `envconfig:"DRYFRUIT_REDIS_ADDR"`
	Password     string        `envconfig:"DRYFRUIT_REDIS_PASSWORD"`
	DB           int           `envconfig:"DRYFRUIT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DRYFRUIT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DRYFRUIT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DRYFRUIT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DRYFRUIT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DRYFRUIT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret                 string `envconfig:"DRYFRUIT_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"DRYFRUIT_JWT_ISSUER" default:"dryfruit"`
	ExpirationMinutes      int    `envconfig:"DRYFRUIT_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"DRYFRUIT_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DRYFRUIT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DRYFRUIT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DRYFRUIT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DRYFRUIT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DRYFRUIT_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	OTPWindow     time.Duration `envconfig:"DRYFRUIT_AUTH_RATE_LIMIT_OTP_WINDOW" default:"10m"`
	OTPPhoneLimit int           `envconfig:"DRYFRUIT_AUTH_RATE_LIMIT_OTP_PHONE_LIMIT" default:"5"`
	OTPIPLimit    int           `envconfig:"DRYFRUIT_AUTH_RATE_LIMIT_OTP_IP_LIMIT" default:"30"`
	AdminWindow   time.Duration `envconfig:"DRYFRUIT_AUTH_RATE_LIMIT_ADMIN_WINDOW" default:"1m"`
	AdminIPLimit  int           `envconfig:"DRYFRUIT_AUTH_RATE_LIMIT_ADMIN_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"DRYFRUIT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"DRYFRUIT_AUTO_MIGRATE" default:"false"`
}

// StateConfig selects where store snapshots are persisted.
type StateConfig struct {
	Backend string        `envconfig:"DRYFRUIT_STATE_BACKEND" default:"db"`
	LockTTL time.Duration `envconfig:"DRYFRUIT_STATE_LOCK_TTL" default:"10s"`
}

func (s StateConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Backend)) {
	case StateBackendDB, StateBackendRedis, StateBackendMemory:
		return nil
	}
	return fmt.Errorf("%s must be one of %s, %s, %s", EnvStateBackend, StateBackendDB, StateBackendRedis, StateBackendMemory)
}

// LatencyConfig holds the simulated backend delays applied before each store mutation.
type LatencyConfig struct {
	Enabled        bool          `envconfig:"DRYFRUIT_LATENCY_ENABLED" default:"true"`
	PlaceOrder     time.Duration `envconfig:"DRYFRUIT_LATENCY_PLACE_ORDER" default:"2s"`
	CancelOrder    time.Duration `envconfig:"DRYFRUIT_LATENCY_CANCEL_ORDER" default:"1s"`
	UpdateStatus   time.Duration `envconfig:"DRYFRUIT_LATENCY_UPDATE_STATUS" default:"1s"`
	Login          time.Duration `envconfig:"DRYFRUIT_LATENCY_LOGIN" default:"1500ms"`
	VerifyOTP      time.Duration `envconfig:"DRYFRUIT_LATENCY_VERIFY_OTP" default:"1500ms"`
	DeliveryMutate time.Duration `envconfig:"DRYFRUIT_LATENCY_DELIVERY_MUTATE" default:"500ms"`
	AdminLogin     time.Duration `envconfig:"DRYFRUIT_LATENCY_ADMIN_LOGIN" default:"1s"`
}

type StoreConfig struct {
	DeliveryFee     float64       `envconfig:"DRYFRUIT_DELIVERY_FEE" default:"40"`
	DeliveryETA     time.Duration `envconfig:"DRYFRUIT_DELIVERY_ETA" default:"30m"`
	UPIPayeeAddress string        `envconfig:"DRYFRUIT_UPI_PAYEE_ADDRESS" default:"merchant@upi"`
	UPIPayeeName    string        `envconfig:"DRYFRUIT_UPI_PAYEE_NAME" default:"Dry Fruits Store"`
	OTPTTL          time.Duration `envconfig:"DRYFRUIT_OTP_TTL" default:"5m"`
}

type AdminConfig struct {
	Username     string `envconfig:"DRYFRUIT_ADMIN_USERNAME" default:"admin"`
	Password     string `envconfig:"DRYFRUIT_ADMIN_PASSWORD" default:"admin123"`
	PasswordHash string `envconfig:"DRYFRUIT_ADMIN_PASSWORD_HASH"`
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"DRYFRUIT_GOOGLE_MAPS_API_KEY"`
	Region string `envconfig:"DRYFRUIT_GOOGLE_MAPS_REGION" default:"IN"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"DRYFRUIT_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	Enabled     bool   `envconfig:"DRYFRUIT_PUBSUB_ENABLED" default:"false"`
	OrdersTopic string `envconfig:"DRYFRUIT_PUBSUB_ORDERS_TOPIC" default:"df-order-events"`
}

func (p PubSubConfig) validate(gcp GCPConfig) error {
	if !p.Enabled {
		return nil
	}
	if strings.TrimSpace(gcp.ProjectID) == "" {
		return fmt.Errorf("%s is required when %s is set", EnvGCPProjectID, EnvPubSubEnabled)
	}
	if strings.TrimSpace(p.OrdersTopic) == "" {
		return fmt.Errorf("%s is required when %s is set", EnvPubSubOrdersTopic, EnvPubSubEnabled)
	}
	return nil
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		if strings.TrimSpace(db.SQLitePath) == "" {
			return fmt.Errorf("%s is required when %s is set", EnvSQLitePath, EnvUseSQLite)
		}
		db.Driver = DBDriverSQLite
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
