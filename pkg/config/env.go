package config

// EnvPrefix namespaces every variable read by envconfig.
const EnvPrefix = "DRYFRUIT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StateBackendDB     = "db"
	StateBackendRedis  = "redis"
	StateBackendMemory = "memory"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "DRYFRUIT_APP_ENV"
	EnvPort     = "DRYFRUIT_APP_PORT"
	EnvLogLevel = "DRYFRUIT_LOG_LEVEL"

	EnvDBDSN      = "DRYFRUIT_DB_DSN"
	EnvDBHost     = "DRYFRUIT_DB_HOST"
	EnvDBUser     = "DRYFRUIT_DB_USER"
	EnvDBName     = "DRYFRUIT_DB_NAME"
	EnvSQLitePath = "DRYFRUIT_SQLITE_PATH"
	EnvUseSQLite  = "DRYFRUIT_USE_SQLITE"

	EnvRedisURL = "DRYFRUIT_REDIS_URL"

	EnvJWTSecret               = "DRYFRUIT_JWT_SECRET"
	EnvJWTIssuer               = "DRYFRUIT_JWT_ISSUER"
	EnvJWTExpMins              = "DRYFRUIT_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes  = "DRYFRUIT_REFRESH_TOKEN_TTL_MINUTES"
	EnvStateBackend            = "DRYFRUIT_STATE_BACKEND"
	EnvLatencyEnabled          = "DRYFRUIT_LATENCY_ENABLED"
	EnvLatencyPlaceOrder       = "DRYFRUIT_LATENCY_PLACE_ORDER"
	EnvDeliveryFee             = "DRYFRUIT_DELIVERY_FEE"
	EnvAdminPasswordHash       = "DRYFRUIT_ADMIN_PASSWORD_HASH"
	EnvGCPProjectID            = "DRYFRUIT_GCP_PROJECT_ID"
	EnvPubSubEnabled           = "DRYFRUIT_PUBSUB_ENABLED"
	EnvPubSubOrdersTopic       = "DRYFRUIT_PUBSUB_ORDERS_TOPIC"
	EnvGoogleMapsAPIKey        = "DRYFRUIT_GOOGLE_MAPS_API_KEY"
	EnvAuthRateLimitOTPWindow  = "DRYFRUIT_AUTH_RATE_LIMIT_OTP_WINDOW"
	EnvAuthRateLimitOTPIPLimit = "DRYFRUIT_AUTH_RATE_LIMIT_OTP_IP_LIMIT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
