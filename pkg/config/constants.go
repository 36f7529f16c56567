package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// AUTOCITY_* names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "AUTOCITY_APP_ENV"
	EnvPort     = "AUTOCITY_APP_PORT"
	EnvDBDSN    = "AUTOCITY_DB_DSN"
	EnvDBHost   = "AUTOCITY_DB_HOST"
	EnvDBUser   = "AUTOCITY_DB_USER"
	EnvDBName   = "AUTOCITY_DB_NAME"
	EnvRedisURL = "AUTOCITY_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
