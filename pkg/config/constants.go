package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "POPSPOT_APP_ENV"
	EnvPort      = "POPSPOT_APP_PORT"
	EnvDBDSN     = "POPSPOT_DB_DSN"
	EnvDBHost    = "POPSPOT_DB_HOST"
	EnvDBUser    = "POPSPOT_DB_USER"
	EnvDBName    = "POPSPOT_DB_NAME"
	EnvRedisURL  = "POPSPOT_REDIS_URL"
	EnvJWTSecret = "POPSPOT_JWT_SECRET"
	EnvJWTIssuer = "POPSPOT_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
