package config

const EnvPrefix = "KOYLUCE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "KOYLUCE_APP_ENV"
	EnvPort     = "KOYLUCE_APP_PORT"
	EnvLogLevel = "KOYLUCE_LOG_LEVEL"

	EnvDBDSN      = "KOYLUCE_DB_DSN"
	EnvDBHost     = "KOYLUCE_DB_HOST"
	EnvDBPort     = "KOYLUCE_DB_PORT"
	EnvDBUser     = "KOYLUCE_DB_USER"
	EnvDBPassword = "KOYLUCE_DB_PASSWORD"
	EnvDBName     = "KOYLUCE_DB_NAME"

	EnvRedisURL = "KOYLUCE_REDIS_URL"

	EnvJWTSecret  = "KOYLUCE_JWT_SECRET"
	EnvJWTIssuer  = "KOYLUCE_JWT_ISSUER"
	EnvJWTExpMins = "KOYLUCE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
