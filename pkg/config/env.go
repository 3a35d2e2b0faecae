package config

const (
	EnvPrefix = "FITCORE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "FITCORE_DB_DSN"
	EnvDBHost = "FITCORE_DB_HOST"
	EnvDBUser = "FITCORE_DB_USER"
	EnvDBName = "FITCORE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
