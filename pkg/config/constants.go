package config

const (
	EnvPrefix = "BLOOMCRATE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "BLOOMCRATE_DB_DSN"
	EnvDBHost = "BLOOMCRATE_DB_HOST"
	EnvDBUser = "BLOOMCRATE_DB_USER"
	EnvDBName = "BLOOMCRATE_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
