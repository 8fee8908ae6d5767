package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"cultivation" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Admin struct {
		Email        string `default:"" env:"ADMIN_EMAIL"`
		Password     string `default:"" env:"ADMIN_PASSWORD"`
		FirstName    string `default:"" env:"ADMIN_FIRST_NAME"`
		LastName     string `default:"" env:"ADMIN_LAST_NAME"`
		FacilityName string `default:"" env:"ADMIN_FACILITY_NAME"`
	}
	Auth struct {
		JWTSecret   string `default:"" env:"AUTH_JWT_SECRET"`
		TokenTTLMin int    `default:"480" env:"AUTH_TOKEN_TTL_MIN"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		Sender     string `default:"" env:"SMTP_SENDER"`
	}
	Compliance struct {
		RegistryURL string `default:"" env:"COMPLIANCE_REGISTRY_URL"`
		ApiKey      string `default:"" env:"COMPLIANCE_REGISTRY_API_KEY"`
	}
	S3 struct {
		Endpoint  string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKey string `default:"" env:"S3_ACCESS_KEY"`
		SecretKey string `default:"" env:"S3_SECRET_KEY"`
		UseSSL    *bool  `default:"false" env:"S3_USE_SSL"`
		Bucket    string `default:"release-documents" env:"S3_BUCKET"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
