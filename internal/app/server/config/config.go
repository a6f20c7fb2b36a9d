package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath   = ".env"
	SecretKey = "SecRetKey"
	EnvLocal  = "local"
	EnvDev    = "dev"
	EnvProd   = "prod"
)

const (
	defaultRunAddress = ":5000"
	defaultIssuer     = "studentadmin"
	defaultTokenTTL   = 15 * time.Minute
	defaultMigrations = "migrations"
)

type Config struct {
	Env    string
	DB     DB
	Server Server
	Logger Logger
	Auth   Auth
	Admin  Admin
}

type DB struct {
	// DatabaseURI пустой - данные хранятся в памяти
	DatabaseURI string
	Migrations  string
}

type Server struct {
	RunAddress string
}

type Logger struct {
	LogLevel string
}

type Auth struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// Admin - пользователь, который создается при старте сервера
type Admin struct {
	Email    string
	Password string
}

func MustLoad() *Config {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Println("Error loading .env file:", err)
		}
	}

	viper.AutomaticEnv()
	viper.SetDefault("app_env", EnvLocal)
	viper.SetDefault("run_address", defaultRunAddress)
	viper.SetDefault("migrations_path", defaultMigrations)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("jwt_issuer", defaultIssuer)
	viper.SetDefault("token_ttl", defaultTokenTTL)

	secret := viper.GetString("jwt_secret")
	if secret == "" {
		secret = SecretKey
	}

	return &Config{
		Env: viper.GetString("app_env"),
		DB: DB{
			DatabaseURI: viper.GetString("database_uri"),
			Migrations:  viper.GetString("migrations_path"),
		},
		Server: Server{RunAddress: viper.GetString("run_address")},
		Logger: Logger{LogLevel: viper.GetString("log_level")},
		Auth: Auth{
			Secret:   secret,
			Issuer:   viper.GetString("jwt_issuer"),
			TokenTTL: viper.GetDuration("token_ttl"),
		},
		Admin: Admin{
			Email:    viper.GetString("admin_email"),
			Password: viper.GetString("admin_password"),
		},
	}
}

// InMemory - база не настроена, сервер работает без Postgres
func (c *Config) InMemory() bool {
	return c.DB.DatabaseURI == ""
}
