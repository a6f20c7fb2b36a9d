package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	defaultServerAddress    = "http://localhost:5000"
	defaultLogLevel         = "info"
	defaultEnv              = EnvLocal
	defaultConfigDir        = ".studentadmin"
	defaultDataFile         = "client.db"
	defaultSessionTTL       = 15 * time.Minute
	defaultRequestTimeout   = 30 * time.Second
	defaultExportPath       = "student_details.csv"
	defaultExportDateLayout = "1/2/2006"
)

type Config struct {
	Env              string        `mapstructure:"app_env"`
	ServerAddress    string        `mapstructure:"server_address"`
	LogLevel         string        `mapstructure:"log_level"`
	ConfigDir        string        `mapstructure:"config_dir"`
	DataPath         string        `mapstructure:"data_path"`
	SessionTTL       time.Duration `mapstructure:"session_ttl"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	ExportPath       string        `mapstructure:"export_path"`
	ExportDateLayout string        `mapstructure:"export_date_layout"`
	ExportLegacy     bool          `mapstructure:"export_legacy"`
}

// MustLoad загружает конфигурацию клиента и паникует при ошибке
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}
	return cfg
}

// Load собирает конфигурацию из .env, переменных окружения и уже прочитанного viper файла.
// Флаги командной строки переопределяют результат уже после загрузки.
func Load() (*Config, error) {
	loadDotEnv()

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("SESSION_TTL", defaultSessionTTL)
	viper.SetDefault("REQUEST_TIMEOUT", defaultRequestTimeout)
	viper.SetDefault("EXPORT_PATH", defaultExportPath)
	viper.SetDefault("EXPORT_DATE_LAYOUT", defaultExportDateLayout)
	viper.SetDefault("EXPORT_LEGACY", false)

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		configDir = filepath.Join(homeDir, configDir)
	}

	dataPath := viper.GetString("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(configDir, defaultDataFile)
	}

	cfg := &Config{
		Env:              viper.GetString("APP_ENV"),
		ServerAddress:    normalizeAddress(viper.GetString("SERVER_ADDRESS")),
		LogLevel:         viper.GetString("LOG_LEVEL"),
		ConfigDir:        configDir,
		DataPath:         dataPath,
		SessionTTL:       viper.GetDuration("SESSION_TTL"),
		RequestTimeout:   viper.GetDuration("REQUEST_TIMEOUT"),
		ExportPath:       viper.GetString("EXPORT_PATH"),
		ExportDateLayout: viper.GetString("EXPORT_DATE_LAYOUT"),
		ExportLegacy:     viper.GetBool("EXPORT_LEGACY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// EnsureDirs создает директорию для локальной базы
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(filepath.Dir(c.DataPath), 0o700); err != nil {
		return fmt.Errorf("ошибка создания директории конфигурации: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return errors.New("server_address не может быть пустым")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl должен быть положительным, получено %s", c.SessionTTL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout должен быть положительным, получено %s", c.RequestTimeout)
	}
	return nil
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal || c.Env == ""
}

func loadDotEnv() {
	// .env ищем в текущей и родительской директории
	for _, envPath := range []string{".env", "../.env"} {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				fmt.Fprintf(os.Stderr, "Ошибка загрузки .env файла: %v\n", err)
			}
			return
		}
	}
}

func normalizeAddress(addr string) string {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	if addr == "" {
		return ""
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return addr
}
