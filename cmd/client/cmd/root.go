package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"

	"studentadmin/cmd/client/cmd/auth"
	"studentadmin/cmd/client/cmd/export"
	"studentadmin/cmd/client/cmd/shell"
	"studentadmin/cmd/client/cmd/student"
	"studentadmin/cmd/client/cmd/types"
	"studentadmin/internal/app/client"
	"studentadmin/internal/app/client/config"
	"studentadmin/internal/utils/logger"
)

var (
	cfgFile   string
	debug     bool
	serverURL string
	app       *client.App
)

var rootCmd = &cobra.Command{
	Use:   "studentadmin",
	Short: "studentadmin - консоль администратора списка студентов",
	Long: `studentadmin управляет списком студентов на удаленном сервере:
просмотр, добавление, редактирование, удаление и выгрузка в CSV.

Сессия длится 15 минут с момента последнего использования токена,
после чего нужно снова выполнить вход.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		if app != nil {
			_ = app.Close()
		}
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	// Флаги командной строки важнее файла и окружения
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}

	log := logger.NewWithLevel(cfg.Env, level)

	app, err = client.New(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	cmd.SetContext(types.WithApp(cmd.Context(), app))
	log.Debug("клиент запущен", slog.String("server", cfg.ServerAddress), slog.String("data", cfg.DataPath))

	return nil
}

func closeApp(_ *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	err := app.Close()
	app = nil
	return err
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".studentadmin"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// Конфиг не найден, используем окружение и значения по умолчанию
	}

	return config.Load()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл (yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "адрес сервера")

	auth.AuthCmd.AddCommand(auth.LoginCmd, auth.LogoutCmd, auth.StatusCmd)
	student.StudentCmd.AddCommand(student.ListCmd, student.CreateCmd, student.EditCmd, student.DeleteCmd)

	rootCmd.AddCommand(auth.AuthCmd, student.StudentCmd, export.ExportCmd, shell.ShellCmd)
}
