package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"attendform/cmd/client/cmd/record"
	"attendform/internal/app/client"
	clientconfig "attendform/internal/app/client/config"
	"attendform/internal/config"
	"attendform/internal/utils/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
)

var (
	cfgFile    string
	cfgDir     string
	cfg        *config.Config
	log        *slog.Logger
	app        *client.App
	debug      bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "formctl",
	Short: "formctl - заполнение форм отсутствия и изменения отметки",
	Long: `formctl заполняет форму отсутствия (absence) или изменения отметки
посещаемости (change) из командной строки и сохраняет запись в то же
хранилище, что и сервер.

Повторный запуск с тем же --id восстанавливает сохраненную запись и
меняет только переданные поля.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if app != nil {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(_ *cobra.Command, _ []string) error {
	env := config.EnvLocal
	if cfg != nil {
		env = cfg.Env
	}
	// журнал мешает выводу команд, поэтому он только для --debug
	if debug {
		log = logger.New(env)
	} else {
		log = logger.Discard()
	}
	return nil
}

func setupApp(cmd *cobra.Command, args []string) error {
	v := viper.New()
	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("STORE_DRIVER", flags.Lookup("store")); err != nil {
		return err
	}
	if err := v.BindPFlag("SQLITE_PATH", flags.Lookup("db")); err != nil {
		return err
	}

	var err error
	cfg, err = clientconfig.Load(v, cfgFile, cfgDir)
	if err != nil {
		return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	if err := setupLogger(cmd, args); err != nil {
		return err
	}

	app, err = client.New(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	cmd.SetContext(client.WithApp(cmd.Context(), app))
	return nil
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	a, ok := client.FromContext(cmd.Context())
	if !ok {
		return nil, fmt.Errorf("приложение не инициализировано")
	}
	return a, nil
}

func printer(cmd *cobra.Command) *client.Printer {
	return client.NewPrinter(cmd.OutOrStdout(), jsonOutput)
}

func init() {
	// Глобальные флаги
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "конфигурационный файл")
	rootCmd.PersistentFlags().StringVar(&cfgDir, "dir", clientconfig.DefaultDir(), "директория конфигурации и локальной базы")
	rootCmd.PersistentFlags().String("store", "", "хранилище записей (memory, sqlite, postgres, redis)")
	rootCmd.PersistentFlags().String("db", "", "путь к базе sqlite")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "включить отладочный режим")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "вывод в формате JSON")

	rootCmd.AddCommand(absenceCmd, changeCmd, signatureCmd)
	rootCmd.AddCommand(record.RecordCmd)
}
