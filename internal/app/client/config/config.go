package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"attendform/internal/config"

	"github.com/spf13/viper"
)

const (
	defaultConfigDir = ".attendform"
	configName       = "config"
	dbName           = "attendform.db"
)

// DefaultDir возвращает ~/.attendform, либо .attendform в текущей директории,
// если домашнюю определить не удалось
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultConfigDir
	}
	return filepath.Join(home, defaultConfigDir)
}

// Load собирает конфигурацию formctl.
//
// Порядок приоритета: флаги, привязанные к v, переменные окружения, файл
// конфигурации, значения по умолчанию. Если file пуст, config.yaml ищется в
// dir и в текущей директории; отсутствие файла не ошибка. Без явного
// STORE_DRIVER записи хранятся в sqlite внутри dir.
func Load(v *viper.Viper, file, dir string) (*config.Config, error) {
	if dir == "" {
		dir = DefaultDir()
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(dir)
		v.AddConfigPath(".")
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка чтения конфигурации: %w", err)
		}
	}

	v.AutomaticEnv()

	if !v.IsSet("STORE_DRIVER") {
		// Создаем директорию для локальной базы
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("ошибка создания директории конфигурации: %w", err)
		}
		v.Set("STORE_DRIVER", config.DriverSQLite)
		if !v.IsSet("SQLITE_PATH") {
			v.Set("SQLITE_PATH", filepath.Join(dir, dbName))
		}
	}

	return config.LoadFrom(v)
}
