package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init пишет в stdout с уровнем info (удобно в тестах).
var Log = logrus.New()

// Init настраивает глобальный логгер.
// Вызывается один раз при старте приложения в main.go.
// Переменные LOG_LEVEL и LOG_FORMAT имеют приоритет над аргументами.
func Init(level, format string) {
	// 1. Уровень логирования. По умолчанию - "info".
	if env, ok := os.LookupEnv("LOG_LEVEL"); ok {
		level = env
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)

	// 2. Форматтер.
	// "json" - для продакшена и сбора логов.
	// "text" - для удобной разработки.
	if env, ok := os.LookupEnv("LOG_FORMAT"); ok {
		format = env
	}
	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	// 3. Куда писать логи.
	Log.SetOutput(os.Stdout)
}
