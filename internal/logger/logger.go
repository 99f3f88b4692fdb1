package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New инициализирует логгер. Пустой level оставляет уровень по умолчанию для окружения, неизвестный
// уровень игнорируется с предупреждением.
func New(output io.Writer, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(output)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	l.SetLevel(logrus.InfoLevel)

	// перезаписываем ряд настроек для окружений отличных от продакшн
	if os.Getenv("GIN_MODE") != "release" {
		l.SetLevel(logrus.DebugLevel)
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if level == "" {
		return l
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.WithError(err).Warn("unknown log level, keeping default")
		return l
	}
	l.SetLevel(lvl)
	return l
}
