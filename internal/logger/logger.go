package logger

import (
	"os"
	"payment-notify-relay/internal/config"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the process logger from the LOG_LEVEL / LOG_FORMAT settings.
// An unknown level falls back to info.
func New(cfg config.Log, environment string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if environment != "" {
		log.AddHook(staticFieldsHook{fields: logrus.Fields{"env": environment}})
	}

	return log
}

type staticFieldsHook struct {
	fields logrus.Fields
}

func (h staticFieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h staticFieldsHook) Fire(entry *logrus.Entry) error {
	for k, v := range h.fields {
		if _, ok := entry.Data[k]; !ok {
			entry.Data[k] = v
		}
	}
	return nil
}
