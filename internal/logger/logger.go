package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/shankarbhopany2-max/shankar-todo-application/config"
)

// New builds the application logger for the given environment. A non-empty
// level overrides the environment default.
func New(env, level string) *logrus.Entry {
	return newWithOutput(env, level, os.Stdout)
}

func newWithOutput(env, level string, out io.Writer) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(out)

	switch env {
	case config.EnvLocal:
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:   true,
			FullTimestamp: true,
		})
		log.SetLevel(logrus.DebugLevel)
	case config.EnvDev:
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
		log.SetLevel(logrus.InfoLevel)
	default:
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.WarnLevel)
	}

	if level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			log.SetLevel(lvl)
		} else {
			log.WithError(err).Warn("ignoring invalid LOG_LEVEL")
		}
	}

	return logrus.NewEntry(log)
}

// Discard returns a logger that drops everything; handy for tests.
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}
