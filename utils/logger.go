package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func init() {
	// Keep the package usable before InitLogger runs (tests, init order).
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()
}

// InitLogger configures InfoLogger for stdout and ErrorLogger for stderr.
func InitLogger() {
	InitLoggerWithOutput(os.Stdout, os.Stderr, "info")
}

// InitLoggerWithOutput is InitLogger with explicit writers and level.
func InitLoggerWithOutput(info, errs io.Writer, level string) {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	InfoLogger.SetOutput(info)
	InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	ErrorLogger.SetOutput(errs)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	InfoLogger.SetLevel(lvl)
	// ErrorLogger drops anything below Error, so log to it with Errorf.
	ErrorLogger.SetLevel(logrus.ErrorLevel)
}
