package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It discards output until Init is called.
var Log = newDiscard()

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Init configures the global logger. An unknown level falls back to info;
// format "json" selects the JSON formatter and anything else the text one.
func Init(level, format string) {
	Log = New(os.Stdout, level, format)
}

// New builds a logger writing to out with the given level and format.
func New(out io.Writer, level, format string) *logrus.Logger {
	l := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	l.SetOutput(out)
	return l
}
