// Package logutil builds the go-logging loggers used by the jillion
// commands and server.
package logutil

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/pkg/errors"
	"github.com/shenwei356/go-logging"
)

// Format is the log line layout.
const Format = `%{time:15:04:05.000} [%{level:.4s}] %{message}`

var logFormat = logging.MustStringFormatter(Format)

// New returns a logger for module writing to w, or to stderr when w is
// nil. Verbose loggers emit INFO and above, the others only warnings and
// errors.
func New(module string, w io.Writer, verbose bool) *logging.Logger {
	if w == nil {
		w = colorable.NewColorableStderr()
	}

	leveled := logging.AddModuleLevel(formatted(w))
	leveled.SetLevel(level(verbose), "")

	log := logging.MustGetLogger(module)
	log.SetBackend(leveled)
	return log
}

// ToFile makes log write everything from INFO up to file, and keeps
// writing to stderr when verbose. The caller closes the returned file.
func ToFile(log *logging.Logger, file string, verbose bool) (*os.File, error) {
	fh, err := os.Create(file)
	if err != nil {
		return nil, errors.Wrap(err, "create log file")
	}

	backends := []logging.Backend{formatted(fh)}
	if verbose {
		backends = append(backends, formatted(colorable.NewColorableStderr()))
	}
	leveled := logging.MultiLogger(backends...)
	leveled.SetLevel(logging.INFO, "")
	log.SetBackend(leveled)
	return fh, nil
}

func formatted(w io.Writer) logging.Backend {
	return logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), logFormat)
}

func level(verbose bool) logging.Level {
	if verbose {
		return logging.INFO
	}
	return logging.WARNING
}
