package logger

import (
	"fmt"
	stdlog "log"
	"os"
	"path"
	"path/filepath"

	"github.com/op/go-logging"
)

// InitLogger creates a file-backed logger for the current process and
// returns it along with the path to the log file. The log file is named
// after the executable and appended to across runs, so an interrupted
// migration that gets restarted keeps a single history.
func InitLogger(logDir string, logLevel logging.Level) (*logging.Logger, string) {
	processName := path.Base(os.Args[0])
	filename := filepath.Join(logDir, fmt.Sprintf("%s.log", processName))
	writer, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open log file '%s': %v\n", filename, err)
		os.Exit(1)
	}
	log := logging.MustGetLogger(processName)
	format := logging.MustStringFormatter("[%{level}] %{message}")
	logging.SetFormatter(format)
	logging.SetLevel(logLevel, processName)
	logBackend := logging.NewLogBackend(writer, "", stdlog.LstdFlags|stdlog.LUTC)
	logging.SetBackend(logBackend)
	return log, filename
}

// DiscardLogger returns a logger that writes to /dev/null, for tests
// whose client constructors require one.
func DiscardLogger() *logging.Logger {
	log := logging.MustGetLogger("test")
	devnull, _ := os.OpenFile(os.DevNull, os.O_WRONLY, 0644)
	logging.SetBackend(logging.NewLogBackend(devnull, "", 0))
	return log
}
