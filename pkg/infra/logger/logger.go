package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultDir        = "logs"
	fileBufferSize    = 32 * 1024
	fileQueueCapacity = 1000
)

type Options struct {
	// Component names the log file, e.g. "api" writes logs/api.log.
	Component string
	Level     string
	Dir       string
	// FileOutput disables the async file writer when false; lines then go to the console only.
	FileOutput bool
	Console    io.Writer
}

// New builds the process logger. The returned closer flushes the file writer.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "time",
			logrus.FieldKeyMsg:  "msg",
		},
	})
	logger.SetLevel(ParseLevel(opts.Level))

	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	if !opts.FileOutput {
		logger.SetOutput(console)
		return logger, nopCloser{}, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir
	}
	component := opts.Component
	if component == "" {
		component = "metaguard"
	}
	if strings.ContainsAny(component, `/\`) {
		return nil, nil, fmt.Errorf("invalid log component %q", component)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	writer, err := NewAsyncFileWriter(filepath.Join(dir, component+".log"), fileBufferSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize async log writer: %w", err)
	}
	logger.SetOutput(writer)
	logger.AddHook(NewConsoleHook(console))
	return logger, writer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ParseLevel maps LOG_LEVEL style values to a logrus level, defaulting to info.
func ParseLevel(level string) logrus.Level {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// ConsoleHook mirrors every entry to a console writer.
type ConsoleHook struct {
	out io.Writer
}

func NewConsoleHook(out io.Writer) *ConsoleHook {
	return &ConsoleHook{out: out}
}

func (h *ConsoleHook) Fire(entry *logrus.Entry) error {
	line, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.out.Write(line)
	return err
}

func (h *ConsoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
