package log

import (
	"bufio"
	"fmt"
	"io"
	stdlog "log"
	"strings"
)

// Config declares how to build a Logger.
type Config struct {
	// Level is debug|info|warn|error (default info).
	Level string `json:"level" yaml:"level"`
	// Format is text|json (default text).
	Format string `json:"format" yaml:"format"`
	// Output is console|null or a file path (default console).
	Output string `json:"output" yaml:"output"`
}

// ApplyConfig builds a Logger from cfg.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var formatter Formatter
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}

	var output Output
	switch cfg.Output {
	case "", "console", "stderr":
		output = NewConsoleOutput()
	case "null", "none":
		output = NullOutput{}
	default:
		fo, err := NewFileOutput(cfg.Output)
		if err != nil {
			return nil, fmt.Errorf("log: open output: %w", err)
		}
		output = fo
	}

	return NewLogger(WithLevel(level), WithFormatter(formatter), WithOutput(output)), nil
}

// Close closes the outputs of l when it owns any, such as a log file opened
// by ApplyConfig.
func Close(l Logger) error {
	if c, ok := l.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// RedirectStdLog sends the standard library logger's output to l at info
// level, one entry per line.
func RedirectStdLog(l Logger) {
	stdlog.SetFlags(0)
	stdlog.SetPrefix("")
	stdlog.SetOutput(&stdWriter{logger: l.WithComponent("stdlog")})
}

type stdWriter struct {
	logger Logger
}

func (w *stdWriter) Write(p []byte) (int, error) {
	sc := bufio.NewScanner(strings.NewReader(string(p)))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			w.logger.Info(line)
		}
	}
	return len(p), nil
}
