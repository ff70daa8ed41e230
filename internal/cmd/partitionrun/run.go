package partitionrun

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	cfgpkg "github.com/rzbill/crlpart/internal/config"
	"github.com/rzbill/crlpart/internal/filter"
	"github.com/rzbill/crlpart/internal/ingest"
	"github.com/rzbill/crlpart/internal/planstore"
	"github.com/rzbill/crlpart/internal/report"
	"github.com/rzbill/crlpart/internal/runtime"
	logpkg "github.com/rzbill/crlpart/pkg/log"
)

// Options for a single partition run.
type Options struct {
	// Input is a record file path, "-" for stdin.
	Input string
	// Name identifies the dataset in the plan store.
	Name string
	// Where is an optional CEL filter applied before partitioning.
	Where string
	// Out is the output path; empty writes to stdout.
	Out string
	// MetricsTextfile, when set, receives Prometheus gauges for the plan.
	MetricsTextfile string
	Config          cfgpkg.Config
	Logger          logpkg.Logger
}

// Run reads records, filters them, computes (or loads) the plan, reports
// the diagnostics and writes the plan in Config.OutputFormat.
func Run(ctx context.Context, opts Options, stdout io.Writer) error {
	if opts.Input == "" {
		return errors.New("partition: input path is required")
	}
	if opts.Name == "" {
		opts.Name = "default"
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{}))
	}

	f, err := filter.Compile(opts.Where)
	if err != nil {
		return err
	}

	records, stats, err := ingest.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("read %s: %w", opts.Input, err)
	}
	logger.Info("records ingested",
		logpkg.Str("input", opts.Input),
		logpkg.Int("lines", stats.Lines),
		logpkg.Int("records", stats.Records),
		logpkg.Int("skipped", stats.Skipped),
	)
	if stats.Skipped > 0 {
		logger.Debug("malformed lines dropped", logpkg.Int("skipped", stats.Skipped))
	}

	if f.Enabled() {
		before := len(records)
		if records, err = f.Apply(records); err != nil {
			return err
		}
		logger.Info("records filtered", logpkg.Str("where", f.String()), logpkg.Int("kept", len(records)), logpkg.Int("dropped", before-len(records)))
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	rt, err := runtime.Open(runtime.Options{Config: opts.Config, Logger: logger})
	if err != nil {
		return err
	}
	defer rt.Close()

	plan, _, err := rt.Plan(opts.Name, records)
	if err != nil {
		return err
	}
	report.Log(logger, plan)

	if opts.MetricsTextfile != "" {
		if err := report.WriteTextfile(opts.MetricsTextfile, plan); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	out, err := Encode(plan, opts.Config.OutputFormat)
	if err != nil {
		return err
	}
	if opts.Out != "" {
		return os.WriteFile(opts.Out, out, 0o644)
	}
	_, err = stdout.Write(out)
	return err
}

// Encode renders a plan as text, json, or cbor.
func Encode(plan planstore.Plan, format string) ([]byte, error) {
	switch format {
	case "", "text":
		var b bytes.Buffer
		if err := report.WriteText(&b, plan); err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "The partition is %s of size %d\n", FormatBoundaries(plan.Boundaries), len(plan.Boundaries))
		return b.Bytes(), nil
	case "json":
		b, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case "cbor":
		return planstore.EncodeCBOR(plan)
	default:
		return nil, fmt.Errorf("unknown output format %q; use text|json|cbor", format)
	}
}

// FormatBoundaries renders boundaries as "[0, t1, t2]".
func FormatBoundaries(b []uint64) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
