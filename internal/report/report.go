package report

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rzbill/crlpart/internal/planstore"
	logpkg "github.com/rzbill/crlpart/pkg/log"
)

// Log emits the unpartitioned and partitioned (cost, lowerBound) pairs in bytes.
func Log(logger logpkg.Logger, p planstore.Plan) {
	logger.Info("unpartitioned (cost, lower_bound) in bytes",
		logpkg.Str("name", p.Name),
		logpkg.Uint64("cost_bytes", uint64(p.Unpartitioned.Cost)),
		logpkg.Float64("lower_bound_bytes", p.Unpartitioned.LowerBound),
	)
	logger.Info("partitioned (cost, lower_bound) in bytes",
		logpkg.Str("name", p.Name),
		logpkg.Uint64("cost_bytes", uint64(p.Partitioned.Cost)),
		logpkg.Float64("lower_bound_bytes", p.Partitioned.LowerBound),
		logpkg.Int("segments", len(p.Boundaries)),
	)
}

// WriteText prints the two diagnostic lines in the tool's human-readable form.
func WriteText(w io.Writer, p planstore.Plan) error {
	_, err := fmt.Fprintf(w,
		"Expected (cost, lower_bound) before partition is (%d, %g) bytes\n"+
			"Expected (cost, lower_bound) after partition is (%d, %g) bytes\n",
		p.Unpartitioned.Cost, p.Unpartitioned.LowerBound,
		p.Partitioned.Cost, p.Partitioned.LowerBound,
	)
	return err
}

// Registry returns a Prometheus registry holding gauges for p:
//
//	crlpart_cost_bytes{name,layout}
//	crlpart_lower_bound_bytes{name,layout}
//	crlpart_segments{name}
//	crlpart_records{name}
//
// layout is "unpartitioned" or "partitioned".
func Registry(p planstore.Plan) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()

	costBytes := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "crlpart",
		Name:      "cost_bytes",
		Help:      "Estimated encoded filter size in bytes by layout.",
	}, []string{"name", "layout"})
	lowerBound := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "crlpart",
		Name:      "lower_bound_bytes",
		Help:      "Entropy lower bound on encoded size in bytes by layout.",
	}, []string{"name", "layout"})
	segments := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "crlpart",
		Name:      "segments",
		Help:      "Number of segments in the chosen partition.",
	}, []string{"name"})
	records := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "crlpart",
		Name:      "records",
		Help:      "Number of input records partitioned.",
	}, []string{"name"})

	for _, c := range []prometheus.Collector{costBytes, lowerBound, segments, records} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	costBytes.WithLabelValues(p.Name, "unpartitioned").Set(float64(p.Unpartitioned.Cost))
	costBytes.WithLabelValues(p.Name, "partitioned").Set(float64(p.Partitioned.Cost))
	lowerBound.WithLabelValues(p.Name, "unpartitioned").Set(p.Unpartitioned.LowerBound)
	lowerBound.WithLabelValues(p.Name, "partitioned").Set(p.Partitioned.LowerBound)
	segments.WithLabelValues(p.Name).Set(float64(len(p.Boundaries)))
	records.WithLabelValues(p.Name).Set(float64(p.Records))
	return reg, nil
}

// WriteTextfile writes the gauges for p to path in the node_exporter
// textfile-collector format. The file is replaced atomically.
func WriteTextfile(path string, p planstore.Plan) error {
	reg, err := Registry(p)
	if err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, reg)
}
