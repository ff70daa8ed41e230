// Package report publishes the diagnostics of a partition plan: the
// estimated size of the whole input as one segment versus the chosen
// segmentation, each next to its entropy lower bound. Values go to the
// logger, to a text writer, or to a Prometheus textfile.
package report
