// Package partitionrun exposes the Run entrypoint behind `crlpart partition`:
// ingest, optional CEL filtering, optimization (through the plan store when
// enabled), diagnostics, and output encoding.
//
// Example:
//
//	opts := partitionrun.Options{Input: "records.txt", Name: "crlite", Config: config.Default()}
//	_ = partitionrun.Run(context.Background(), opts, os.Stdout)
package partitionrun
