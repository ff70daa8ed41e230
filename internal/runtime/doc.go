// Package runtime wires configuration, the plan store, and the optimizer
// into a single instance used by the CLI.
//
// Example:
//
//	cfg := config.Default()
//	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: logger})
//	if err != nil { /* handle */ }
//	defer rt.Close()
//	plan, cached, err := rt.Plan("crlite", records)
package runtime
