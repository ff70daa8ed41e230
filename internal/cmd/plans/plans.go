// Package plans contains the Cobra commands for inspecting stored plans and
// for evaluating the cost model directly.
package plans

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/rzbill/crlpart/internal/cmd/partitionrun"
	cfgpkg "github.com/rzbill/crlpart/internal/config"
	"github.com/rzbill/crlpart/internal/partition"
	"github.com/rzbill/crlpart/internal/planstore"
	"github.com/rzbill/crlpart/internal/runtime"
	logpkg "github.com/rzbill/crlpart/pkg/log"
	"github.com/spf13/cobra"
)

// Env is the process configuration shared by commands.
type Env struct {
	Config cfgpkg.Config
	Logger logpkg.Logger
}

// EnvFunc resolves the Env once flags have been parsed.
type EnvFunc func() (Env, error)

// NewPlanCommand constructs the `plan` command group and subcommands.
func NewPlanCommand(env EnvFunc) *cobra.Command {
	planCmd := &cobra.Command{Use: "plan", Short: "Stored plan operations"}
	planCmd.AddCommand(
		newPlanListCommand(env),
		newPlanShowCommand(env),
		newPlanDeleteCommand(env),
	)
	return planCmd
}

// withRuntime opens a store-enabled runtime for the duration of fn.
func withRuntime(env EnvFunc, fn func(*runtime.Runtime) error) error {
	e, err := env()
	if err != nil {
		return err
	}
	cfg := e.Config
	cfg.UseStore = true
	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: e.Logger})
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()
	return fn(rt)
}

func newPlanListCommand(env EnvFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			return withRuntime(env, func(rt *runtime.Runtime) error {
				store, err := rt.Plans()
				if err != nil {
					return err
				}
				list, err := store.List(name)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tDIGEST\tCREATED\tRECORDS\tSEGMENTS\tCOST_BYTES\tUNPARTITIONED_BYTES")
				for _, p := range list {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
						p.Name, p.DigestHex(),
						time.UnixMilli(p.CreatedAtMs).UTC().Format(time.RFC3339),
						p.Records, len(p.Boundaries),
						p.Partitioned.Cost, p.Unpartitioned.Cost)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().String("name", "", "Only list plans for this dataset name")
	return cmd
}

func newPlanShowCommand(env EnvFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <digest>",
		Short: "Print a stored plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			format, _ := cmd.Flags().GetString("format")
			digest, err := planstore.ParseDigest(args[0])
			if err != nil {
				return err
			}
			return withRuntime(env, func(rt *runtime.Runtime) error {
				store, err := rt.Plans()
				if err != nil {
					return err
				}
				p, err := store.Get(name, digest)
				if err != nil {
					return err
				}
				out, err := partitionrun.Encode(p, format)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			})
		},
	}
	cmd.Flags().String("name", "default", "Dataset name")
	cmd.Flags().String("format", "json", "Output format: text|json|cbor")
	return cmd
}

func newPlanDeleteCommand(env EnvFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <digest>",
		Short: "Delete a stored plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			digest, err := planstore.ParseDigest(args[0])
			if err != nil {
				return err
			}
			return withRuntime(env, func(rt *runtime.Runtime) error {
				store, err := rt.Plans()
				if err != nil {
					return err
				}
				if err := store.Delete(name, digest); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s/%016x\n", name, digest)
				return nil
			})
		},
	}
	cmd.Flags().String("name", "default", "Dataset name")
	return cmd
}

// NewCostCommand constructs `cost <r> <n>`, which prints the cost model
// and lower bound for a single segment.
func NewCostCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cost <r> <n>",
		Short: "Estimate the encoded size of one segment with r of n revoked",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid r: %w", err)
			}
			n, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid n: %w", err)
			}
			bits, err := partition.Cost(r, n)
			if err != nil {
				return err
			}
			minority := min(r, n-r)
			var rank uint64
			if minority > 0 {
				rank = partition.Rank(minority, n)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bits=%d bytes=%d rank=%d lower_bound_bytes=%g\n",
				bits, bits.Bytes(), rank, partition.LowerBoundBytes(n, r))
			return nil
		},
	}
}
