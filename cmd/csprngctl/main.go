// Command csprngctl is a small operator tool for exercising the pool
// engine from the command line: pulling random bytes and dumping usage
// counters; the workers subcommand also starts the module/service/mgr
// lifecycle to report its background workers.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ypcs/libgcrypt/module"
	"github.com/ypcs/libgcrypt/pool"
	"github.com/ypcs/libgcrypt/pool/source"
	"github.com/ypcs/libgcrypt/service/mgr"
)

var level string

func main() {
	pool.Default().SetSlowGatherer(source.OSRandom{})
	pool.Default().SetFastGatherer(&source.Tick{})

	root := &cobra.Command{
		Use:   "csprngctl",
		Short: "Drive the entropy pool from the command line",
	}
	root.PersistentFlags().StringVar(&level, "level", "strong",
		"quality level: weak, strong, or very-strong")

	root.AddCommand(randomCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(fastpollCmd())
	root.AddCommand(workersCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseLevel() (pool.Level, error) {
	switch level {
	case "weak":
		return pool.Weak, nil
	case "strong":
		return pool.Strong, nil
	case "very-strong":
		return pool.VeryStrong, nil
	default:
		return 0, fmt.Errorf("unknown level %q", level)
	}
}

func randomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "random <n>",
		Short: "Print n random bytes, hex-encoded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var n int
			if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil {
				return fmt.Errorf("invalid byte count %q: %w", args[0], err)
			}
			lvl, err := parseLevel()
			if err != nil {
				return err
			}
			buf := make([]byte, n)
			pool.Randomize(buf, lvl)
			fmt.Println(hex.EncodeToString(buf))
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print pool usage counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(pool.Default().Stats())
			return nil
		},
	}
}

func fastpollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fastpoll",
		Short: "Trigger a single fast poll",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool.FastPoll()
			return nil
		},
	}
}

func workersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workers",
		Short: "Start the module lifecycle briefly and report background worker status",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := mgr.New("csprngctl")
			rng, err := module.New(nil)
			if err != nil {
				return fmt.Errorf("starting module: %w", err)
			}
			if err := rng.Start(m); err != nil {
				return fmt.Errorf("starting module: %w", err)
			}
			defer func() { _ = rng.Stop(m) }()

			info, err := rng.WorkerInfo()
			if err != nil {
				return err
			}
			fmt.Print(info.Format())
			return nil
		},
	}
}
