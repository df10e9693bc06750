package main

import (
    "io"
    "runtime"

    "github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// Options holds CLI options shared by the subcommands.
type Options struct {
    ConfigPath   string
    ScenarioPath string
    Format       string
    // Serve keeps the metrics endpoint up after the replay finishes.
    Serve bool
}

// newRootCmd builds the command tree. out receives command output.
func newRootCmd(out io.Writer) *cobra.Command {
    var opts Options

    root := &cobra.Command{
        Use:   "hwmp-sim",
        Short: "Replay HWMP mesh events against a routing table",
        Long: `hwmp-sim drives an HWMP routing table with a scripted scenario on a
virtual clock and reports the forwarding decisions and route errors it
produces.

Examples:
  hwmp-sim run --scenario configs/two-hop.yaml
  hwmp-sim dump --scenario configs/two-hop.yaml --format cbor > table.cbor`,
        SilenceUsage:  true,
        SilenceErrors: true,
    }
    root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to YAML config file")
    root.PersistentFlags().StringVarP(&opts.ScenarioPath, "scenario", "s", "", "Scenario file (overrides sim.scenario)")

    runCmd := &cobra.Command{
        Use:   "run",
        Short: "Replay a scenario and print its report",
        RunE: func(cmd *cobra.Command, args []string) error {
            return runReplay(cmd.Context(), opts, out)
        },
    }
    runCmd.Flags().BoolVar(&opts.Serve, "serve", false, "Keep serving /metrics after the replay until interrupted")

    dumpCmd := &cobra.Command{
        Use:   "dump",
        Short: "Replay a scenario and write the final table",
        RunE: func(cmd *cobra.Command, args []string) error {
            return runDump(cmd.Context(), opts, out)
        },
    }
    dumpCmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Dump format: json, cbor or proto (overrides sim.dump_format)")

    versionCmd := &cobra.Command{
        Use:   "version",
        Short: "Print version information",
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, args []string) error {
            _, err := io.WriteString(out, "hwmp-sim "+version+" ("+runtime.Version()+")\n")
            return err
        },
    }

    root.AddCommand(runCmd, dumpCmd, versionCmd)
    return root
}
