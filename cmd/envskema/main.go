// Command envskema inspects the inputs of an envskema configuration: it
// merges value files the way a loader would layer them and prints the
// environment snapshot a loader would see.
//
// Usage:
//
//	envskema merge base.yaml prod.yaml
//	envskema env --prefix APP_
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	j "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr, os.Environ))
}

// execute runs the root command and returns the process exit code. Errors
// are printed to stderr since the command itself silences them.
func execute(args []string, stdout, stderr io.Writer, environ func() []string) int {
	root := newRootCmd(stdout, stderr, environ)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "envskema:", err)
		return 1
	}
	return 0
}

type cli struct {
	out      io.Writer
	log      zerolog.Logger
	environ  func() []string
	logLevel string
	logJSON  bool
}

func newRootCmd(stdout, stderr io.Writer, environ func() []string) *cobra.Command {
	c := &cli{out: stdout, environ: environ}
	root := &cobra.Command{
		Use:           "envskema",
		Short:         "Inspect envskema configuration sources",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			lvl, err := zerolog.ParseLevel(strings.ToLower(c.logLevel))
			if err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", c.logLevel, err)
			}
			var w io.Writer = zerolog.ConsoleWriter{Out: stderr, NoColor: true}
			if c.logJSON {
				w = stderr
			}
			c.log = zerolog.New(w).Level(lvl).With().Timestamp().Str("role", "cli").Logger()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&c.logJSON, "log-json", false, "write logs as JSON instead of console text")

	root.AddCommand(c.mergeCmd(), c.envCmd())
	return root
}

// writeJSON prints v as indented JSON followed by a newline.
func (c *cli) writeJSON(v any) error {
	b, err := j.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(c.out, string(b))
	return err
}
