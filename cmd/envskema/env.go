package main

import (
	"strings"

	"github.com/spf13/cobra"

	envskema "github.com/reoring/envskema"
)

const masked = "****"

func (c *cli) envCmd() *cobra.Command {
	var (
		prefix string
		reveal bool
	)
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Print the environment snapshot a loader would read",
		Long: `Prints the current environment as a JSON object. Values are masked
unless --reveal is given, since they often hold secrets.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			snap := envskema.Environ(c.environ()).Keys()
			out := make(map[string]string, len(snap))
			for k, v := range snap {
				if !strings.HasPrefix(k, prefix) {
					continue
				}
				if !reveal {
					v = masked
				}
				out[k] = v
			}
			c.log.Debug().Str("prefix", prefix).Int("keys", len(out)).Bool("reveal", reveal).Msg("environment snapshot")
			return c.writeJSON(out)
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "only print keys starting with this prefix")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "print values instead of masking them")
	return cmd
}
