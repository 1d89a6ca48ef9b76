package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			creds, err := cfg.ResolveCredentials()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration is valid")
			fmt.Fprintf(out, "  endpoint:    %s\n", cfg.URL())
			fmt.Fprintf(out, "  timeout:     %s\n", cfg.Timeout)
			fmt.Fprintf(out, "  credentials: %s\n", creds)
			return nil
		},
	}
}
