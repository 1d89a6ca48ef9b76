package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Send one question and print the answer",
		Long: `Ask sends a single question and prints the answer on stdout.
Multiple arguments are joined with spaces.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}
	cmd.Flags().Bool("raw", false, "Print the raw JSON response instead of the answer")
	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	svc, err := newService(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	resp, err := svc.Query(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		fmt.Fprintln(cmd.OutOrStdout(), resp.Body)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.Answer)
	return nil
}
