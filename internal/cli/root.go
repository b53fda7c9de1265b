package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCmd builds the promptcraft command tree.
func NewRootCmd(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promptcraft",
		Short: "Enhance prompts in bulk",
		Long: `Enhances every prompt in a CSV or JSON file with the batch engine and writes
one result per input record, in input order.

Engine settings come from the environment (or a .env file), the same as the server.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newFileCmd(logger, "csv"),
		newFileCmd(logger, "json"),
		newFileCmd(logger, ""),
	)

	return cmd
}
