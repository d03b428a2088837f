package cmd

import (
	"fmt"
	"strconv"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
	"github.com/spf13/cobra"
)

var escrowCmd = &cobra.Command{
	Use:   "escrow <challenge-id>",
	Short: "Derive the escrow account for a challenge",
	Args:  cobra.ExactArgs(1),
	RunE:  escrowRun,
}

func init() {
	rootCmd.AddCommand(escrowCmd)
}

func escrowRun(cmd *cobra.Command, args []string) error {
	challengeID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("challenge id: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), database.EscrowAccountID(challengeID))
	return nil
}
