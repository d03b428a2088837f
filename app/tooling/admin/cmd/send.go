package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	url string
	tx  database.Tx
	to  string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign an operation and submit it to the node",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	sendCmd.Flags().Uint16VarP(&tx.ChainID, "chain", "c", 1, "Chain id of the node.")
	sendCmd.Flags().Uint64VarP(&tx.Nonce, "nonce", "n", 0, "Nonce, must be larger than the last one used.")
	sendCmd.Flags().StringVarP((*string)(&tx.Op), "op", "o", string(database.OpTransfer), "create_challenge, submit_solution, select_winner or transfer.")
	sendCmd.Flags().Uint64VarP(&tx.ChallengeID, "challenge", "i", 0, "Challenge id for submit_solution and select_winner.")
	sendCmd.Flags().StringVar(&tx.Title, "title", "", "Title for create_challenge.")
	sendCmd.Flags().StringVar(&tx.Description, "description", "", "Description for create_challenge.")
	sendCmd.Flags().Uint64Var(&tx.BountyAmount, "bounty", 0, "Bounty for create_challenge.")
	sendCmd.Flags().Uint64Var(&tx.DeadlineDays, "days", 0, "Days until the deadline for create_challenge.")
	sendCmd.Flags().StringVar(&tx.ProofURL, "proof", "", "Proof url for submit_solution.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Winner for select_winner or receiver for transfer.")
	sendCmd.Flags().Uint64VarP(&tx.Value, "value", "v", 0, "Value for transfer.")
}

func sendRun(cmd *cobra.Command, args []string) error {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		return err
	}

	if to != "" {
		if tx.ToID, err = database.ToAccountID(to); err != nil {
			return fmt.Errorf("to: %w", err)
		}
	}

	signedTx, err := tx.Sign(privateKey)
	if err != nil {
		return err
	}

	data, err := json.Marshal(signedTx)
	if err != nil {
		return err
	}

	client := http.Client{Timeout: 10 * time.Second}

	resp, err := client.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", resp.Status, body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("node refused the transaction: %s", resp.Status)
	}

	return nil
}
