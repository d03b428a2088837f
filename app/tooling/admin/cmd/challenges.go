package cmd

import (
	"encoding/json"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
	"github.com/ardanlabs/bounty/foundation/bounty/database/storage"
	"github.com/ardanlabs/bounty/foundation/bounty/genesis"
	"github.com/ardanlabs/bounty/foundation/bounty/state"
	"github.com/spf13/cobra"
)

var (
	dbPath     string
	genesisIn  string
	listStatus string
)

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "List the challenges held in a stopped node's store",
	RunE:  challengesRun,
}

func init() {
	rootCmd.AddCommand(challengesCmd)
	challengesCmd.Flags().StringVarP(&dbPath, "db", "d", "zbounty/batches/", "Path to the batch store.")
	challengesCmd.Flags().StringVarP(&genesisIn, "genesis", "g", "zbounty/genesis.json", "Path to the genesis file.")
	challengesCmd.Flags().StringVarP(&listStatus, "status", "s", state.StatusAll, "Only list active or completed challenges.")
}

type challengeView struct {
	Challenge  database.Challenge `json:"challenge"`
	Escrow     state.Escrow       `json:"escrow"`
	Submitters []string           `json:"submitters"`
}

func challengesRun(cmd *cobra.Command, args []string) error {
	gen, err := genesis.Load(genesisIn)
	if err != nil {
		return err
	}

	strg, err := storage.NewDisk(dbPath)
	if err != nil {
		return err
	}

	st, err := state.New(state.Config{
		Genesis: gen,
		Storage: strg,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	var views []challengeView
	for _, c := range st.QueryChallenges(state.ChallengeFilter{Status: listStatus}) {
		escrow, err := st.QueryEscrow(c.ChallengeID)
		if err != nil {
			return err
		}

		subs, err := st.QuerySubmissions(c.ChallengeID)
		if err != nil {
			return err
		}

		submitters := make([]string, len(subs))
		for i, sub := range subs {
			submitters[i] = string(sub.Submitter)
		}

		views = append(views, challengeView{Challenge: c, Escrow: escrow, Submitters: submitters})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(views)
}
