package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
	"github.com/ardanlabs/bounty/foundation/bounty/genesis"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	genesisPath    string
	genesisChainID uint16
	genesisBalance uint64
	perByteYear    uint64
	exemptionYears uint64
)

var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Write a genesis file funding every key under the account path",
	RunE:  genesisRun,
}

func init() {
	rootCmd.AddCommand(genesisCmd)
	genesisCmd.Flags().StringVarP(&genesisPath, "out", "o", "zbounty/genesis.json", "Path of the genesis file to write.")
	genesisCmd.Flags().Uint16VarP(&genesisChainID, "chain", "c", 1, "Chain id signed transactions must carry.")
	genesisCmd.Flags().Uint64VarP(&genesisBalance, "balance", "b", 10_000_000, "Starting balance of every account.")
	genesisCmd.Flags().Uint64Var(&perByteYear, "per-byte-year", 10, "Reserve charged per stored byte per year.")
	genesisCmd.Flags().Uint64Var(&exemptionYears, "exemption-years", 2, "Years of rent an account must hold.")
}

func genesisRun(cmd *cobra.Command, args []string) error {
	gen := genesis.Genesis{
		Date:    time.Now().UTC(),
		ChainID: genesisChainID,
		Rent: genesis.Rent{
			PerByteYear:    perByteYear,
			ExemptionYears: exemptionYears,
		},
		Balances: make(map[string]uint64),
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || filepath.Ext(fileName) != keyExtension {
			return nil
		}

		privateKey, err := crypto.LoadECDSA(fileName)
		if err != nil {
			return fmt.Errorf("load %s: %w", fileName, err)
		}

		gen.Balances[string(database.PublicKeyToAccountID(privateKey.PublicKey))] = genesisBalance
		return nil
	}

	if err := filepath.WalkDir(accountPath, fn); err != nil {
		return err
	}

	if err := genesis.Save(genesisPath, gen); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s with %d accounts\n", genesisPath, len(gen.Balances))
	return nil
}
