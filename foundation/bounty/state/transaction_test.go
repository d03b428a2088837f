package state_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
	"github.com/ardanlabs/bounty/foundation/bounty/state"
)

func Test_SubmitTx(t *testing.T) {
	creator := newActor(t)
	alice := newActor(t)

	st, _ := newState(t, newClock(), map[database.AccountID]uint64{
		creator.id: 10_000_000,
		alice.id:   100_000,
	})

	var receipts []state.Receipt

	t.Log("Given the need to run operations from signed transactions.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the creator signs a create_challenge transaction.", testID)
		{
			tx := database.Tx{
				ChainID:      chainID,
				Nonce:        1,
				Op:           database.OpCreateChallenge,
				Title:        "Port the parser",
				Description:  "Port the parser and keep the error messages.",
				BountyAmount: 75_000,
				DeadlineDays: 5,
			}

			signedTx, err := tx.Sign(creator.pk)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sign the transaction: %v", failed, testID, err)
			}

			receipt, err := st.SubmitTx(signedTx)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to submit the transaction: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to submit the transaction.", success, testID)
			receipts = append(receipts, receipt)

			if receipt.Challenge == nil || receipt.Challenge.Creator != creator.id || receipt.From != creator.id {
				t.Fatalf("\t%s\tTest %d:\tShould credit the signer as creator: %+v", failed, testID, receipt)
			}
			t.Logf("\t%s\tTest %d:\tShould credit the signer as creator.", success, testID)

			if nonce := st.QueryAccount(creator.id).Nonce; nonce != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould store the nonce, got %d.", failed, testID, nonce)
			}
			t.Logf("\t%s\tTest %d:\tShould store the nonce.", success, testID)

			if _, err := st.SubmitTx(signedTx); !errors.Is(err, state.ErrNonceTooSmall) {
				t.Fatalf("\t%s\tTest %d:\tShould refuse a replayed transaction, got %v.", failed, testID, err)
			}
			if len(st.QueryChallenges(state.ChallengeFilter{})) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould not create a second challenge from a replay.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould refuse a replayed transaction.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen a signed operation fails.", testID)
		{
			tx := database.Tx{
				ChainID:     chainID,
				Nonce:       1,
				Op:          database.OpSelectWinner,
				ChallengeID: 0,
				ToID:        alice.id,
			}

			signedTx, err := tx.Sign(alice.pk)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sign the transaction: %v", failed, testID, err)
			}

			if _, err := st.SubmitTx(signedTx); !errors.Is(err, state.ErrUnauthorizedCreator) {
				t.Fatalf("\t%s\tTest %d:\tShould refuse a winner chosen by someone else, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould refuse a winner chosen by someone else.", success, testID)

			if nonce := st.QueryAccount(alice.id).Nonce; nonce != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould not store the nonce of a failed operation, got %d.", failed, testID, nonce)
			}
			t.Logf("\t%s\tTest %d:\tShould not store the nonce of a failed operation.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen a transaction is signed for another chain.", testID)
		{
			tx := database.Tx{
				ChainID:     chainID + 1,
				Nonce:       1,
				Op:          database.OpSubmitSolution,
				ChallengeID: 0,
				ProofURL:    "https://proof",
			}

			signedTx, err := tx.Sign(alice.pk)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sign the transaction: %v", failed, testID, err)
			}

			if _, err := st.SubmitTx(signedTx); !errors.Is(err, state.ErrWrongChain) {
				t.Fatalf("\t%s\tTest %d:\tShould refuse the transaction, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould refuse the transaction.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the signature was tampered with.", testID)
		{
			tx := database.Tx{
				ChainID:     chainID,
				Nonce:       1,
				Op:          database.OpSubmitSolution,
				ChallengeID: 0,
				ProofURL:    "https://proof",
			}

			signedTx, err := tx.Sign(alice.pk)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sign the transaction: %v", failed, testID, err)
			}
			signedTx.ProofURL = "https://someone-else"

			receipt, err := st.SubmitTx(signedTx)
			if err == nil && receipt.From == alice.id {
				t.Fatalf("\t%s\tTest %d:\tShould not attribute a tampered transaction to the signer.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not attribute a tampered transaction to the signer.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen alice signs submit_solution and transfer transactions.", testID)
		{
			txs := []database.Tx{
				{ChainID: chainID, Nonce: 1, Op: database.OpSubmitSolution, ChallengeID: 0, ProofURL: "https://github.com/alice/parser"},
				{ChainID: chainID, Nonce: 5, Op: database.OpTransfer, ToID: creator.id, Value: 1_000},
			}

			for _, tx := range txs {
				signedTx, err := tx.Sign(alice.pk)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to sign the transaction: %v", failed, testID, err)
				}

				receipt, err := st.SubmitTx(signedTx)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to submit %s: %v", failed, testID, tx.Op, err)
				}
				receipts = append(receipts, receipt)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to submit both transactions.", success, testID)

			if nonce := st.QueryAccount(alice.id).Nonce; nonce != 5 {
				t.Fatalf("\t%s\tTest %d:\tShould accept any larger nonce, got %d.", failed, testID, nonce)
			}
			t.Logf("\t%s\tTest %d:\tShould accept any larger nonce.", success, testID)

			exp := 100_000 - rent.MinimumBalance(database.SubmissionDataLen) - 1_000
			if balance := st.QueryAccount(alice.id).Balance; balance != exp {
				t.Fatalf("\t%s\tTest %d:\tShould charge the reserve and the transfer, got %d, exp %d.", failed, testID, balance, exp)
			}
			t.Logf("\t%s\tTest %d:\tShould charge the reserve and the transfer.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen a signed transaction asks to initialize again.", testID)
		{
			tx := database.Tx{ChainID: chainID, Nonce: 2, Op: database.OpInitialize}

			signedTx, err := tx.Sign(creator.pk)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sign the transaction: %v", failed, testID, err)
			}

			if _, err := st.SubmitTx(signedTx); !errors.Is(err, state.ErrAlreadyInitialized) {
				t.Fatalf("\t%s\tTest %d:\tShould refuse to initialize twice, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould refuse to initialize twice.", success, testID)
		}
	}

	ops := []database.Op{database.OpCreateChallenge, database.OpSubmitSolution, database.OpTransfer}
	for i, receipt := range receipts {
		if receipt.Op != ops[i] {
			t.Fatalf("\t%s\tShould return receipts in order, got %s, exp %s.", failed, receipt.Op, ops[i])
		}
	}
	t.Logf("\t%s\tShould return receipts in order.", success)
}
