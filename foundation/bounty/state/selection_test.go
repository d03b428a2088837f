package state_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/bounty/foundation/bounty/database"
	"github.com/ardanlabs/bounty/foundation/bounty/state"
	"github.com/google/go-cmp/cmp"
)

func Test_SelectWinnerAuthorization(t *testing.T) {
	creator := newActor(t)
	mallory := newActor(t)

	st, _ := newState(t, newClock(), map[database.AccountID]uint64{
		creator.id: 10_000_000,
		mallory.id: 100_000,
	})

	t.Log("Given the need to let only the creator close a challenge.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen someone else names themselves winner.", testID)
		{
			challenge, err := st.CreateChallenge(creator.id, validChallenge())
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create the challenge: %v", failed, testID, err)
			}

			escrow, _ := st.QueryEscrow(challenge.ChallengeID)

			_, err = st.SelectWinner(mallory.id, challenge.ChallengeID, mallory.id)
			if !errors.Is(err, state.ErrUnauthorizedCreator) {
				t.Fatalf("\t%s\tTest %d:\tShould fail with ErrUnauthorizedCreator, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould fail with ErrUnauthorizedCreator.", success, testID)

			after, _ := st.QueryChallenge(challenge.ChallengeID)
			if diff := cmp.Diff(challenge, after); diff != "" {
				t.Fatalf("\t%s\tTest %d:\tShould leave the challenge unchanged, diff:\n%s", failed, testID, diff)
			}

			escrowAfter, _ := st.QueryEscrow(challenge.ChallengeID)
			if diff := cmp.Diff(escrow, escrowAfter); diff != "" {
				t.Fatalf("\t%s\tTest %d:\tShould leave the escrow unchanged, diff:\n%s", failed, testID, diff)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the challenge and escrow unchanged.", success, testID)

			if _, err := st.SelectWinner(creator.id, challenge.ChallengeID, "not-an-account"); !errors.Is(err, database.ErrInvalidAccount) {
				t.Fatalf("\t%s\tTest %d:\tShould reject a malformed winner, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a malformed winner.", success, testID)

			if _, err := st.SelectWinner(creator.id, 42, mallory.id); !errors.Is(err, state.ErrChallengeNotFound) {
				t.Fatalf("\t%s\tTest %d:\tShould report an unknown challenge, got %v.", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould report an unknown challenge.", success, testID)
		}
	}
}

func Test_SelectWinnerPayout(t *testing.T) {
	creator := newActor(t)
	donor := newActor(t)
	winner := newActor(t)

	clk := newClock()
	st, _ := newState(t, clk, map[database.AccountID]uint64{
		creator.id: 10_000_000,
		donor.id:   100_000,
	})

	t.Log("Given the need to pay out everything spendable in escrow.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the escrow received extra funds and the deadline passed.", testID)
		{
			challenge, err := st.CreateChallenge(creator.id, validChallenge())
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create the challenge: %v", failed, testID, err)
			}

			if err := st.Transfer(donor.id, challenge.EscrowID(), 2_500); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to send extra funds to escrow: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to send extra funds to escrow.", success, testID)

			clk.Set(time.Unix(challenge.Deadline, 0).Add(24 * time.Hour))

			receipt, err := st.SelectWinner(creator.id, challenge.ChallengeID, winner.id)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould select a winner after the deadline: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould select a winner after the deadline.", success, testID)

			exp := challenge.BountyAmount + 2_500
			if receipt.Amount != exp || st.QueryAccount(winner.id).Balance != exp {
				t.Fatalf("\t%s\tTest %d:\tShould pay bounty plus extra, got %d, exp %d.", failed, testID, receipt.Amount, exp)
			}
			t.Logf("\t%s\tTest %d:\tShould pay bounty plus extra to a winner who never submitted.", success, testID)

			if escrow, _ := st.QueryEscrow(challenge.ChallengeID); escrow.Balance != rent.MinimumBalance(database.ChallengeDataLen) {
				t.Fatalf("\t%s\tTest %d:\tShould keep the reserve in escrow, got %d.", failed, testID, escrow.Balance)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the reserve in escrow.", success, testID)

			checkInvariants(t, st, testID)
		}
	}
}
