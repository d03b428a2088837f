package events_test

import (
	"encoding/json"
	"testing"

	"github.com/ardanlabs/bounty/foundation/events"
	"github.com/google/go-cmp/cmp"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Filter(t *testing.T) {
	evts := events.New()
	defer evts.Shutdown()

	seven := uint64(7)
	eight := uint64(8)

	all := evts.Acquire("all", events.Filter{})
	only := evts.Acquire("seven", events.Filter{ChallengeID: &seven})

	sent := []events.Event{
		{Kind: "log", Message: "node started"},
		{Kind: "create_challenge", ChallengeID: &seven, Message: "created 7"},
		{Kind: "create_challenge", ChallengeID: &eight, Message: "created 8"},
	}
	for _, e := range sent {
		evts.Send(e)
	}

	t.Log("Given the need to route events to interested subscribers.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen one subscriber filters on a challenge.", testID)
		{
			if len(all) != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould deliver every event without a filter, got %d.", failed, testID, len(all))
			}
			t.Logf("\t%s\tTest %d:\tShould deliver every event without a filter.", success, testID)

			if len(only) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould deliver one event with the filter, got %d.", failed, testID, len(only))
			}

			var got events.Event
			if err := json.Unmarshal(<-only, &got); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould decode the event: %v", failed, testID, err)
			}
			if diff := cmp.Diff(sent[1], got); diff != "" {
				t.Fatalf("\t%s\tTest %d:\tShould deliver the matching event, diff:\n%s", failed, testID, diff)
			}
			t.Logf("\t%s\tTest %d:\tShould deliver only the matching event.", success, testID)

			if err := evts.Release("seven"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould release the subscriber: %v", failed, testID, err)
			}
			if _, open := <-only; open {
				t.Fatalf("\t%s\tTest %d:\tShould close the released channel.", failed, testID)
			}
			if err := evts.Release("seven"); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould fail to release twice.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould release the subscriber once.", success, testID)
		}
	}
}
