package session

import (
	"testing"

	"github.com/smartshelf/concierge/shelf/inventory"
)

func TestStateStage(t *testing.T) {
	t.Parallel()

	available := true

	cases := []struct {
		name  string
		state State
		want  Stage
	}{
		{"empty", State{}, StageEmpty},
		{"size only", State{PendingSize: inventory.SizeSmall}, StageSizeSet},
		{"owner set", State{PendingSize: inventory.SizeSmall, PendingOwner: "12"}, StageOwnerSet},
		{"awaiting confirmation", State{
			PendingSize:   inventory.SizeSmall,
			PendingOwner:  "12",
			SpotID:        "A1",
			SpotAvailable: &available,
		}, StageAwaitingConfirmation},
	}

	for _, tc := range cases {
		if got := tc.state.Stage(); got != tc.want {
			t.Fatalf("%s: Stage() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestStateEmpty(t *testing.T) {
	t.Parallel()

	if !(State{SessionID: DeskSessionID}).Empty() {
		t.Fatal("blank state not reported empty")
	}
	if (State{PendingOwner: "12"}).Empty() {
		t.Fatal("filled state reported empty")
	}
}
