package tool

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/smartshelf/concierge/agent/contract"
	"github.com/smartshelf/concierge/shelf/inventory"
	"github.com/smartshelf/concierge/shelf/reservation"
	"github.com/smartshelf/concierge/shelf/session"
)

func newTestCatalog(t *testing.T) (*Catalog, *session.Tracker) {
	t.Helper()

	engine, err := reservation.NewEngine(inventory.NewMemoryStore())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	layout := inventory.Layout{Spots: []inventory.LayoutSpot{
		{SpotID: "A1", Size: "S", Location: "Lobby Left"},
		{SpotID: "B2", Size: "S", Location: "Back Hall"},
	}}
	if err := engine.Initialize(context.Background(), layout); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	tracker, err := session.NewTracker(session.NewMemoryStore())
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}

	catalog, err := NewCatalog(engine, tracker)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return catalog, tracker
}

func execute(t *testing.T, catalog *Catalog, name string, args map[string]any) contractx.ToolResult {
	t.Helper()
	res, err := catalog.Execute(context.Background(), contractx.ToolRequest{Tool: name, Args: args})
	if err != nil {
		t.Fatalf("Execute(%s) error = %v", name, err)
	}
	return res
}

func TestInfosForStorageAgent(t *testing.T) {
	t.Parallel()

	catalog, _ := newTestCatalog(t)
	infos := catalog.InfosFor(contractx.AgentTypeStorage)
	if len(infos) != 6 {
		t.Fatalf("storage agent tools = %d, want 6", len(infos))
	}

	names := map[string]bool{}
	for _, info := range infos {
		names[info.Function.Name] = true
	}
	if !names[ToolReserveSpot] || names[ToolReleasePackages] {
		t.Fatalf("wrong storage tool subset: %v", names)
	}
}

func TestInfosForRetrievalAgent(t *testing.T) {
	t.Parallel()

	catalog, _ := newTestCatalog(t)
	infos := catalog.InfosFor(contractx.AgentTypeRetrieval)
	if len(infos) != 5 {
		t.Fatalf("retrieval agent tools = %d, want 5", len(infos))
	}

	names := map[string]bool{}
	for _, info := range infos {
		names[info.Function.Name] = true
	}
	if !names[ToolReleasePackages] || names[ToolReserveSpot] {
		t.Fatalf("wrong retrieval tool subset: %v", names)
	}
}

func TestInfosForRouterEmpty(t *testing.T) {
	t.Parallel()

	catalog, _ := newTestCatalog(t)
	if infos := catalog.InfosFor(contractx.AgentTypeRouter); infos != nil {
		t.Fatalf("router has tools: %v", infos)
	}
}

func TestExecuteStorageFlow(t *testing.T) {
	t.Parallel()

	catalog, tracker := newTestCatalog(t)

	res := execute(t, catalog, ToolSetSize, map[string]any{"size": "S"})
	if res.Error != "" {
		t.Fatalf("set_size error: %s", res.Error)
	}

	execute(t, catalog, ToolSetApartment, map[string]any{"apartment": "3b"})

	res = execute(t, catalog, ToolFindAvailableSpots, map[string]any{"size": "S"})
	if res.Error != "" {
		t.Fatalf("find_available_spots error: %s", res.Error)
	}

	// The first candidate is mirrored into the session for the
	// confirmation turn.
	st, err := tracker.State(context.Background())
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if st.SpotID != "A1" || st.Stage() != session.StageAwaitingConfirmation {
		t.Fatalf("candidate not recorded: %+v", st)
	}

	res = execute(t, catalog, ToolReserveSpot, map[string]any{"spot_id": "A1", "apartment": "3B"})
	if res.Error != "" {
		t.Fatalf("reserve_spot error: %s", res.Error)
	}

	res = execute(t, catalog, ToolDeleteSession, nil)
	if res.Error != "" {
		t.Fatalf("delete_session error: %s", res.Error)
	}
	st, err = tracker.State(context.Background())
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if !st.Empty() {
		t.Fatalf("session survived delete: %+v", st)
	}
}

func TestExecuteDomainFailuresBecomeToolErrors(t *testing.T) {
	t.Parallel()

	catalog, _ := newTestCatalog(t)

	res := execute(t, catalog, ToolSetSize, map[string]any{"size": "XL"})
	if res.Error == "" {
		t.Fatal("invalid size did not surface as tool error")
	}

	res = execute(t, catalog, ToolReserveSpot, map[string]any{"spot_id": "Z9", "apartment": "12"})
	if res.Error == "" {
		t.Fatal("unknown spot did not surface as tool error")
	}

	execute(t, catalog, ToolReserveSpot, map[string]any{"spot_id": "A1", "apartment": "12"})
	res = execute(t, catalog, ToolReserveSpot, map[string]any{"spot_id": "A1", "apartment": "7C"})
	if res.Error == "" {
		t.Fatal("occupied spot did not surface as tool error")
	}

	res = execute(t, catalog, ToolReleasePackages, map[string]any{"apartment": "99"})
	if res.Error == "" {
		t.Fatal("empty release did not surface as tool error")
	}
}

func TestExecuteFindAvailableSpotsNoneFree(t *testing.T) {
	t.Parallel()

	catalog, tracker := newTestCatalog(t)

	execute(t, catalog, ToolReserveSpot, map[string]any{"spot_id": "A1", "apartment": "12"})
	execute(t, catalog, ToolReserveSpot, map[string]any{"spot_id": "B2", "apartment": "12"})

	res := execute(t, catalog, ToolFindAvailableSpots, map[string]any{"size": "S"})
	if res.Error != "" {
		t.Fatalf("find_available_spots error: %s", res.Error)
	}

	st, err := tracker.State(context.Background())
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if st.SpotAvailable == nil || *st.SpotAvailable {
		t.Fatalf("no-spot outcome not recorded: %+v", st)
	}
}

func TestExecuteReleaseFlow(t *testing.T) {
	t.Parallel()

	catalog, _ := newTestCatalog(t)

	execute(t, catalog, ToolReserveSpot, map[string]any{"spot_id": "A1", "apartment": "12"})
	execute(t, catalog, ToolReserveSpot, map[string]any{"spot_id": "B2", "apartment": "12"})

	res := execute(t, catalog, ToolFindPackages, map[string]any{"apartment": "12"})
	payload, ok := res.Result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected result type: %T", res.Result)
	}
	if payload["count"] != 2 {
		t.Fatalf("package count = %v, want 2", payload["count"])
	}

	res = execute(t, catalog, ToolReleasePackages, map[string]any{"apartment": "12"})
	if res.Error != "" {
		t.Fatalf("release_packages error: %s", res.Error)
	}

	res = execute(t, catalog, ToolFindPackages, map[string]any{"apartment": "12"})
	payload = res.Result.(map[string]any)
	if payload["count"] != 0 {
		t.Fatalf("package count after release = %v, want 0", payload["count"])
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	t.Parallel()

	catalog, _ := newTestCatalog(t)
	_, err := catalog.Execute(context.Background(), contractx.ToolRequest{Tool: "drop_tables"})
	if !errors.Is(err, contractx.ErrUnknownTool) {
		t.Fatalf("error = %v, want ErrUnknownTool", err)
	}
}
