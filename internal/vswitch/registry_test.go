package vswitch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	r, err := NewRegistry([]Definition{
		{ID: "lamp1", Name: "Living Room Lamp", Icon: "mdi:light-switch"},
		{ID: "fan_2", Name: "Bedroom Fan"},
	})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return r
}

func TestNewRegistry_InvalidDefinitions(t *testing.T) {
	tests := []struct {
		name    string
		defs    []Definition
		wantErr error
	}{
		{
			name:    "empty id",
			defs:    []Definition{{ID: "", Name: "Lamp"}},
			wantErr: ErrInvalidSwitchID,
		},
		{
			name:    "malformed id",
			defs:    []Definition{{ID: "lamp-1", Name: "Lamp"}},
			wantErr: ErrInvalidSwitchID,
		},
		{
			name: "duplicate ids",
			defs: []Definition{
				{ID: "lamp1", Name: "Lamp"},
				{ID: "lamp1", Name: "Other Lamp"},
			},
			wantErr: ErrDuplicateSwitchID,
		},
		{
			name:    "missing name",
			defs:    []Definition{{ID: "lamp1"}},
			wantErr: ErrInvalidDefinition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.defs)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewRegistry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	r := testRegistry(t)

	_, err := r.Get("unknown")
	if !errors.Is(err, ErrSwitchNotFound) {
		t.Errorf("Get() error = %v, want ErrSwitchNotFound", err)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	if _, err := r.SetAttributes(ctx, "lamp1", map[string]any{"a": 1}); err != nil {
		t.Fatalf("SetAttributes() error = %v", err)
	}

	got, err := r.Get("lamp1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got.Attributes["a"] = "mutated"

	fresh, _ := r.Get("lamp1")
	if fresh.Attributes["a"] == "mutated" {
		t.Error("mutating a returned state leaked into the registry")
	}
}

func TestList_DefinitionOrder(t *testing.T) {
	r := testRegistry(t)

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(list))
	}
	if list[0].ID != "lamp1" || list[1].ID != "fan_2" {
		t.Errorf("List() order = [%s, %s], want [lamp1, fan_2]", list[0].ID, list[1].ID)
	}
	if r.Count() != 2 {
		t.Errorf("Count() = %d, want 2", r.Count())
	}
}

func TestSetPower_StampsTimestamp(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	before, _ := r.Get("lamp1")
	if before.LastTriggeredAt != nil {
		t.Fatal("expected nil LastTriggeredAt before first trigger")
	}

	sw, err := r.SetPower(ctx, "lamp1", true)
	if err != nil {
		t.Fatalf("SetPower() error = %v", err)
	}
	if !sw.IsOn {
		t.Error("IsOn = false, want true")
	}
	if sw.LastTriggeredAt == nil {
		t.Fatal("LastTriggeredAt not stamped")
	}
	if sw.LastTriggeredAt.Location() != time.UTC {
		t.Errorf("LastTriggeredAt not UTC: %v", sw.LastTriggeredAt.Location())
	}
}

func TestSetPower_IdempotentStillStamps(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	first, err := r.SetPower(ctx, "lamp1", true)
	if err != nil {
		t.Fatalf("SetPower() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	second, err := r.SetPower(ctx, "lamp1", true)
	if err != nil {
		t.Fatalf("SetPower() error = %v", err)
	}
	if !second.IsOn {
		t.Error("repeated on: IsOn = false, want true")
	}
	if !second.LastTriggeredAt.After(*first.LastTriggeredAt) {
		t.Error("repeated on did not advance LastTriggeredAt")
	}
}

func TestOnOff_RoundTrip(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	original, _ := r.Get("lamp1")

	if _, err := r.SetPower(ctx, "lamp1", true); err != nil {
		t.Fatalf("SetPower(on) error = %v", err)
	}
	sw, err := r.SetPower(ctx, "lamp1", false)
	if err != nil {
		t.Fatalf("SetPower(off) error = %v", err)
	}

	if sw.IsOn != original.IsOn {
		t.Errorf("on then off: IsOn = %v, want original %v", sw.IsOn, original.IsOn)
	}
}

func TestToggle_TwiceReturnsToOriginal(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	original, _ := r.Get("lamp1")

	once, err := r.Toggle(ctx, "lamp1")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if once.IsOn == original.IsOn {
		t.Error("single toggle did not invert state")
	}

	twice, err := r.Toggle(ctx, "lamp1")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if twice.IsOn != original.IsOn {
		t.Errorf("double toggle: IsOn = %v, want original %v", twice.IsOn, original.IsOn)
	}
}

func TestSetAttributes_ReplacesWholesale(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	if _, err := r.SetAttributes(ctx, "lamp1", map[string]any{"a": 1}); err != nil {
		t.Fatalf("SetAttributes() error = %v", err)
	}
	sw, err := r.SetAttributes(ctx, "lamp1", map[string]any{"b": 2})
	if err != nil {
		t.Fatalf("SetAttributes() error = %v", err)
	}

	if _, ok := sw.Attributes["a"]; ok {
		t.Error("attributes were merged, want wholesale replacement")
	}
	if sw.Attributes["b"] != 2 {
		t.Errorf("Attributes[b] = %v, want 2", sw.Attributes["b"])
	}
}

func TestSetAttributes_DoesNotTouchPowerOrTimestamp(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	powered, _ := r.SetPower(ctx, "lamp1", true)

	sw, err := r.SetAttributes(ctx, "lamp1", map[string]any{"source": "sensor"})
	if err != nil {
		t.Fatalf("SetAttributes() error = %v", err)
	}

	if !sw.IsOn {
		t.Error("SetAttributes altered power flag")
	}
	if !sw.LastTriggeredAt.Equal(*powered.LastTriggeredAt) {
		t.Error("SetAttributes altered LastTriggeredAt")
	}
}

func TestApply_ActionAndAttributesAtomically(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	sw, err := r.Apply(ctx, "lamp1", ActionOn, map[string]any{"requested_by": "alarm"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if !sw.IsOn {
		t.Error("IsOn = false, want true")
	}
	if sw.Attributes["requested_by"] != "alarm" {
		t.Errorf("Attributes[requested_by] = %v, want alarm", sw.Attributes["requested_by"])
	}
}

func TestApply_InvalidAction(t *testing.T) {
	r := testRegistry(t)

	_, err := r.Apply(context.Background(), "lamp1", Action("bogus"), nil)
	if !errors.Is(err, ErrInvalidAction) {
		t.Errorf("Apply() error = %v, want ErrInvalidAction", err)
	}
}

func TestApply_NotFound(t *testing.T) {
	r := testRegistry(t)

	_, err := r.Apply(context.Background(), "unknown", ActionOn, nil)
	if !errors.Is(err, ErrSwitchNotFound) {
		t.Errorf("Apply() error = %v, want ErrSwitchNotFound", err)
	}
}

func TestApply_ConcurrentTogglesConsistent(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	// An even number of toggles must land back on the initial state,
	// whatever the interleaving.
	const workers = 8
	const togglesPerWorker = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < togglesPerWorker; j++ {
				if _, err := r.Toggle(ctx, "lamp1"); err != nil {
					t.Errorf("Toggle() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	sw, _ := r.Get("lamp1")
	if sw.IsOn {
		t.Errorf("after %d toggles: IsOn = true, want false", workers*togglesPerWorker)
	}
}

func TestSetOnChange_FiresOnMutationOnly(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	var mu sync.Mutex
	var events []string
	r.SetOnChange(func(s SwitchState) {
		mu.Lock()
		events = append(events, s.ID+":"+s.PowerString())
		mu.Unlock()
	})

	if _, err := r.SetPower(ctx, "lamp1", true); err != nil {
		t.Fatalf("SetPower() error = %v", err)
	}
	// Pure status reads do not fire change notifications.
	if _, err := r.Apply(ctx, "lamp1", ActionStatus, nil); err != nil {
		t.Fatalf("Apply(status) error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 || events[0] != "lamp1:on" {
		t.Errorf("events = %v, want [lamp1:on]", events)
	}
}

func TestAttributesSnapshot(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	sw, err := r.Apply(ctx, "lamp1", ActionOn, map[string]any{"scene": "movie"})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	snap := sw.AttributesSnapshot()
	if snap["switch_id"] != "lamp1" {
		t.Errorf("switch_id = %v, want lamp1", snap["switch_id"])
	}
	if _, ok := snap["last_triggered_at"].(string); !ok {
		t.Errorf("last_triggered_at missing or not a string: %v", snap["last_triggered_at"])
	}
	custom, ok := snap["custom_attributes"].(map[string]any)
	if !ok || custom["scene"] != "movie" {
		t.Errorf("custom_attributes = %v, want map with scene=movie", snap["custom_attributes"])
	}
}

func TestAttributesSnapshot_Untriggered(t *testing.T) {
	r := testRegistry(t)

	sw, _ := r.Get("fan_2")
	snap := sw.AttributesSnapshot()

	if snap["switch_id"] != "fan_2" {
		t.Errorf("switch_id = %v, want fan_2", snap["switch_id"])
	}
	if _, ok := snap["last_triggered_at"]; ok {
		t.Error("untriggered switch should not report last_triggered_at")
	}
	if _, ok := snap["custom_attributes"]; ok {
		t.Error("switch without custom attributes should not report custom_attributes")
	}
}

func TestRestore_SeedsPriorState(t *testing.T) {
	r := testRegistry(t)
	ts := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	r.SetStore(&fakeStore{
		snapshots: map[string]Snapshot{
			"lamp1": {
				IsOn:            true,
				LastTriggeredAt: &ts,
				Attributes:      map[string]any{"restored": true},
			},
			"removed_switch": {IsOn: true},
		},
	})

	if err := r.Restore(context.Background()); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	sw, _ := r.Get("lamp1")
	if !sw.IsOn {
		t.Error("restored switch should be on")
	}
	if sw.LastTriggeredAt == nil || !sw.LastTriggeredAt.Equal(ts) {
		t.Errorf("LastTriggeredAt = %v, want %v", sw.LastTriggeredAt, ts)
	}
	if sw.Attributes["restored"] != true {
		t.Errorf("Attributes = %v, want restored=true", sw.Attributes)
	}

	// Snapshot for an id no longer configured is ignored.
	if _, err := r.Get("removed_switch"); !errors.Is(err, ErrSwitchNotFound) {
		t.Error("unconfigured snapshot id must not create a switch")
	}
}

// fakeStore is an in-memory Store for registry tests.
type fakeStore struct {
	mu        sync.Mutex
	snapshots map[string]Snapshot
	saves     int
}

func (f *fakeStore) Load(context.Context) (map[string]Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshots, nil
}

func (f *fakeStore) Save(_ context.Context, state *SwitchState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshots == nil {
		f.snapshots = make(map[string]Snapshot)
	}
	f.snapshots[state.ID] = Snapshot{
		IsOn:            state.IsOn,
		LastTriggeredAt: state.LastTriggeredAt,
		Attributes:      state.Attributes,
	}
	f.saves++
	return nil
}

func TestApply_WritesThroughToStore(t *testing.T) {
	r := testRegistry(t)
	store := &fakeStore{}
	r.SetStore(store)

	if _, err := r.SetPower(context.Background(), "lamp1", true); err != nil {
		t.Fatalf("SetPower() error = %v", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.saves != 1 {
		t.Errorf("store saves = %d, want 1", store.saves)
	}
	if snap := store.snapshots["lamp1"]; !snap.IsOn {
		t.Error("persisted snapshot should be on")
	}
}
