package layer

import (
	"slices"
	"testing"
)

func TestInvalidatedDataChangeInvalidatesAll(t *testing.T) {
	d := testDescriptor()
	report := &ChangeReport{
		ChangedProps:    map[string]struct{}{"data": {}},
		DataChanged:     true,
		ChangedTriggers: map[string]struct{}{"getColor": {}},
	}
	got := Invalidated(report, d)
	want := []string{"colors", "positions", "radii"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestInvalidatedTriggerCannotSuppressDataChange(t *testing.T) {
	d := testDescriptor()
	// Data identity changed while no trigger key did: triggers only
	// add invalidations, never suppress the full set.
	report := &ChangeReport{
		ChangedProps:    map[string]struct{}{"data": {}},
		DataChanged:     true,
		ChangedTriggers: map[string]struct{}{},
	}
	got := Invalidated(report, d)
	if len(got) != 3 {
		t.Fatalf("got %v, want all three attributes", got)
	}
}

func TestInvalidatedSingleTrigger(t *testing.T) {
	d := testDescriptor()
	report := &ChangeReport{
		ChangedProps:    map[string]struct{}{},
		ChangedTriggers: map[string]struct{}{"getColor": {}},
	}
	got := Invalidated(report, d)
	if !slices.Equal(got, []string{"colors"}) {
		t.Fatalf("got %v, want [colors]", got)
	}
}

func TestInvalidatedPropDependency(t *testing.T) {
	d := testDescriptor()
	report := &ChangeReport{
		ChangedProps:    map[string]struct{}{"radiusScale": {}},
		ChangedTriggers: map[string]struct{}{},
	}
	got := Invalidated(report, d)
	if !slices.Equal(got, []string{"radii"}) {
		t.Fatalf("got %v, want [radii]", got)
	}
}

func TestInvalidatedNothing(t *testing.T) {
	d := testDescriptor()
	report := &ChangeReport{
		ChangedProps:    map[string]struct{}{"opacity": {}},
		ChangedTriggers: map[string]struct{}{},
	}
	if got := Invalidated(report, d); len(got) != 0 {
		t.Fatalf("got %v, want none", got)
	}
}
