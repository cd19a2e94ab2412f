package service

import (
	"testing"

	"github.com/GiovanniAiello/deck.gl/pkg/layer"
)

func testService() *LayerService {
	return NewLayerService(map[string]*layer.Descriptor{
		"scatterplot": {
			Name:         "scatterplot",
			DefaultProps: layer.Props{"opacity": 0.8, "visible": true},
			AccessorAttributes: map[string][]string{
				"getPosition": {"positions"},
				"getColor":    {"colors"},
			},
		},
	}, NewEventBus())
}

func TestCreateRunsFirstUpdateCycle(t *testing.T) {
	svc := testService()
	result, err := svc.Create("scatter-1", "scatterplot", layer.Props{"data": []any{1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if result.InstanceCount != 2 || !result.NeedsRerender {
		t.Fatalf("unexpected first-mount result %+v", result)
	}

	info, ok := svc.Get("scatter-1")
	if !ok {
		t.Fatal("created layer not found")
	}
	if info.Type != "scatterplot" || info.InstanceCount != 2 {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	svc := testService()
	if _, err := svc.Create("scatter-1", "scatterplot", layer.Props{}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create("scatter-1", "scatterplot", layer.Props{}); err == nil {
		t.Fatal("duplicate id accepted")
	}
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := testService()
	if _, err := svc.Create("x", "heatmap", layer.Props{}); err == nil {
		t.Fatal("unknown layer type accepted")
	}
}

func TestPatchMergesOverCurrentProps(t *testing.T) {
	svc := testService()
	data := []any{1, 2, 3}
	if _, err := svc.Create("scatter-1", "scatterplot", layer.Props{"data": data, "opacity": 0.5}); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Patch("scatter-1", layer.Props{"opacity": 0.9})
	if err != nil {
		t.Fatal(err)
	}
	// Data identity survives the patch: no attribute invalidation,
	// but the visual prop change forces a rerender.
	if len(result.InvalidatedAttributes) != 0 {
		t.Fatalf("patch invalidated %v", result.InvalidatedAttributes)
	}
	if !result.NeedsRerender {
		t.Fatal("opacity patch does not need rerender")
	}
	if result.InstanceCount != 3 {
		t.Fatalf("got count %d, want cached 3", result.InstanceCount)
	}
}

func TestUpdatePublishesEvent(t *testing.T) {
	bus := NewEventBus()
	svc := NewLayerService(map[string]*layer.Descriptor{
		"scatterplot": {
			Name:         "scatterplot",
			DefaultProps: layer.Props{"visible": true},
		},
	}, bus)

	ch := bus.Subscribe()
	defer bus.Unsubscribe(ch)

	if _, err := svc.Create("scatter-1", "scatterplot", layer.Props{"data": []any{1}}); err != nil {
		t.Fatal(err)
	}
	ev := <-ch
	if ev.Resource != "layers" || ev.Action != "created" || ev.ID != "scatter-1" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if !ev.NeedsRerender {
		t.Fatal("creation event does not need rerender")
	}

	if err := svc.Delete("scatter-1"); err != nil {
		t.Fatal(err)
	}
	ev = <-ch
	if ev.Action != "deleted" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestDeleteReleasesID(t *testing.T) {
	svc := testService()
	if _, err := svc.Create("scatter-1", "scatterplot", layer.Props{}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete("scatter-1"); err != nil {
		t.Fatal(err)
	}
	if _, ok := svc.Get("scatter-1"); ok {
		t.Fatal("deleted layer still listed")
	}
	if _, err := svc.Create("scatter-1", "scatterplot", layer.Props{}); err != nil {
		t.Fatalf("id not reusable after delete: %v", err)
	}
}
