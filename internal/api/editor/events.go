package editor

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/GiovanniAiello/deck.gl/internal/service"
)

// EventHandler streams layer change events to connected viewers via
// SSE, so they learn when a redraw is needed without polling.
type EventHandler struct {
	bus *service.EventBus
}

// NewEventHandler creates a new event handler over the given bus.
func NewEventHandler(bus *service.EventBus) *EventHandler {
	return &EventHandler{bus: bus}
}

func (h *EventHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/editor/events", h.Events,
		huma.OperationTags("editor"),
	)
}

func (h *EventHandler) Events(ctx context.Context, input *EmptyInput) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := NewSSEContext(humaCtx)
			ch := h.bus.Subscribe()
			defer h.bus.Unsubscribe(ch)

			for {
				select {
				case <-ctx.Done():
					return
				case ev := <-ch:
					sse.Signals(map[string]any{
						"resource":      ev.Resource,
						"action":        ev.Action,
						"id":            ev.ID,
						"needsRerender": ev.NeedsRerender,
					})
				}
			}
		},
	}, nil
}
