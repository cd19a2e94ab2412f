package editor

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/GiovanniAiello/deck.gl/internal/service"
	"github.com/GiovanniAiello/deck.gl/pkg/layer"
)

// LayerHandler applies visual prop changes bound to Datastar signals
// (opacity slider, visibility toggle) and reports the update outcome
// back as signals.
type LayerHandler struct {
	layerService *service.LayerService
}

func NewLayerHandler(layerService *service.LayerService) *LayerHandler {
	return &LayerHandler{layerService: layerService}
}

func (h *LayerHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/api/v1/editor/layers/{id}", h.PatchLayer, huma.OperationTags("editor"))
}

type patchLayerInput struct {
	ID string `path:"id" doc:"Layer instance id"`
	SignalsInput
}

func (h *LayerHandler) PatchLayer(ctx context.Context, input *patchLayerInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}

	patch := layer.Props{}
	if signals.Has("opacity") {
		patch[layer.PropOpacity] = signals.Float("opacity")
	}
	if signals.Has("visible") {
		patch[layer.PropVisible] = signals.Bool("visible")
	}
	if len(patch) == 0 {
		return nil, huma.Error400BadRequest("no layer props in signals")
	}

	id := input.ID
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := NewSSEContext(humaCtx)

			result, err := h.layerService.Patch(id, patch)
			if err != nil {
				sse.Error(err.Error())
				return
			}
			sse.Signals(map[string]any{
				"error":         "",
				"needsRerender": result.NeedsRerender,
				"instanceCount": result.InstanceCount,
			})
		},
	}, nil
}
