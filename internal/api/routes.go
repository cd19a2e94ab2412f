// Package api defines the Huma API routes and handlers.
package api

import (
	"context"
	"database/sql"

	"github.com/danielgtaylor/huma/v2"

	"github.com/GiovanniAiello/deck.gl/internal/db"
	"github.com/GiovanniAiello/deck.gl/internal/service"
	"github.com/GiovanniAiello/deck.gl/pkg/layer"
)

// Services holds the service dependencies for API handlers.
type Services struct {
	Layer *service.LayerService
	DB    *sql.DB // optional, enables query-backed layer data
}

// Types

type IDInput struct {
	ID string `path:"id" doc:"Layer instance id" example:"scatter-1"`
}

type LayerOutput struct {
	Body service.LayerInfo
}

type LayersOutput struct {
	Body map[string]service.LayerInfo
}

type MessageBody struct {
	Message string `json:"message" doc:"Result message"`
}

type CreateLayerBody struct {
	ID    string         `json:"id" required:"true" minLength:"1" doc:"Layer instance id, unique among live layers" example:"scatter-1"`
	Type  string         `json:"type" required:"true" minLength:"1" doc:"Layer type name" example:"scatterplot"`
	Props map[string]any `json:"props,omitempty" doc:"Initial layer props"`
}

type UpdateResultOutput struct {
	Body layer.UpdateResult
}

type BindDataBody struct {
	Query string `json:"query" required:"true" minLength:"1" doc:"SQL query whose rows become the layer's data" example:"SELECT lng, lat FROM points"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

type InfoBody struct {
	Name       string   `json:"name" doc:"Service name"`
	Version    string   `json:"version" doc:"Service version"`
	DB         bool     `json:"db" doc:"Whether query-backed layer data is available"`
	LayerTypes []string `json:"layerTypes" doc:"Registered layer type names"`
}

// APIHandler holds all REST API handlers.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterRoutes registers every REST route on the API.
func RegisterRoutes(api huma.API, svc *Services) {
	h := NewAPIHandler(svc)
	h.RegisterHealth(api)
	h.RegisterLayers(api)
	h.RegisterProjection(api)
}

// RegisterHealth registers health and info routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

// RegisterLayers registers layer instance routes.
func (h *APIHandler) RegisterLayers(api huma.API) {
	huma.Get(api, "/api/v1/layers", h.GetLayers, huma.OperationTags("layers"))
	huma.Post(api, "/api/v1/layers", h.CreateLayer, huma.OperationTags("layers"))
	huma.Get(api, "/api/v1/layers/{id}", h.GetLayer, huma.OperationTags("layers"))
	huma.Put(api, "/api/v1/layers/{id}", h.PutLayer, huma.OperationTags("layers"))
	huma.Post(api, "/api/v1/layers/{id}/data", h.BindLayerData, huma.OperationTags("layers"))
	huma.Delete(api, "/api/v1/layers/{id}", h.DeleteLayer, huma.OperationTags("layers"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *APIHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:       "deck",
		Version:    "0.1.0",
		DB:         h.svc.DB != nil,
		LayerTypes: h.svc.Layer.Types(),
	}}, nil
}

func (h *APIHandler) GetLayers(ctx context.Context, input *struct{}) (*LayersOutput, error) {
	return &LayersOutput{Body: h.svc.Layer.List()}, nil
}

func (h *APIHandler) CreateLayer(ctx context.Context, input *struct{ Body CreateLayerBody }) (*UpdateResultOutput, error) {
	result, err := h.svc.Layer.Create(input.Body.ID, input.Body.Type, layer.Props(input.Body.Props))
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &UpdateResultOutput{Body: *result}, nil
}

func (h *APIHandler) GetLayer(ctx context.Context, input *IDInput) (*LayerOutput, error) {
	info, ok := h.svc.Layer.Get(input.ID)
	if !ok {
		return nil, huma.Error404NotFound("layer not found")
	}
	return &LayerOutput{Body: info}, nil
}

func (h *APIHandler) PutLayer(ctx context.Context, input *struct {
	IDInput
	Body map[string]any
}) (*UpdateResultOutput, error) {
	result, err := h.svc.Layer.Update(input.ID, layer.Props(input.Body))
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &UpdateResultOutput{Body: *result}, nil
}

func (h *APIHandler) BindLayerData(ctx context.Context, input *struct {
	IDInput
	Body BindDataBody
}) (*UpdateResultOutput, error) {
	if h.svc.DB == nil {
		return nil, huma.Error503ServiceUnavailable("database not available")
	}
	seq := db.NewRowSequence(h.svc.DB, input.Body.Query)
	result, err := h.svc.Layer.BindData(input.ID, seq)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &UpdateResultOutput{Body: *result}, nil
}

func (h *APIHandler) DeleteLayer(ctx context.Context, input *IDInput) (*struct{ Body MessageBody }, error) {
	if err := h.svc.Layer.Delete(input.ID); err != nil {
		return nil, huma.Error404NotFound(err.Error())
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Layer deleted"}}, nil
}
