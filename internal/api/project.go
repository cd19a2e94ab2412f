package api

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/paulmach/orb"

	"github.com/GiovanniAiello/deck.gl/pkg/proj"
)

// ViewportParams is the wire form of a viewport snapshot.
type ViewportParams struct {
	Lng              float64 `json:"lng" doc:"Viewport center longitude" example:"-122.45"`
	Lat              float64 `json:"lat" doc:"Viewport center latitude" example:"37.78"`
	Zoom             float64 `json:"zoom" minimum:"0" maximum:"24" doc:"Mercator zoom level" example:"12"`
	Width            int     `json:"width" required:"true" minimum:"1" doc:"Viewport width in CSS pixels" example:"800"`
	Height           int     `json:"height" required:"true" minimum:"1" doc:"Viewport height in CSS pixels" example:"600"`
	DevicePixelRatio float64 `json:"devicePixelRatio,omitempty" doc:"CSS-to-device pixel ratio, defaults to 1"`
	Perspective      bool    `json:"perspective,omitempty" doc:"Enable the tilted camera model"`
	Pitch            float64 `json:"pitch,omitempty" minimum:"0" maximum:"89" doc:"Camera tilt in degrees"`
	Bearing          float64 `json:"bearing,omitempty" doc:"Map rotation in degrees"`
}

func (p ViewportParams) build() (*proj.Viewport, error) {
	return proj.NewViewport(proj.ViewportConfig{
		Center:           orb.Point{p.Lng, p.Lat},
		Zoom:             p.Zoom,
		Width:            p.Width,
		Height:           p.Height,
		DevicePixelRatio: p.DevicePixelRatio,
		Perspective:      p.Perspective,
		Pitch:            p.Pitch,
		Bearing:          p.Bearing,
	})
}

// ProjectBody is a projection request.
type ProjectBody struct {
	Viewport         ViewportParams `json:"viewport" required:"true"`
	Position         []float64      `json:"position" required:"true" minItems:"2" maxItems:"3" doc:"Application-space position"`
	CoordinateSystem string         `json:"coordinateSystem,omitempty" enum:"LNGLAT,METER_OFFSETS" doc:"Input coordinate system, defaults to LNGLAT"`
	ProjectionCenter []float64      `json:"projectionCenter,omitempty" minItems:"2" maxItems:"2" doc:"Geographic center for METER_OFFSETS"`
	ModelMatrix      []float64      `json:"modelMatrix,omitempty" minItems:"16" maxItems:"16" doc:"Column-major 4x4 model matrix applied in projected space"`
	TopLeft          *bool          `json:"topLeft,omitempty" doc:"Top-left-origin output, defaults to true"`
	Flat             bool           `json:"flat,omitempty" doc:"Ignore the viewport's tilt contribution"`
}

// UnprojectBody is an inverse projection request.
type UnprojectBody struct {
	Viewport ViewportParams `json:"viewport" required:"true"`
	Position []float64      `json:"position" required:"true" minItems:"2" maxItems:"3" doc:"Screen-space position"`
	TopLeft  *bool          `json:"topLeft,omitempty" doc:"Top-left-origin input, defaults to true"`
	Flat     bool           `json:"flat,omitempty" doc:"Ignore the viewport's tilt contribution"`
}

type PositionBody struct {
	Position []float64 `json:"position" doc:"Resulting position"`
}

// RegisterProjection registers the projection routes.
func (h *APIHandler) RegisterProjection(api huma.API) {
	huma.Post(api, "/api/v1/project", h.Project, huma.OperationTags("projection"))
	huma.Post(api, "/api/v1/unproject", h.Unproject, huma.OperationTags("projection"))
}

func (h *APIHandler) Project(ctx context.Context, input *struct{ Body ProjectBody }) (*struct{ Body PositionBody }, error) {
	v, err := input.Body.Viewport.build()
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	cs, err := coordinateSystem(input.Body.CoordinateSystem, input.Body.ProjectionCenter)
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	var model *proj.Mat4
	if len(input.Body.ModelMatrix) == 16 {
		var m proj.Mat4
		copy(m[:], input.Body.ModelMatrix)
		model = &m
	}

	pos := toPosition(input.Body.Position)
	opts := &proj.Options{TopLeft: input.Body.TopLeft == nil || *input.Body.TopLeft}

	var out proj.Position
	if input.Body.Flat {
		out, err = proj.ProjectFlat(pos, v, cs, model, opts)
	} else {
		out, err = proj.Project(pos, v, cs, model, opts)
	}
	if err != nil {
		return projectionError(err)
	}
	return &struct{ Body PositionBody }{Body: PositionBody{Position: out[:]}}, nil
}

func (h *APIHandler) Unproject(ctx context.Context, input *struct{ Body UnprojectBody }) (*struct{ Body PositionBody }, error) {
	v, err := input.Body.Viewport.build()
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	pos := toPosition(input.Body.Position)
	opts := &proj.Options{TopLeft: input.Body.TopLeft == nil || *input.Body.TopLeft}

	var out proj.Position
	if input.Body.Flat {
		out, err = proj.UnprojectFlat(pos, v, opts)
	} else {
		out, err = proj.Unproject(pos, v, opts)
	}
	if err != nil {
		return projectionError(err)
	}
	return &struct{ Body PositionBody }{Body: PositionBody{Position: out[:]}}, nil
}

func coordinateSystem(name string, center []float64) (proj.CoordinateSystem, error) {
	kind := proj.KindLngLat
	if name == "METER_OFFSETS" {
		kind = proj.KindMeterOffsets
	}
	var centerPt *orb.Point
	if len(center) == 2 {
		centerPt = &orb.Point{center[0], center[1]}
	}
	return proj.NewCoordinateSystem(kind, centerPt)
}

func toPosition(p []float64) proj.Position {
	var out proj.Position
	copy(out[:], p)
	return out
}

// projectionError maps out-of-domain positions to 422 so callers can
// treat them as "not visible" rather than a client error.
func projectionError(err error) (*struct{ Body PositionBody }, error) {
	var projErr *proj.ProjectionError
	if errors.As(err, &projErr) {
		return nil, huma.Error422UnprocessableEntity(err.Error())
	}
	return nil, huma.Error400BadRequest(err.Error())
}
