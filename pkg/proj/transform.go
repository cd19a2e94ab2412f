package proj

// Options controls the output space of Project and the input space of
// Unproject. A nil *Options means TopLeft true, the default.
type Options struct {
	// TopLeft selects top-left-origin screen pixel coordinates. When
	// false the output keeps bottom-left-origin clip-like coordinates.
	TopLeft bool
}

func topLeft(opts *Options) bool {
	if opts == nil {
		return true
	}
	return opts.TopLeft
}

// Project maps an application-space position to screen space.
//
// The pipeline runs in a fixed order: the coordinate system maps the
// position to geographic space (meter offsets use a flat small-offset
// approximation around the projection center), the viewport's nonlinear
// mercator projection maps it to world pixel coordinates, the model
// matrix - if any - is applied in that already-projected space, and the
// viewport's linear matrix produces screen pixels. With TopLeft (the
// default) the vertical axis is flipped to a top-left origin.
func Project(pos Position, v *Viewport, cs CoordinateSystem, modelMatrix *Mat4, opts *Options) (Position, error) {
	return projectWith(v.projMat, pos, v, cs, modelMatrix, opts)
}

// ProjectFlat is Project with the viewport's tilt contribution removed,
// as if the camera had no pitch. Use it for screen-space distances that
// should not depend on viewing angle.
func ProjectFlat(pos Position, v *Viewport, cs CoordinateSystem, modelMatrix *Mat4, opts *Options) (Position, error) {
	return projectWith(v.flatMat, pos, v, cs, modelMatrix, opts)
}

func projectWith(m Mat4, pos Position, v *Viewport, cs CoordinateSystem, modelMatrix *Mat4, opts *Options) (Position, error) {
	common := v.commonFromLngLat(cs.toLngLat(pos))
	if modelMatrix != nil {
		out, ok := modelMatrix.Transform(common)
		if !ok {
			return Position{}, &ProjectionError{Position: pos, Reason: "model matrix places position at w <= 0"}
		}
		common = out
	}
	out, ok := m.Transform(common)
	if !ok {
		return Position{}, &ProjectionError{Position: pos, Reason: "position is behind the camera"}
	}
	if topLeft(opts) {
		out[1] = float64(v.Height()) - out[1]
	}
	return out, nil
}

// Unproject maps a screen-space position back to a geographic position
// on the ground plane. It is the exact inverse of Project for the
// LngLat coordinate system without a model matrix. Screen points
// outside the invertible domain - above the horizon of a tilted
// viewport - produce a ProjectionError rather than a clamped result.
func Unproject(pos Position, v *Viewport, opts *Options) (Position, error) {
	return unprojectWith(v.ground, pos, v, opts)
}

// UnprojectFlat is Unproject against the tilt-free projection used by
// ProjectFlat.
func UnprojectFlat(pos Position, v *Viewport, opts *Options) (Position, error) {
	return unprojectWith(v.flatGround, pos, v, opts)
}

func unprojectWith(ground mat3, pos Position, v *Viewport, opts *Options) (Position, error) {
	y := pos[1]
	if topLeft(opts) {
		y = float64(v.Height()) - y
	}
	gx, gy, gw := ground.transform(pos[0], y)
	if gw <= 0 {
		return Position{}, &ProjectionError{Position: pos, Reason: "outside the invertible domain"}
	}
	return v.lngLatFromCommon(gx/gw, gy/gw), nil
}

// ScaleToDevicePixels converts CSS pixels to device pixels. A zero or
// negative ratio means the environment did not provide one and is
// treated as 1.
func ScaleToDevicePixels(pixels, devicePixelRatio float64) float64 {
	if devicePixelRatio <= 0 {
		devicePixelRatio = 1
	}
	return pixels * devicePixelRatio
}
