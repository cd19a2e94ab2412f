package proj

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Tile-pixel size of the mercator world at zoom 0. The world spans
// tileSize * 2^zoom screen pixels at a given zoom.
const tileSize = 512

// DefaultAltitude is the camera distance in screen heights used when a
// perspective viewport does not specify one.
const DefaultAltitude = 1.5

// ViewportConfig holds the camera parameters for a viewport snapshot.
type ViewportConfig struct {
	// Center is the geographic point at the middle of the viewport.
	Center orb.Point

	// Zoom is the mercator zoom level.
	Zoom float64

	// Width and Height are the viewport dimensions in CSS pixels.
	// Both must be positive.
	Width, Height int

	// DevicePixelRatio maps CSS pixels to device pixels. Zero or
	// negative means unknown and is treated as 1.
	DevicePixelRatio float64

	// Perspective enables the tilted camera model. When false, Pitch is
	// ignored and the projection is a flat top-down mapping.
	Perspective bool

	// Pitch is the camera tilt in degrees away from straight down.
	// Only meaningful when Perspective is set.
	Pitch float64

	// Bearing is the map rotation in degrees.
	Bearing float64

	// Altitude is the camera distance in screen heights. Zero means
	// DefaultAltitude.
	Altitude float64
}

// Viewport is an immutable camera snapshot. It derives the forward and
// inverse projection matrices once at construction, so concurrent reads
// from multiple layers during a frame are safe without locking. Build a
// new snapshot when camera parameters change rather than mutating one.
type Viewport struct {
	cfg        ViewportConfig
	scale      float64 // screen pixels per mercator meter
	centerMerc orb.Point

	projMat     Mat4
	invProjMat  Mat4
	flatMat     Mat4
	ground      mat3 // screen -> ground plane, tilted
	flatGround  mat3 // screen -> ground plane, tilt removed
}

// NewViewport builds a viewport snapshot. It returns a
// ConfigurationError when the dimensions are not positive.
func NewViewport(cfg ViewportConfig) (*Viewport, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, &ConfigurationError{Reason: "viewport dimensions must be positive"}
	}
	if cfg.DevicePixelRatio <= 0 {
		cfg.DevicePixelRatio = 1
	}
	if cfg.Altitude == 0 {
		cfg.Altitude = DefaultAltitude
	}

	v := &Viewport{
		cfg:        cfg,
		scale:      tileSize * math.Exp2(cfg.Zoom) / (2 * math.Pi * earthRadius),
		centerMerc: project.WGS84.ToMercator(cfg.Center),
	}

	w := float64(cfg.Width)
	h := float64(cfg.Height)
	bearingRad := cfg.Bearing / degreesPerRadian

	// Flat mapping: rotate by bearing, then move the origin to the
	// viewport center. Output keeps y up (bottom-left origin).
	v.flatMat = Translate(w/2, h/2, 0).Mul(RotateZ(bearingRad))

	if cfg.Perspective {
		dist := cfg.Altitude * h
		view := Translate(0, 0, -dist).
			Mul(RotateX(cfg.Pitch / degreesPerRadian)).
			Mul(RotateZ(bearingRad))
		persp := Perspective(2*math.Atan(1/(2*cfg.Altitude)), w/h, dist/10, dist*50)
		screen := Translate(w/2, h/2, 0).Mul(Scale(w/2, h/2, 1))
		v.projMat = screen.Mul(persp).Mul(view)
	} else {
		v.projMat = v.flatMat
	}

	inv, ok := v.projMat.Invert()
	if !ok {
		return nil, &ConfigurationError{Reason: "projection matrix is singular"}
	}
	v.invProjMat = inv

	ground, ok := groundHomography(v.projMat).invert()
	if !ok {
		return nil, &ConfigurationError{Reason: "ground-plane projection is singular"}
	}
	v.ground = ground

	flatGround, ok := groundHomography(v.flatMat).invert()
	if !ok {
		return nil, &ConfigurationError{Reason: "ground-plane projection is singular"}
	}
	v.flatGround = flatGround

	return v, nil
}

// Width returns the viewport width in CSS pixels.
func (v *Viewport) Width() int { return v.cfg.Width }

// Height returns the viewport height in CSS pixels.
func (v *Viewport) Height() int { return v.cfg.Height }

// DevicePixelRatio returns the CSS-to-device pixel ratio.
func (v *Viewport) DevicePixelRatio() float64 { return v.cfg.DevicePixelRatio }

// Zoom returns the mercator zoom level.
func (v *Viewport) Zoom() float64 { return v.cfg.Zoom }

// Center returns the geographic center.
func (v *Viewport) Center() orb.Point { return v.cfg.Center }

// ProjectionMatrix returns the forward matrix mapping world-centered
// mercator pixel coordinates to bottom-left-origin screen pixels.
func (v *Viewport) ProjectionMatrix() Mat4 { return v.projMat }

// InverseProjectionMatrix returns the inverse of ProjectionMatrix.
func (v *Viewport) InverseProjectionMatrix() Mat4 { return v.invProjMat }

// FlatProjectionMatrix returns the forward matrix with the tilt
// contribution removed. For non-perspective viewports it equals
// ProjectionMatrix.
func (v *Viewport) FlatProjectionMatrix() Mat4 { return v.flatMat }

// commonFromLngLat maps a geographic position to mercator pixel
// coordinates centered on the viewport, x east and y north. Altitude in
// meters is scaled like ground distances at the position's latitude.
func (v *Viewport) commonFromLngLat(p Position) Position {
	m := project.WGS84.ToMercator(p.Point())
	zScale := v.scale / math.Cos(p[1]/degreesPerRadian)
	return Position{
		(m.X() - v.centerMerc.X()) * v.scale,
		(m.Y() - v.centerMerc.Y()) * v.scale,
		p[2] * zScale,
	}
}

// lngLatFromCommon is the exact inverse of commonFromLngLat at ground
// level.
func (v *Viewport) lngLatFromCommon(x, y float64) Position {
	ll := project.Mercator.ToWGS84(orb.Point{
		v.centerMerc.X() + x/v.scale,
		v.centerMerc.Y() + y/v.scale,
	})
	return Position{ll.Lon(), ll.Lat(), 0}
}
