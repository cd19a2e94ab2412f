// Package proj converts positions between geographic, meter-offset and
// screen coordinate spaces through an immutable viewport snapshot.
package proj

import (
	"math"

	"github.com/paulmach/orb"
)

// EPSG:3857 sphere radius in meters, matching orb's mercator projection.
const earthRadius = 6378137.0

const degreesPerRadian = 180 / math.Pi

// Position is an application-space position. For the LngLat coordinate
// system the components are (longitude, latitude, altitude in meters);
// for MeterOffsets they are metric displacement (dx, dy, dz) from the
// system's projection center. Projected positions are (x, y, depth) in
// screen pixels.
type Position [3]float64

// XY returns a Position with a zero third component.
func XY(x, y float64) Position {
	return Position{x, y, 0}
}

// LngLat converts an orb point to a Position at ground level.
func LngLat(p orb.Point) Position {
	return Position{p.Lon(), p.Lat(), 0}
}

// Point returns the first two components as an orb point.
func (p Position) Point() orb.Point {
	return orb.Point{p[0], p[1]}
}

// CoordinateSystemKind enumerates the supported input coordinate systems.
type CoordinateSystemKind uint8

const (
	// KindLngLat positions are geographic (longitude, latitude, altitude).
	KindLngLat CoordinateSystemKind = iota

	// KindMeterOffsets positions are metric displacements from a fixed
	// geographic projection center.
	KindMeterOffsets
)

// String returns a human-readable name for the kind.
func (k CoordinateSystemKind) String() string {
	switch k {
	case KindLngLat:
		return "LNGLAT"
	case KindMeterOffsets:
		return "METER_OFFSETS"
	default:
		return "unknown"
	}
}

// CoordinateSystem describes how application-space positions map to
// geographic coordinates. Construct one with NewLngLat, NewMeterOffsets
// or NewCoordinateSystem; the constructors enforce that a projection
// center is supplied exactly when the kind requires one, so projection
// itself never has to re-validate.
type CoordinateSystem struct {
	kind   CoordinateSystemKind
	center orb.Point
}

// NewLngLat returns the geographic coordinate system.
func NewLngLat() CoordinateSystem {
	return CoordinateSystem{kind: KindLngLat}
}

// NewMeterOffsets returns a meter-offset coordinate system anchored at
// the given geographic center.
func NewMeterOffsets(center orb.Point) CoordinateSystem {
	return CoordinateSystem{kind: KindMeterOffsets, center: center}
}

// NewCoordinateSystem builds a coordinate system from a kind and an
// optional projection center. It returns a ConfigurationError when the
// kind is KindMeterOffsets and no center is given.
func NewCoordinateSystem(kind CoordinateSystemKind, center *orb.Point) (CoordinateSystem, error) {
	switch kind {
	case KindLngLat:
		return NewLngLat(), nil
	case KindMeterOffsets:
		if center == nil {
			return CoordinateSystem{}, &ConfigurationError{Reason: "METER_OFFSETS requires a projection center"}
		}
		return NewMeterOffsets(*center), nil
	default:
		return CoordinateSystem{}, &ConfigurationError{Reason: "unknown coordinate system kind"}
	}
}

// Kind returns the coordinate system kind.
func (cs CoordinateSystem) Kind() CoordinateSystemKind {
	return cs.kind
}

// Center returns the projection center. Only meaningful for
// KindMeterOffsets.
func (cs CoordinateSystem) Center() orb.Point {
	return cs.center
}

// toLngLat maps an application-space position to a geographic one.
// Meter offsets use a flat small-offset approximation around the
// projection center.
func (cs CoordinateSystem) toLngLat(p Position) Position {
	if cs.kind != KindMeterOffsets {
		return p
	}
	latRad := cs.center.Lat() / degreesPerRadian
	lng := cs.center.Lon() + p[0]/(earthRadius*math.Cos(latRad))*degreesPerRadian
	lat := cs.center.Lat() + p[1]/earthRadius*degreesPerRadian
	return Position{lng, lat, p[2]}
}
