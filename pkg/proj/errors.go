package proj

import "fmt"

// ConfigurationError reports an invalid viewport or coordinate system
// configuration. It is raised at construction time, before any
// projection runs.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "proj: invalid configuration: " + e.Reason
}

// ProjectionError reports a position that falls outside the invertible
// domain of the projection, such as a screen point above the horizon of
// a tilted viewport. Callers typically treat these positions as not
// visible rather than failing.
type ProjectionError struct {
	Position Position
	Reason   string
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("proj: position [%g %g %g] not projectable: %s",
		e.Position[0], e.Position[1], e.Position[2], e.Reason)
}
