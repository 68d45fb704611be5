package domain

// RoutePath is the renderable result of a road-routing computation: the
// path geometry connecting an ordered list of waypoints plus aggregate
// travel metrics. It is immutable output data and contains no side effects.
type RoutePath struct {
	Geometry        []Coordinate
	DistanceMeters  int
	DurationSeconds int
}
