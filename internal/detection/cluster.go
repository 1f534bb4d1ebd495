package detection

import "math"

// DefaultClusterRadius is the half-width of the square neighborhood used to
// group stroke endpoints.
const DefaultClusterRadius = 150.0

// Cluster is a fixed meeting point for stroke endpoints.
//
// The origin is the first endpoint that created the cluster. It never moves
// when later endpoints join.
type Cluster struct {
	Origin Point   `json:"origin"`
	Radius float64 `json:"radius"`
}

// Contains reports whether p lies within the cluster's square neighborhood.
// Both axes are tested independently, so the boundary is inclusive and the
// region is a square of side 2·Radius centered on Origin.
func (c Cluster) Contains(p Point) bool {
	return math.Abs(p.X-c.Origin.X) <= c.Radius &&
		math.Abs(p.Y-c.Origin.Y) <= c.Radius
}

// MergeEndpoint adds p to the cluster set.
//
// If any existing cluster contains p the set is returned unchanged; the
// first containing cluster absorbs the point and nothing is recorded.
// Otherwise a new cluster centered on p with the given radius is appended.
func MergeEndpoint(p Point, clusters []Cluster, radius float64) []Cluster {
	for _, c := range clusters {
		if c.Contains(p) {
			return clusters
		}
	}
	return append(clusters, Cluster{Origin: p, Radius: radius})
}

// MergeLineEndpoints merges a line's Start and then its End into clusters.
func MergeLineEndpoints(line Line, clusters []Cluster, radius float64) []Cluster {
	clusters = MergeEndpoint(line.Start, clusters, radius)
	return MergeEndpoint(line.End, clusters, radius)
}
