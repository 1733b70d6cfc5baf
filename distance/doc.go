// Package distance provides the metric capability objects consumed by the
// clustering engines.
//
// A Metric computes point-to-point distances and self-reports the two
// properties the bounded engines care about: subadditivity (the triangle
// inequality holds) and symmetry. The engines never probe these properties at
// runtime; they trust the capability report, so wrapping a custom function
// with NewFunc and over-claiming subadditivity silently produces wrong
// partitions, not crashes.
//
// For index-addressed workloads (k-medoids evaluates many point-to-point
// distances by dataset index) the package offers IndexedMetric, either
// computed on demand via Indexed or served from a precomputed pairwise Cache.
package distance
