// Package kmeans implements Hamerly's bounded k-means.
//
// The engine computes the exact partition Lloyd's algorithm would produce
// with the same initialization and center-update rule, but skips most
// point-to-center distance evaluations once clusters begin to stabilize. It
// keeps one upper bound per point (distance to the assigned center) and one
// lower bound (distance to the second-closest center), both maintained
// cheaply from center movements via the triangle inequality; a point is
// rescanned only when its bounds can no longer prove that no reassignment is
// possible.
//
// Ref Paper: Hamerly, "Making k-means even faster", SDM 2010.
package kmeans
