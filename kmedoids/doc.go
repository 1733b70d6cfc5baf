// Package kmedoids implements TRIKMEDS, a bounded k-medoids engine that
// computes the exact PAM-style solution — the configuration a brute-force
// "try every member as candidate medoid" search would find — while skipping
// most candidate evaluations through triangle-inequality bounds.
//
// Every cluster representative is a real dataset index, never a synthetic
// point, which is what makes k-medoids applicable to arbitrary metric data
// where means are meaningless. The price is a hard metric contract: the
// bounds are only valid for metrics that are subadditive and symmetric, so
// New refuses any metric that does not report both properties.
//
// The engine alternates two barrier-joined parallel phases: update-medoids
// (each point challenges its own cluster's medoid, guarded by lower bounds on
// its candidate energy) and assign-to-clusters (per-candidate lower bounds
// decayed by medoid movement gate the exact distance probes). Aggregated
// membership deltas then repair every point's energy bound without rescanning
// cluster membership.
//
// Ref Paper: Newling & Fleuret, "K-Medoids For K-Means Seeding", NIPS 2017.
package kmedoids
