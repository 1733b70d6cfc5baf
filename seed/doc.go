// Package seed provides initial center/medoid selection for the clustering
// engines.
//
// Seeding is deliberately decoupled from the engines: both bounded algorithms
// reproduce the exact partition of their brute-force counterparts *given the
// same initialization*, so the Selector is the only source of run-to-run
// variation. Pass a seeded rand.Rand for reproducible clusterings.
package seed
