// Package clustergo provides distance-accelerated exact partitional
// clustering for Go.
//
// Clustergo implements two bounded clustering engines that produce the exact
// same partition a brute-force nearest-center scan would, while skipping most
// point-to-center distance evaluations through triangle-inequality bounds:
//
//   - kmeans: Hamerly's bounded k-means (exact Lloyd's result)
//   - kmedoids: TRIKMEDS bounded k-medoids (exact PAM result)
//
// # Quick Start
//
//	ctx := context.Background()
//	data, _ := clustergo.NewMatrixDataset([]float64{
//		0, 0, 0, 1, 1, 0, // cluster around the origin
//		9, 9, 9, 10, 10, 9, // cluster around (9.5, 9.5)
//	}, 2)
//
//	km, _ := kmeans.New(data, 2)
//	result, _ := km.Cluster(ctx)
//	// result.Assignments[i] is the cluster of point i
//	// result.Centers[k] is the mean vector of cluster k
//
//	pam, _ := kmedoids.New(data, 2)
//	result2, _ := pam.Cluster(ctx)
//	// result2.Medoids[k] is a real dataset index, never a synthetic point
//
// # Metric contract
//
// Both engines rely on the triangle inequality to keep their bounds valid.
// Metrics self-report their properties via distance.Metric; the k-medoids
// engine refuses metrics that are not subadditive and symmetric, since an
// invalid bound produces wrong skips rather than crashes.
//
// The root package holds the pieces shared by every engine: the Dataset
// abstraction, error values, the slog-based Logger and the StatsCollector
// hook for observing how many exact distance evaluations the bounds avoided.
package clustergo
