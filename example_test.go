package clustergo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/clustergo"
	"github.com/hupe1980/clustergo/distance"
	"github.com/hupe1980/clustergo/kmeans"
	"github.com/hupe1980/clustergo/kmedoids"
)

func Example_kmeans() {
	ctx := context.Background()

	data, err := clustergo.NewSliceDataset([][]float64{
		{0, 0}, {0, 1}, {1, 0},
		{9, 9}, {9, 10}, {10, 9},
	})
	if err != nil {
		log.Fatal(err)
	}

	engine, err := kmeans.New(data, 2,
		kmeans.WithInitialCenters([][]float64{{0, 0}, {9, 9}}),
	)
	if err != nil {
		log.Fatal(err)
	}

	result, err := engine.Cluster(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("assignments:", result.Assignments)
	fmt.Printf("inertia: %.4f\n", result.Inertia)
	// Output:
	// assignments: [0 0 0 1 1 1]
	// inertia: 2.6667
}

func Example_kmedoids() {
	ctx := context.Background()

	data, err := clustergo.NewSliceDataset([][]float64{
		{0, 0}, {0, 1}, {1, 0},
		{9, 9}, {9, 10}, {10, 9},
	})
	if err != nil {
		log.Fatal(err)
	}

	engine, err := kmedoids.New(data, 2,
		kmedoids.WithMetric(distance.Manhattan{}),
		kmedoids.WithInitialMedoids([]int{0, 3}),
	)
	if err != nil {
		log.Fatal(err)
	}

	result, err := engine.Cluster(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("assignments:", result.Assignments)
	fmt.Println("medoids:", result.Medoids)
	fmt.Printf("cost: %.1f\n", result.Cost)
	// Output:
	// assignments: [0 0 0 1 1 1]
	// medoids: [0 3]
	// cost: 4.0
}

func Example_distanceCache() {
	ctx := context.Background()

	data, err := clustergo.NewSliceDataset([][]float64{
		{0, 0}, {3, 4}, {6, 8},
	})
	if err != nil {
		log.Fatal(err)
	}

	cache, err := distance.NewCache(ctx, data, distance.Euclidean{}, 2)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(cache.DistanceIdx(0, 1), cache.DistanceIdx(0, 2))
	// Output:
	// 5 10
}
