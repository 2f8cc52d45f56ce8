package sdmgo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/sdmgo"
	"github.com/hupe1980/sdmgo/blobstore"
	"github.com/hupe1980/sdmgo/encoder"
)

func Example() {
	ctx := context.Background()

	// Thermometer codes are dense, so the radius is generous.
	db, err := sdmgo.New(64).
		Locations(200).
		Radius(48).
		RandomSeed(4711).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	enc := encoder.Scalar{Dim: 64, Min: -100, Max: 100}

	if _, err := db.Write(ctx, enc.Encode(21.5), 3); err != nil {
		log.Fatal(err)
	}

	result, err := db.Read(ctx, enc.Encode(21.5))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%.1f\n", enc.Decode(result.Vector))
	// Output: 20.6
}

func ExampleOpen() {
	ctx := context.Background()

	// A fresh device boots with the package defaults; a device that has
	// persisted a configuration resumes it.
	db, err := sdmgo.Open(ctx, blobstore.NewMemoryStore())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(db.Config().VectorDim)
	// Output: 128
}
