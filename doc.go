// Package sdmgo provides an embedded sparse distributed memory (SDM)
// engine: an associative store that retrieves binary-sparse vectors by
// content similarity rather than exact address.
//
// A fixed pool of random hard locations holds signed counter arrays.
// Writing a vector reinforces every location within a Hamming radius;
// reading returns the distance-weighted majority vote together with a
// confidence score. State persists to a block-oriented store so learning
// survives restarts, and a benchmark harness searches the configuration
// space under a live free-memory ceiling.
//
// # Quick Start
//
// Build an engine with the fluent builder:
//
//	db, err := sdmgo.New(128).
//	    Locations(1000).
//	    Radius(20).
//	    Sparsity(0.03).
//	    Build()
//	if err != nil {
//	    panic(err)
//	}
//
//	activated, err := db.Write(ctx, vec, 1)
//	result, err := db.Read(ctx, vec)
//	fmt.Println(result.Confidence)
//
// Attach a block device for persistence and libraries:
//
//	bs, _ := blobstore.NewLocalStore("/mnt/sd")
//	db, err := sdmgo.New(128).
//	    Locations(1000).
//	    BlobStore(bs).
//	    Build()
//	defer db.Close(ctx)
//
//	loaded, err := db.LoadState(ctx)     // soft miss on fresh devices
//	n, err := db.MergeLibrary(ctx, "common_words")
//
// Or resume whatever configuration the device last persisted:
//
//	db, err := sdmgo.Open(ctx, bs)
//
// Domain values enter the bit-vector space through the encoder package
// (text multi-hash, scalar thermometer, segmented sequences), and the
// benchmark package sweeps (dimension, capacity, radius) grids to pick
// an operating configuration.
//
// The engine is single-threaded and cooperative: operations run to
// completion on the caller's goroutine, and only explicit persistence
// calls touch the block device.
package sdmgo
