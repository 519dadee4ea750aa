// Package basil is an embeddable in-memory vector store.
//
// Collections hold fixed-dimension float32 vectors with optional flat
// metadata. Search is exact brute-force k-nearest-neighbour over a
// consistent snapshot of the collection, scored with cosine, euclidean
// or dot-product similarity.
//
//	client, _ := basil.New(basil.WithSeedData())
//	col, _ := client.Collections().Create(ctx, "docs", 3, basil.WithMetric(basil.Cosine))
//	_, _ = client.Vectors(col.ID).Insert(ctx, []basil.VectorInput{
//	    {ID: "a", Values: []float32{1, 0, 0}, Metadata: map[string]any{"lang": "go"}},
//	})
//	res, _ := client.Vectors(col.ID).Search().Vector([]float32{1, 0, 0}).TopK(5).Where("lang", "go").Do(ctx)
//
// Text queries need an Embedder (see WithEmbedder).
package basil
