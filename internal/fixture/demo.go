// Package fixture seeds demo collections for local development and the in-process client.
package fixture

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	domcol "github.com/basil-labs/basil/internal/domain/collection"
	"github.com/basil-labs/basil/internal/logger"
	vectoruc "github.com/basil-labs/basil/internal/usecase/vector"
)

// Demo collection names.
const (
	ProductEmbeddings = "product-embeddings"
	UserPreferences   = "user-preferences"
)

// Fixed PCG seed so every run produces the same demo vectors.
const (
	seedHi = 0x62617369
	seedLo = 0x6c646d6f
)

// CollectionCreator creates collections.
type CollectionCreator interface {
	Create(ctx context.Context, name string, dimension int, metric string) (domcol.Collection, error)
}

// VectorInserter inserts vectors into a collection.
type VectorInserter interface {
	Insert(ctx context.Context, collectionID string, inputs []vectoruc.Input) (int, error)
}

type product struct {
	id, name, category, brand string
	price                     float64
}

var products = []product{
	{"vec_001", "Premium Wireless Headphones", "Electronics", "AudioTech", 299.99},
	{"vec_002", "Noise-Canceling Earbuds", "Electronics", "SoundWave", 199.99},
}

// Seed creates the demo collections and returns them in creation order.
func Seed(ctx context.Context, colls CollectionCreator, vecs VectorInserter) ([]domcol.Collection, error) {
	rng := rand.New(rand.NewPCG(seedHi, seedLo))

	catalog, err := colls.Create(ctx, ProductEmbeddings, 1536, "cosine")
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", ProductEmbeddings, err)
	}
	if _, err := vecs.Insert(ctx, catalog.ID(), productInputs(rng, catalog.Dimension())); err != nil {
		return nil, fmt.Errorf("seed %s: %w", ProductEmbeddings, err)
	}

	prefs, err := colls.Create(ctx, UserPreferences, 768, "cosine")
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", UserPreferences, err)
	}

	logger.FromContext(ctx).Info("Demo data seeded",
		zap.String("products_id", catalog.ID()),
		zap.String("preferences_id", prefs.ID()),
	)
	return []domcol.Collection{catalog, prefs}, nil
}

func productInputs(rng *rand.Rand, dim int) []vectoruc.Input {
	out := make([]vectoruc.Input, len(products))
	for i, p := range products {
		out[i] = vectoruc.Input{
			ID:     p.id,
			Values: randomVector(rng, dim),
			Metadata: map[string]any{
				"name":     p.name,
				"category": p.category,
				"price":    p.price,
				"brand":    p.brand,
			},
		}
	}
	return out
}

// randomVector draws each component uniformly from [-1, 1).
func randomVector(rng *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = rng.Float32()*2 - 1
	}
	return v
}
