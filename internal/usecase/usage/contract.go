package usage

import (
	"context"

	domusage "github.com/basil-labs/basil/internal/domain/usage"
)

// InventoryReader provides registry-wide totals.
type InventoryReader interface {
	Stats(ctx context.Context) (domusage.Inventory, error)
}
