package port

import (
	"context"

	"github.com/rl1809/order-service/internal/core/domain"
)

type InventoryClient interface {
	// CheckAvailability performs one batched lookup for the given SKU codes.
	// The returned facts cover only SKUs the inventory service recognizes and
	// carry no ordering guarantee relative to the input.
	CheckAvailability(ctx context.Context, skuCodes []string) ([]domain.InventoryFact, error)
}
