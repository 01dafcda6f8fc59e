package domain

// InventoryFact is one inventory-service assertion about a SKU at query time.
// Facts are ephemeral: they live for a single placement attempt and are
// correlated with line items by SKU code equality, never by position.
type InventoryFact struct {
	SKUCode string
	InStock bool
}
