package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInventoryUnavailable means the inventory lookup failed, timed out or
	// returned nothing. Retryable; never conflated with "all SKUs invalid".
	ErrInventoryUnavailable = errors.New("inventory unavailable")

	// ErrPersistenceFailure means the order write failed after a successful
	// availability check. The placement is failed and no event fires.
	ErrPersistenceFailure = errors.New("order persistence failed")
)

// UnavailableSKUError rejects a placement because some SKU codes are unknown
// to the inventory service. Names every offending code, in input order.
type UnavailableSKUError struct {
	SKUCodes []string
}

func (e *UnavailableSKUError) Error() string {
	return "invalid sku codes: " + strings.Join(e.SKUCodes, ", ")
}

// OutOfStockError rejects a placement because some known SKUs are out of
// stock. Names every offending code, in input order.
type OutOfStockError struct {
	SKUCodes []string
}

func (e *OutOfStockError) Error() string {
	return "out of stock for sku codes: " + strings.Join(e.SKUCodes, ", ")
}

// InvalidLineItemError rejects a placement before any external call when the
// strict line-item policy is enabled and a line carries a non-positive
// quantity or a negative price.
type InvalidLineItemError struct {
	SKUCodes []string
}

func (e *InvalidLineItemError) Error() string {
	return fmt.Sprintf("invalid line items for sku codes: %s", strings.Join(e.SKUCodes, ", "))
}
