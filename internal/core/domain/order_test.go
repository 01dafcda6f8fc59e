package domain

import (
	"reflect"
	"testing"
)

func TestNewOrder_GeneratesUniqueNumbers(t *testing.T) {
	items := []OrderLineItem{{SKUCode: "A1", Quantity: 1, Price: 1.0}}

	first := NewOrder(items)
	second := NewOrder(items)

	if first.OrderNumber == "" || second.OrderNumber == "" {
		t.Fatal("expected non-empty order numbers")
	}
	if first.OrderNumber == second.OrderNumber {
		t.Errorf("order numbers must be unique per construction, both got %q", first.OrderNumber)
	}
}

func TestNewOrder_CopiesLineItems(t *testing.T) {
	items := []OrderLineItem{{SKUCode: "A1", Quantity: 1, Price: 1.0}}
	order := NewOrder(items)

	items[0].SKUCode = "mutated"
	if order.LineItems[0].SKUCode != "A1" {
		t.Error("order must own its line items")
	}
}

func TestSKUCodes_PreservesOrderAndDuplicates(t *testing.T) {
	order := NewOrder([]OrderLineItem{
		{SKUCode: "B2", Quantity: 1, Price: 1.0},
		{SKUCode: "A1", Quantity: 1, Price: 1.0},
		{SKUCode: "B2", Quantity: 2, Price: 1.0},
	})

	got := order.SKUCodes()
	want := []string{"B2", "A1", "B2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
