package models

import (
	"testing"
	"time"

	"github.com/aluguelfacil/locacoes_backend/utils"
	"github.com/shopspring/decimal"
)

func validInput() *NewReservation {
	start := time.Date(2026, 9, 12, 14, 0, 0, 0, time.UTC)
	return &NewReservation{
		ClientId:   1,
		EventStart: start,
		EventEnd:   start.Add(8 * time.Hour),
		Items: []NewReservationItem{
			{ProductId: 1, Quantity: decimal.NewFromInt(10)},
			{ProductId: 2, Quantity: decimal.NewFromInt(4)},
		},
	}
}

func TestNewReservationValidateItems(t *testing.T) {
	if err := validInput().validateItems(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	t.Run("empty items", func(t *testing.T) {
		input := validInput()
		input.Items = nil
		err := input.validateItems()
		if err == nil || !utils.IsValidationError(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("event period inverted", func(t *testing.T) {
		input := validInput()
		input.EventEnd = input.EventStart
		if err := input.validateItems(); err == nil {
			t.Fatal("expected validation error for empty period")
		}
	})

	t.Run("zero quantity", func(t *testing.T) {
		input := validInput()
		input.Items[0].Quantity = decimal.Zero
		if err := input.validateItems(); err == nil {
			t.Fatal("expected validation error for zero quantity")
		}
	})

	t.Run("negative quantity", func(t *testing.T) {
		input := validInput()
		input.Items[1].Quantity = decimal.NewFromInt(-1)
		if err := input.validateItems(); err == nil {
			t.Fatal("expected validation error for negative quantity")
		}
	})

	t.Run("missing product", func(t *testing.T) {
		input := validInput()
		input.Items[0].ProductId = 0
		if err := input.validateItems(); err == nil {
			t.Fatal("expected validation error for missing product")
		}
	})

	t.Run("negative unit value", func(t *testing.T) {
		input := validInput()
		neg := decimal.NewFromInt(-5)
		input.Items[0].UnitValue = &neg
		if err := input.validateItems(); err == nil {
			t.Fatal("expected validation error for negative unit value")
		}
	})

	t.Run("duplicate product", func(t *testing.T) {
		input := validInput()
		input.Items[1].ProductId = input.Items[0].ProductId
		if err := input.validateItems(); err == nil {
			t.Fatal("expected validation error for duplicate product")
		}
	})
}

func TestReservationComputeTotal(t *testing.T) {
	reservation := Reservation{
		Items: []ReservationItem{
			{Quantity: decimal.NewFromInt(10), UnitValue: decimal.RequireFromString("8.50")},
			{Quantity: decimal.NewFromInt(4), UnitValue: decimal.RequireFromString("30.00")},
			{Quantity: decimal.NewFromInt(2), UnitValue: decimal.RequireFromString("99.99"), Status: ReservationStatusCancelada},
		},
	}

	total := reservation.ComputeTotal()
	if !total.Equal(decimal.RequireFromString("205.00")) {
		t.Fatalf("total: got %s, want 205.00 (cancelled items excluded)", total)
	}
}
