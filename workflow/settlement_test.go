package workflow

import (
	"testing"

	"github.com/aluguelfacil/locacoes_backend/models"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeItemPenalty(t *testing.T) {
	cases := []struct {
		name        string
		unitValue   string
		qtyExpected string
		qtyLost     string
		damaged     bool
		want        string
	}{
		{"lost units only", "8.50", "10", "2", false, "17.00"},
		{"damage only", "30.00", "4", "0", true, "60.00"},
		{"nothing lost nothing damaged", "12.00", "5", "0", false, "0"},
		{"lost and damaged are additive", "10.00", "6", "1", true, "40.00"},
		{"everything lost", "2.50", "8", "8", false, "20.00"},
		{"fractional quantities", "7.00", "1.5", "0.5", false, "3.50"},
	}

	for _, tc := range cases {
		got := ComputeItemPenalty(dec(tc.unitValue), dec(tc.qtyExpected), dec(tc.qtyLost), tc.damaged)
		if !got.Equal(dec(tc.want)) {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestComputeSettlementOutcome(t *testing.T) {
	items := []models.ReservationItem{
		{ID: 1, ProductId: 11, Quantity: dec("10"), UnitValue: dec("8.50")},
		{ID: 2, ProductId: 12, Quantity: dec("4"), UnitValue: dec("30.00")},
	}
	returns := map[int]ItemReturn{
		1: {ItemId: 1, QuantityReturned: dec("8"), QuantityLost: dec("2")},
		2: {ItemId: 2, QuantityReturned: dec("4"), Damaged: true},
	}

	perItem, total, outcome := ComputeSettlement(items, returns)

	if len(perItem) != 2 {
		t.Fatalf("expected 2 item settlements, got %d", len(perItem))
	}
	if !perItem[0].PenaltyValue.Equal(dec("17.00")) {
		t.Fatalf("item 1 penalty: got %s, want 17.00", perItem[0].PenaltyValue)
	}
	if !perItem[1].PenaltyValue.Equal(dec("60.00")) {
		t.Fatalf("item 2 penalty: got %s, want 60.00", perItem[1].PenaltyValue)
	}
	if !total.Equal(dec("77.00")) {
		t.Fatalf("total penalty: got %s, want 77.00", total)
	}
	if outcome != models.ReservationStatusAguardandoQuitacao {
		t.Fatalf("outcome: got %s, want %s", outcome, models.ReservationStatusAguardandoQuitacao)
	}
}

func TestComputeSettlementCleanReturn(t *testing.T) {
	items := []models.ReservationItem{
		{ID: 1, ProductId: 11, Quantity: dec("3"), UnitValue: dec("15.00")},
	}
	returns := map[int]ItemReturn{
		1: {ItemId: 1, QuantityReturned: dec("3")},
	}

	_, total, outcome := ComputeSettlement(items, returns)
	if !total.IsZero() {
		t.Fatalf("total penalty: got %s, want 0", total)
	}
	if outcome != models.ReservationStatusConcluida {
		t.Fatalf("outcome: got %s, want %s", outcome, models.ReservationStatusConcluida)
	}
}

func TestComputeSettlementReturnedQuantityIsInformational(t *testing.T) {
	items := []models.ReservationItem{
		{ID: 1, ProductId: 11, Quantity: dec("10"), UnitValue: dec("5.00")},
	}

	fullReturn := map[int]ItemReturn{
		1: {ItemId: 1, QuantityReturned: dec("8"), QuantityLost: dec("2")},
	}
	noReturn := map[int]ItemReturn{
		1: {ItemId: 1, QuantityReturned: dec("0"), QuantityLost: dec("2")},
	}

	_, totalA, _ := ComputeSettlement(items, fullReturn)
	_, totalB, _ := ComputeSettlement(items, noReturn)
	if !totalA.Equal(totalB) {
		t.Fatalf("returned quantity changed the penalty: %s vs %s", totalA, totalB)
	}
	if !totalA.Equal(dec("10.00")) {
		t.Fatalf("total penalty: got %s, want 10.00", totalA)
	}
}

func TestValidateReturns(t *testing.T) {
	items := []models.ReservationItem{
		{ID: 1, ProductId: 11, Quantity: dec("10"), UnitValue: dec("5.00")},
		{ID: 2, ProductId: 12, Quantity: dec("2"), UnitValue: dec("9.00")},
	}

	t.Run("every item must be covered", func(t *testing.T) {
		_, err := validateReturns(items, []ItemReturn{
			{ItemId: 1, QuantityReturned: dec("10")},
		}, false)
		if err == nil {
			t.Fatal("expected error for missing item return")
		}
	})

	t.Run("unknown item rejected", func(t *testing.T) {
		_, err := validateReturns(items, []ItemReturn{
			{ItemId: 1, QuantityReturned: dec("10")},
			{ItemId: 2, QuantityReturned: dec("2")},
			{ItemId: 99, QuantityReturned: dec("1")},
		}, false)
		if err == nil {
			t.Fatal("expected error for return of foreign item")
		}
	})

	t.Run("duplicate return rejected", func(t *testing.T) {
		_, err := validateReturns(items, []ItemReturn{
			{ItemId: 1, QuantityReturned: dec("5")},
			{ItemId: 1, QuantityReturned: dec("5")},
			{ItemId: 2, QuantityReturned: dec("2")},
		}, false)
		if err == nil {
			t.Fatal("expected error for duplicate item return")
		}
	})

	t.Run("lost beyond reserved rejected", func(t *testing.T) {
		_, err := validateReturns(items, []ItemReturn{
			{ItemId: 1, QuantityLost: dec("11")},
			{ItemId: 2, QuantityReturned: dec("2")},
		}, false)
		if err == nil {
			t.Fatal("expected error for lost quantity above reserved")
		}
	})

	t.Run("negative quantities rejected", func(t *testing.T) {
		_, err := validateReturns(items, []ItemReturn{
			{ItemId: 1, QuantityLost: dec("-1")},
			{ItemId: 2, QuantityReturned: dec("2")},
		}, false)
		if err == nil {
			t.Fatal("expected error for negative lost quantity")
		}
	})

	t.Run("permissive mode tolerates overage", func(t *testing.T) {
		_, err := validateReturns(items, []ItemReturn{
			{ItemId: 1, QuantityReturned: dec("9"), QuantityLost: dec("2")},
			{ItemId: 2, QuantityReturned: dec("2")},
		}, false)
		if err != nil {
			t.Fatalf("permissive mode should accept overage, got %v", err)
		}
	})

	t.Run("strict mode rejects overage", func(t *testing.T) {
		_, err := validateReturns(items, []ItemReturn{
			{ItemId: 1, QuantityReturned: dec("9"), QuantityLost: dec("2")},
			{ItemId: 2, QuantityReturned: dec("2")},
		}, true)
		if err == nil {
			t.Fatal("strict mode should reject lost+returned above reserved")
		}
	})
}
