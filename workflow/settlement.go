package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/aluguelfacil/locacoes_backend/config"
	"github.com/aluguelfacil/locacoes_backend/models"
	"github.com/aluguelfacil/locacoes_backend/utils"
	"github.com/bsm/redislock"
	"github.com/shopspring/decimal"
)

// ItemReturn is the check-in record for one reservation item.
type ItemReturn struct {
	ItemId           int             `json:"item_id" binding:"required"`
	QuantityReturned decimal.Decimal `json:"quantity_returned"`
	QuantityLost     decimal.Decimal `json:"quantity_lost"`
	Damaged          bool            `json:"damaged"`
}

type ItemSettlement struct {
	ItemId       int             `json:"item_id"`
	ProductId    int             `json:"product_id"`
	PenaltyValue decimal.Decimal `json:"penalty_value"`
}

type SettlementResult struct {
	ReservationId int                      `json:"reservation_id"`
	Items         []ItemSettlement         `json:"items"`
	PenaltyTotal  decimal.Decimal          `json:"penalty_total"`
	Outcome       models.ReservationStatus `json:"outcome"`
}

var damageRate = decimal.NewFromFloat(0.5)

// ComputeItemPenalty prices the check-in of one item: each lost unit is
// charged at full unit value, and damage adds half the value of the whole
// expected quantity. Loss and damage are independent and additive.
func ComputeItemPenalty(unitValue, qtyExpected, qtyLost decimal.Decimal, damaged bool) decimal.Decimal {
	penalty := qtyLost.Mul(unitValue)
	if damaged {
		penalty = penalty.Add(damageRate.Mul(qtyExpected).Mul(unitValue))
	}
	return penalty
}

// ComputeSettlement prices a full return. QuantityReturned never affects the
// penalty; it only records what physically came back. The outcome is
// concluida when nothing is owed, otherwise aguardando_quitacao.
func ComputeSettlement(items []models.ReservationItem, returns map[int]ItemReturn) ([]ItemSettlement, decimal.Decimal, models.ReservationStatus) {
	perItem := make([]ItemSettlement, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		ret := returns[item.ID]
		penalty := ComputeItemPenalty(item.UnitValue, item.Quantity, ret.QuantityLost, ret.Damaged)
		perItem = append(perItem, ItemSettlement{
			ItemId:       item.ID,
			ProductId:    item.ProductId,
			PenaltyValue: penalty,
		})
		total = total.Add(penalty)
	}

	outcome := models.ReservationStatusConcluida
	if !total.IsZero() {
		outcome = models.ReservationStatusAguardandoQuitacao
	}
	return perItem, total, outcome
}

// validateReturns checks the check-in records against the reservation's
// items. Every active item must be covered exactly once and quantities must
// stay within the reserved amount. When strict mode is on, lost plus
// returned may not exceed it either.
func validateReturns(items []models.ReservationItem, returns []ItemReturn, strict bool) (map[int]ItemReturn, error) {
	byItem := make(map[int]ItemReturn, len(returns))
	for _, ret := range returns {
		if _, dup := byItem[ret.ItemId]; dup {
			return nil, utils.NewValidationError(fmt.Sprintf("duplicate return for item %d", ret.ItemId))
		}
		byItem[ret.ItemId] = ret
	}

	known := make(map[int]bool, len(items))
	for _, item := range items {
		known[item.ID] = true
		ret, ok := byItem[item.ID]
		if !ok {
			return nil, utils.NewValidationError(fmt.Sprintf("missing return for item %d", item.ID))
		}
		if ret.QuantityLost.IsNegative() || ret.QuantityLost.GreaterThan(item.Quantity) {
			return nil, utils.NewValidationError(
				fmt.Sprintf("lost quantity for item %d must be between 0 and %s", item.ID, item.Quantity))
		}
		if ret.QuantityReturned.IsNegative() || ret.QuantityReturned.GreaterThan(item.Quantity) {
			return nil, utils.NewValidationError(
				fmt.Sprintf("returned quantity for item %d must be between 0 and %s", item.ID, item.Quantity))
		}
		if strict && ret.QuantityLost.Add(ret.QuantityReturned).GreaterThan(item.Quantity) {
			return nil, utils.NewValidationError(
				fmt.Sprintf("lost plus returned for item %d exceeds the reserved quantity", item.ID))
		}
	}

	for itemId := range byItem {
		if !known[itemId] {
			return nil, utils.NewValidationError(fmt.Sprintf("item %d does not belong to the reservation", itemId))
		}
	}

	return byItem, nil
}

// FinalizeReservation runs the return check-in: it prices every item,
// stamps the settlement on the reservation, and books the stock back in, all
// in one transaction guarded by an advisory lock.
func FinalizeReservation(ctx context.Context, reservationId int, returns []ItemReturn) (*SettlementResult, error) {

	logger := config.GetLogger()

	reservation, err := utils.FetchSingleModel[models.Reservation](ctx, reservationId, "Items")
	if err != nil {
		return nil, err
	}

	if reservation.Status != models.ReservationStatusEmAndamento &&
		reservation.Status != models.ReservationStatusAprovado {
		return nil, utils.NewConflictError(
			fmt.Sprintf("cannot finalize reservation in status %s", reservation.Status))
	}

	activeItems := make([]models.ReservationItem, 0, len(reservation.Items))
	for _, item := range reservation.Items {
		if item.Status == models.ReservationStatusCancelada {
			continue
		}
		activeItems = append(activeItems, item)
	}

	byItem, err := validateReturns(activeItems, returns, config.StrictReturnValidation())
	if err != nil {
		return nil, err
	}

	perItem, total, outcome := ComputeSettlement(activeItems, byItem)

	// best-effort fast path so concurrent finalizes fail before touching
	// the database; the advisory lock below is the authority
	if locker := config.GetRedisLocker(); locker != nil {
		lock, lockErr := locker.Obtain(ctx, fmt.Sprintf("finalize:%d", reservationId), 30*time.Second, nil)
		if lockErr == redislock.ErrNotObtained {
			return nil, utils.NewConflictError("reservation is being finalized by another request")
		}
		if lockErr == nil {
			defer lock.Release(context.WithoutCancel(ctx))
		}
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := AcquireFinalizeLock(tx, reservationId); err != nil {
		tx.Rollback()
		return nil, err
	}
	defer ReleaseFinalizeLock(tx, reservationId)

	result := tx.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ? AND version = ?", reservation.ID, reservation.Version).
		Updates(map[string]interface{}{
			"Status":       outcome,
			"PenaltyTotal": total,
			"Version":      reservation.Version + 1,
		})
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, utils.NewConflictError("reservation was modified concurrently")
	}

	now := time.Now()
	for _, item := range activeItems {
		ret := byItem[item.ID]
		var penalty decimal.Decimal
		for _, settled := range perItem {
			if settled.ItemId == item.ID {
				penalty = settled.PenaltyValue
			}
		}

		err = tx.WithContext(ctx).Model(&models.ReservationItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"Status":           outcome,
				"QuantityReturned": ret.QuantityReturned,
				"QuantityLost":     ret.QuantityLost,
				"Damaged":          ret.Damaged,
				"PenaltyValue":     penalty,
			}).Error
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		// book returned stock back in
		if ret.QuantityReturned.IsPositive() {
			movement := models.Movement{
				ProductId:     item.ProductId,
				Type:          models.MovementTypeEntrada,
				Quantity:      ret.QuantityReturned,
				ReservationId: &reservation.ID,
				Description:   fmt.Sprintf("retorno da reserva %d", reservation.ID),
				OccurredAt:    now,
			}
			if err := tx.WithContext(ctx).Create(&movement).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		config.LogError(logger, "workflow", "FinalizeReservation", "commit", reservationId, err)
		return nil, err
	}

	return &SettlementResult{
		ReservationId: reservation.ID,
		Items:         perItem,
		PenaltyTotal:  total,
		Outcome:       outcome,
	}, nil
}
