package models

import (
	"context"
	"fmt"
	"time"

	"github.com/aluguelfacil/locacoes_backend/config"
	"github.com/aluguelfacil/locacoes_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reservation is the ledger document. It starts life as a budget
// ("orcamento") and moves through the status graph in enums.go until it
// reaches a terminal state. Status is the consensus of its items and is
// stored denormalized for filtering.
type Reservation struct {
	ID           int               `gorm:"primary_key" json:"id"`
	ClientId     int               `gorm:"index;not null" json:"client_id" binding:"required"`
	VenueId      int               `gorm:"index" json:"venue_id"`
	EventStart   time.Time         `gorm:"index;not null" json:"event_start" binding:"required"`
	EventEnd     time.Time         `gorm:"not null" json:"event_end" binding:"required"`
	Observations string            `gorm:"type:text" json:"observations"`
	Status       ReservationStatus `gorm:"type:enum('orcamento','aprovado','pendente','confirmada','em_andamento','concluida','cancelada','aguardando_quitacao');not null;default:orcamento;index" json:"status"`
	TotalValue   decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"total_value"`
	PenaltyTotal decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"penalty_total"`
	Version      int               `gorm:"not null;default:0" json:"version"`
	Items        []ReservationItem `gorm:"foreignkey:ReservationId" json:"items"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type ReservationItem struct {
	ID               int               `gorm:"primary_key" json:"id"`
	ReservationId    int               `gorm:"index;not null" json:"reservation_id"`
	ProductId        int               `gorm:"index;not null" json:"product_id" binding:"required"`
	Quantity         decimal.Decimal   `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitValue        decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"unit_value"`
	Status           ReservationStatus `gorm:"type:enum('orcamento','aprovado','pendente','confirmada','em_andamento','concluida','cancelada','aguardando_quitacao');not null;default:orcamento" json:"status"`
	QuantityReturned decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"quantity_returned"`
	QuantityLost     decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"quantity_lost"`
	Damaged          *bool             `gorm:"not null;default:false" json:"damaged"`
	PenaltyValue     decimal.Decimal   `gorm:"type:decimal(20,4);default:0" json:"penalty_value"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewReservation struct {
	ClientId     int                  `json:"client_id" binding:"required"`
	VenueId      int                  `json:"venue_id"`
	EventStart   time.Time            `json:"event_start" binding:"required"`
	EventEnd     time.Time            `json:"event_end" binding:"required"`
	Observations string               `json:"observations"`
	Items        []NewReservationItem `json:"items" binding:"required"`
}

type NewReservationItem struct {
	ProductId int              `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitValue *decimal.Decimal `json:"unit_value"`
}

type ReservationFilter struct {
	Status   *ReservationStatus
	ClientId *int
	VenueId  *int
	From     *time.Time
	To       *time.Time
}

type ReservationsEdge = Edge[Reservation]

// implements CompositeCursor
func (r Reservation) GetCursor() string {
	return r.CreatedAt.Format("2006-01-02 15:04:05.000000")
}

func (obj Reservation) GetId() int {
	return obj.ID
}

// ComputeTotal sums qty * unit value over non-cancelled items.
func (r *Reservation) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		if item.Status == ReservationStatusCancelada {
			continue
		}
		total = total.Add(item.Quantity.Mul(item.UnitValue))
	}
	return total
}

// validateItems runs the input checks that need no database access.
func (input *NewReservation) validateItems() error {
	if len(input.Items) == 0 {
		return utils.NewValidationError("reservation must have at least one item")
	}
	if !input.EventEnd.After(input.EventStart) {
		return utils.NewValidationError("event end must be after event start")
	}
	seen := make(map[int]bool, len(input.Items))
	for _, item := range input.Items {
		if item.ProductId <= 0 {
			return utils.NewValidationError("product is required for every item")
		}
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return utils.NewValidationError("item quantity must be positive")
		}
		if item.UnitValue != nil && item.UnitValue.IsNegative() {
			return utils.NewValidationError("item unit value must not be negative")
		}
		if seen[item.ProductId] {
			return utils.NewValidationError("duplicate product in items")
		}
		seen[item.ProductId] = true
	}
	return nil
}

func (input *NewReservation) validate(ctx context.Context) (map[int]*Product, error) {
	if err := input.validateItems(); err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Client](ctx, input.ClientId); err != nil {
		return nil, utils.NewValidationError("client not found")
	}
	if input.VenueId > 0 {
		if err := utils.ValidateResourceId[Venue](ctx, input.VenueId); err != nil {
			return nil, utils.NewValidationError("venue not found")
		}
	}

	products := make(map[int]*Product, len(input.Items))
	for _, item := range input.Items {
		product, err := utils.FetchSingleModel[Product](ctx, item.ProductId)
		if err != nil {
			return nil, utils.NewValidationError(fmt.Sprintf("product %d not found", item.ProductId))
		}
		products[item.ProductId] = product
	}
	return products, nil
}

// CreateBudget stores a new reservation in status orcamento together with all
// of its items in one transaction. Items with no unit value take the
// product's current rental value.
func CreateBudget(ctx context.Context, input *NewReservation) (*Reservation, error) {
	products, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]ReservationItem, 0, len(input.Items))
	total := decimal.Zero
	for _, itemInput := range input.Items {
		unitValue := products[itemInput.ProductId].RentalValue
		if itemInput.UnitValue != nil {
			unitValue = *itemInput.UnitValue
		}
		items = append(items, ReservationItem{
			ProductId: itemInput.ProductId,
			Quantity:  itemInput.Quantity,
			UnitValue: unitValue,
			Status:    ReservationStatusOrcamento,
			Damaged:   utils.NewFalse(),
		})
		total = total.Add(itemInput.Quantity.Mul(unitValue))
	}

	reservation := Reservation{
		ClientId:     input.ClientId,
		VenueId:      input.VenueId,
		EventStart:   input.EventStart,
		EventEnd:     input.EventEnd,
		Observations: input.Observations,
		Status:       ReservationStatusOrcamento,
		TotalValue:   total,
		Items:        items,
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Create(&reservation).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	return &reservation, nil
}

// UpdateReservationStatus moves the reservation and all of its non-terminal
// items to the given status. Unknown statuses are rejected without touching
// the row; illegal transitions return a conflict.
func UpdateReservationStatus(ctx context.Context, id int, status string) (*Reservation, error) {
	newStatus, err := ParseReservationStatus(status)
	if err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	reservation, err := utils.FetchSingleModel[Reservation](ctx, id, "Items")
	if err != nil {
		return nil, err
	}

	if newStatus == reservation.Status {
		return reservation, nil
	}
	if !reservation.Status.CanTransition(newStatus) {
		return nil, utils.NewConflictError(
			fmt.Sprintf("cannot change reservation from %s to %s", reservation.Status, newStatus))
	}

	db := config.GetDB()
	tx := db.Begin()

	// optimistic version check alongside the status write
	result := tx.WithContext(ctx).Model(&Reservation{}).
		Where("id = ? AND version = ?", reservation.ID, reservation.Version).
		Updates(map[string]interface{}{
			"Status":  newStatus,
			"Version": reservation.Version + 1,
		})
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, utils.NewConflictError("reservation was modified concurrently")
	}

	err = tx.WithContext(ctx).Model(&ReservationItem{}).
		Where("reservation_id = ? AND status NOT IN ?", reservation.ID, []ReservationStatus{
			ReservationStatusCancelada, ReservationStatusConcluida,
		}).
		Update("Status", newStatus).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// dispatch: every active item leaves stock
	if newStatus == ReservationStatusEmAndamento {
		for _, item := range reservation.Items {
			if item.Status == ReservationStatusCancelada || item.Status == ReservationStatusConcluida {
				continue
			}
			movement := Movement{
				ProductId:     item.ProductId,
				Type:          MovementTypeSaida,
				Quantity:      item.Quantity,
				ReservationId: &reservation.ID,
				Description:   fmt.Sprintf("saida para reserva %d", reservation.ID),
				OccurredAt:    time.Now(),
			}
			if err := tx.WithContext(ctx).Create(&movement).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	return utils.FetchSingleModel[Reservation](ctx, id, "Items")
}

// UpdateReservationItemStatus changes one item's status without cascading to
// its siblings or to the parent document.
func UpdateReservationItemStatus(ctx context.Context, itemId int, status string) (*ReservationItem, error) {
	newStatus, err := ParseReservationStatus(status)
	if err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	item, err := utils.FetchSingleModel[ReservationItem](ctx, itemId)
	if err != nil {
		return nil, err
	}

	if newStatus == item.Status {
		return item, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(item).Update("Status", newStatus).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func applyReservationFilter(dbCtx *gorm.DB, filter *ReservationFilter) *gorm.DB {
	if filter == nil {
		return dbCtx
	}
	if filter.Status != nil {
		dbCtx = dbCtx.Where("status = ?", *filter.Status)
	}
	if filter.ClientId != nil {
		dbCtx = dbCtx.Where("client_id = ?", *filter.ClientId)
	}
	if filter.VenueId != nil {
		dbCtx = dbCtx.Where("venue_id = ?", *filter.VenueId)
	}
	if filter.From != nil {
		dbCtx = dbCtx.Where("event_start >= ?", *filter.From)
	}
	if filter.To != nil {
		dbCtx = dbCtx.Where("event_start < ?", *filter.To)
	}
	return dbCtx
}

func ListReservations(ctx context.Context, filter *ReservationFilter) ([]*Reservation, error) {
	reservations := make([]*Reservation, 0)
	db := config.GetDB()
	dbCtx := applyReservationFilter(db.WithContext(ctx).Preload("Items"), filter)
	if err := dbCtx.Order("event_start DESC, id DESC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	for _, reservation := range reservations {
		reservation.TotalValue = reservation.ComputeTotal()
	}
	return reservations, nil
}

func PaginateReservations(ctx context.Context, filter *ReservationFilter, limit int, after *string) ([]ReservationsEdge, *PageInfo, error) {
	if limit <= 0 {
		limit = config.SearchLimit
	}
	db := config.GetDB()
	dbCtx := applyReservationFilter(db.WithContext(ctx).Model(&Reservation{}).Preload("Items"), filter)
	edges, pageInfo, err := FetchPageCompositeCursor[Reservation](dbCtx, limit, after, "created_at", "<")
	if err != nil {
		return nil, nil, err
	}
	for _, edge := range edges {
		edge.Node.TotalValue = edge.Node.ComputeTotal()
	}
	return edges, pageInfo, nil
}

func GetReservation(ctx context.Context, id int) (*Reservation, error) {
	reservation, err := utils.FetchSingleModel[Reservation](ctx, id, "Items")
	if err != nil {
		return nil, err
	}
	reservation.TotalValue = reservation.ComputeTotal()
	return reservation, nil
}

// DeleteReservationItem removes one item and recomputes the parent's stored
// total. Movement rows are never touched.
func DeleteReservationItem(ctx context.Context, itemId int) (*ReservationItem, error) {
	item, err := utils.FetchSingleModel[ReservationItem](ctx, itemId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).Delete(item).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	var reservation Reservation
	err = tx.WithContext(ctx).Preload("Items").First(&reservation, item.ReservationId).Error
	if err == nil {
		err = tx.WithContext(ctx).Model(&reservation).
			Update("TotalValue", reservation.ComputeTotal()).Error
	}
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	return item, nil
}

// DeleteReservation removes the reservation together with its items. Stock
// that is out on loan must come back through finalize first.
func DeleteReservation(ctx context.Context, id int) (*Reservation, error) {
	reservation, err := utils.FetchSingleModel[Reservation](ctx, id, "Items")
	if err != nil {
		return nil, err
	}

	if reservation.Status == ReservationStatusEmAndamento ||
		reservation.Status == ReservationStatusAguardandoQuitacao {
		return nil, utils.NewConflictError(
			fmt.Sprintf("cannot delete reservation in status %s", reservation.Status))
	}

	db := config.GetDB()
	tx := db.Begin()

	err = tx.WithContext(ctx).
		Where("reservation_id = ?", reservation.ID).
		Delete(&ReservationItem{}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.WithContext(ctx).Delete(reservation).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	return reservation, nil
}
