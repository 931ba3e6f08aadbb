package models

import (
	"context"
	"errors"
	"time"

	"github.com/aluguelfacil/locacoes_backend/config"
	"github.com/aluguelfacil/locacoes_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Movement is one append-only stock ledger row. Rows are written when stock
// leaves for an event (saida) and when it comes back at settlement
// (entrada), or manually for purchases, write-offs and corrections. They are
// never updated or deleted.
type Movement struct {
	ID            int             `gorm:"primary_key" json:"id"`
	ProductId     int             `gorm:"index;not null" json:"product_id" binding:"required"`
	Type          MovementType    `gorm:"type:enum('entrada','saida');not null" json:"type" binding:"required"`
	Quantity      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	ReservationId *int            `gorm:"index" json:"reservation_id"`
	Description   string          `gorm:"size:200" json:"description"`
	OccurredAt    time.Time       `gorm:"index;not null" json:"occurred_at"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewMovement struct {
	ProductId     int             `json:"product_id" binding:"required"`
	Type          string          `json:"type" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	ReservationId *int            `json:"reservation_id"`
	Description   string          `json:"description"`
	OccurredAt    *time.Time      `json:"occurred_at"`
}

type MovementFilter struct {
	ProductId     *int
	Type          *MovementType
	ReservationId *int
	From          *time.Time
	To            *time.Time
}

func (m Movement) GetCursor() string {
	return m.OccurredAt.Format("2006-01-02 15:04:05.000000")
}

func (obj Movement) GetId() int {
	return obj.ID
}

func (m *Movement) BeforeSave(tx *gorm.DB) (err error) {
	if !m.Type.IsValid() {
		return errors.New("invalid movement type")
	}
	if m.Quantity.LessThanOrEqual(decimal.Zero) {
		return errors.New("movement quantity must be positive")
	}
	if m.OccurredAt.IsZero() {
		m.OccurredAt = time.Now()
	}
	return nil
}

// ledger rows are immutable
func (m *Movement) BeforeUpdate(tx *gorm.DB) (err error) {
	return errors.New("stock movements cannot be modified")
}

func (m *Movement) BeforeDelete(tx *gorm.DB) (err error) {
	return errors.New("stock movements cannot be deleted")
}

func CreateMovement(ctx context.Context, input *NewMovement) (*Movement, error) {
	movementType, err := ParseMovementType(input.Type)
	if err != nil {
		return nil, utils.NewValidationError(err.Error())
	}
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, utils.NewValidationError("movement quantity must be positive")
	}
	if err := utils.ValidateResourceId[Product](ctx, input.ProductId); err != nil {
		return nil, utils.NewValidationError("product not found")
	}
	if input.ReservationId != nil {
		if err := utils.ValidateResourceId[Reservation](ctx, *input.ReservationId); err != nil {
			return nil, utils.NewValidationError("reservation not found")
		}
	}

	occurredAt := time.Now()
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	movement := Movement{
		ProductId:     input.ProductId,
		Type:          movementType,
		Quantity:      input.Quantity,
		ReservationId: input.ReservationId,
		Description:   input.Description,
		OccurredAt:    occurredAt,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&movement).Error; err != nil {
		return nil, err
	}
	return &movement, nil
}

func applyMovementFilter(dbCtx *gorm.DB, filter *MovementFilter) *gorm.DB {
	if filter == nil {
		return dbCtx
	}
	if filter.ProductId != nil {
		dbCtx = dbCtx.Where("product_id = ?", *filter.ProductId)
	}
	if filter.Type != nil {
		dbCtx = dbCtx.Where("type = ?", *filter.Type)
	}
	if filter.ReservationId != nil {
		dbCtx = dbCtx.Where("reservation_id = ?", *filter.ReservationId)
	}
	if filter.From != nil {
		dbCtx = dbCtx.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		dbCtx = dbCtx.Where("occurred_at < ?", *filter.To)
	}
	return dbCtx
}

func ListMovements(ctx context.Context, filter *MovementFilter) ([]*Movement, error) {
	movements := make([]*Movement, 0)
	db := config.GetDB()
	dbCtx := applyMovementFilter(db.WithContext(ctx), filter)
	if err := dbCtx.Order("occurred_at DESC, id DESC").Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func PaginateMovements(ctx context.Context, filter *MovementFilter, limit int, after *string) ([]Edge[Movement], *PageInfo, error) {
	if limit <= 0 {
		limit = config.SearchLimit
	}
	db := config.GetDB()
	dbCtx := applyMovementFilter(db.WithContext(ctx).Model(&Movement{}), filter)
	return FetchPageCompositeCursor[Movement](dbCtx, limit, after, "occurred_at", "<")
}
