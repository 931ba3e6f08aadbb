package models

import (
	"context"
	"time"

	"github.com/aluguelfacil/locacoes_backend/config"
	"github.com/aluguelfacil/locacoes_backend/utils"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Name          string          `gorm:"size:100;not null;index" json:"name" binding:"required"`
	Description   string          `gorm:"type:text" json:"description"`
	TotalQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_quantity"`
	RentalValue   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"rental_value"`
	DamageValue   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"damage_value"`
	CleaningTime  int             `gorm:"not null;default:0" json:"cleaning_time"`
	IsActive      *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	RentalValue   decimal.Decimal `json:"rental_value"`
	DamageValue   decimal.Decimal `json:"damage_value"`
	CleaningTime  int             `json:"cleaning_time"`
}

// implements CompositeCursor
func (p Product) GetCursor() string {
	return p.CreatedAt.String()
}

// validate input for both create & update. (id = 0 for create)
func (input *NewProduct) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Product](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if input.TotalQuantity.IsNegative() {
		return utils.NewValidationError("total quantity must not be negative")
	}
	if input.RentalValue.IsNegative() {
		return utils.NewValidationError("rental value must not be negative")
	}
	if input.DamageValue.IsNegative() {
		return utils.NewValidationError("damage value must not be negative")
	}
	if input.CleaningTime < 0 {
		return utils.NewValidationError("cleaning time must not be negative")
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	product := Product{
		Name:          input.Name,
		Description:   input.Description,
		TotalQuantity: input.TotalQuantity,
		RentalValue:   input.RentalValue,
		DamageValue:   input.DamageValue,
		CleaningTime:  input.CleaningTime,
		IsActive:      utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {
	product, err := utils.FetchSingleModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(product).Updates(map[string]interface{}{
		"Name":          input.Name,
		"Description":   input.Description,
		"TotalQuantity": input.TotalQuantity,
		"RentalValue":   input.RentalValue,
		"DamageValue":   input.DamageValue,
		"CleaningTime":  input.CleaningTime,
	}).Error
	if err != nil {
		return nil, err
	}
	return product, nil
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {
	product, err := utils.FetchSingleModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()

	// products referenced by reservation items or movements are retired,
	// not removed
	count, err := utils.ResourceCountWhere[ReservationItem](ctx, "product_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		moveCount, err := utils.ResourceCountWhere[Movement](ctx, "product_id = ?", id)
		if err != nil {
			return nil, err
		}
		count = moveCount
	}
	if count > 0 {
		err = db.WithContext(ctx).Model(product).Update("IsActive", utils.NewFalse()).Error
		if err != nil {
			return nil, err
		}
		return product, nil
	}

	if err := db.WithContext(ctx).Delete(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return utils.FetchSingleModel[Product](ctx, id)
}

func GetAllProducts(ctx context.Context, name *string, activeOnly bool) ([]*Product, error) {
	products := make([]*Product, 0)
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Order("name")
	if name != nil && *name != "" {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if activeOnly {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}
	if err := dbCtx.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CheckAvailability reports how many units of a product remain free in
// [from, to). Overlapping reservations in a cancelled or concluded state do
// not hold stock.
func CheckAvailability(ctx context.Context, productId int, from, to time.Time) (decimal.Decimal, error) {
	if !to.After(from) {
		return decimal.Zero, utils.NewValidationError("period end must be after period start")
	}

	product, err := utils.FetchSingleModel[Product](ctx, productId)
	if err != nil {
		return decimal.Zero, err
	}

	db := config.GetDB()
	var reserved decimal.NullDecimal
	err = db.WithContext(ctx).Model(&ReservationItem{}).
		Select("SUM(reservation_items.quantity)").
		Joins("JOIN reservations ON reservations.id = reservation_items.reservation_id").
		Where("reservation_items.product_id = ?", productId).
		Where("reservation_items.status NOT IN ?", []ReservationStatus{
			ReservationStatusCancelada, ReservationStatusConcluida,
		}).
		Where("reservations.event_start < ? AND reservations.event_end > ?", to, from).
		Scan(&reserved).Error
	if err != nil {
		return decimal.Zero, err
	}

	available := product.TotalQuantity
	if reserved.Valid {
		available = available.Sub(reserved.Decimal)
	}
	if available.IsNegative() {
		return decimal.Zero, nil
	}
	return available, nil
}
