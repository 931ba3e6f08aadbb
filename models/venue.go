package models

import (
	"context"
	"time"

	"github.com/aluguelfacil/locacoes_backend/config"
	"github.com/aluguelfacil/locacoes_backend/utils"
)

// Venue is the event location ("local") a reservation is delivered to.
type Venue struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null;index" json:"name" binding:"required"`
	Address   string    `gorm:"size:200" json:"address"`
	Capacity  int       `gorm:"not null;default:0" json:"capacity"`
	Notes     string    `gorm:"type:text" json:"notes"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewVenue struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	Capacity int    `json:"capacity"`
	Notes    string `json:"notes"`
}

func (v Venue) GetCursor() string {
	return v.CreatedAt.String()
}

func (input *NewVenue) validate(ctx context.Context, id int) error {
	if err := utils.ValidateUnique[Venue](ctx, "name", input.Name, id); err != nil {
		return err
	}
	if input.Capacity < 0 {
		return utils.NewValidationError("capacity must not be negative")
	}
	return nil
}

func CreateVenue(ctx context.Context, input *NewVenue) (*Venue, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	venue := Venue{
		Name:     input.Name,
		Address:  input.Address,
		Capacity: input.Capacity,
		Notes:    input.Notes,
		IsActive: utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&venue).Error; err != nil {
		return nil, err
	}
	return &venue, nil
}

func UpdateVenue(ctx context.Context, id int, input *NewVenue) (*Venue, error) {
	venue, err := utils.FetchSingleModel[Venue](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(venue).Updates(map[string]interface{}{
		"Name":     input.Name,
		"Address":  input.Address,
		"Capacity": input.Capacity,
		"Notes":    input.Notes,
	}).Error
	if err != nil {
		return nil, err
	}
	return venue, nil
}

func DeleteVenue(ctx context.Context, id int) (*Venue, error) {
	venue, err := utils.FetchSingleModel[Venue](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()

	count, err := utils.ResourceCountWhere[Reservation](ctx, "venue_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		err = db.WithContext(ctx).Model(venue).Update("IsActive", utils.NewFalse()).Error
		if err != nil {
			return nil, err
		}
		return venue, nil
	}

	if err := db.WithContext(ctx).Delete(venue).Error; err != nil {
		return nil, err
	}
	return venue, nil
}

func GetVenue(ctx context.Context, id int) (*Venue, error) {
	return utils.FetchSingleModel[Venue](ctx, id)
}

func GetAllVenues(ctx context.Context, name *string, activeOnly bool) ([]*Venue, error) {
	venues := make([]*Venue, 0)
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Order("name")
	if name != nil && *name != "" {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if activeOnly {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}
	if err := dbCtx.Find(&venues).Error; err != nil {
		return nil, err
	}
	return venues, nil
}
