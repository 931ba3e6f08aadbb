package models

import (
	"context"
	"time"

	"github.com/aluguelfacil/locacoes_backend/config"
	"github.com/aluguelfacil/locacoes_backend/utils"
)

type Client struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null;index" json:"name" binding:"required"`
	Email     string    `gorm:"size:100" json:"email"`
	Phone     string    `gorm:"size:30" json:"phone"`
	Document  string    `gorm:"size:20;index" json:"document"`
	Address   string    `gorm:"size:200" json:"address"`
	Notes     string    `gorm:"type:text" json:"notes"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewClient struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

func (c Client) GetCursor() string {
	return c.CreatedAt.String()
}

func (input *NewClient) validate(ctx context.Context, id int) error {
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return utils.NewValidationError("invalid email")
	}
	if input.Document != "" {
		if err := utils.ValidateUnique[Client](ctx, "document", input.Document, id); err != nil {
			return err
		}
	}
	return nil
}

func CreateClient(ctx context.Context, input *NewClient) (*Client, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	client := Client{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Document: input.Document,
		Address:  input.Address,
		Notes:    input.Notes,
		IsActive: utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func UpdateClient(ctx context.Context, id int, input *NewClient) (*Client, error) {
	client, err := utils.FetchSingleModel[Client](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(client).Updates(map[string]interface{}{
		"Name":     input.Name,
		"Email":    input.Email,
		"Phone":    input.Phone,
		"Document": input.Document,
		"Address":  input.Address,
		"Notes":    input.Notes,
	}).Error
	if err != nil {
		return nil, err
	}
	return client, nil
}

func DeleteClient(ctx context.Context, id int) (*Client, error) {
	client, err := utils.FetchSingleModel[Client](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()

	count, err := utils.ResourceCountWhere[Reservation](ctx, "client_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		err = db.WithContext(ctx).Model(client).Update("IsActive", utils.NewFalse()).Error
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	if err := db.WithContext(ctx).Delete(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

func GetClient(ctx context.Context, id int) (*Client, error) {
	return utils.FetchSingleModel[Client](ctx, id)
}

func GetAllClients(ctx context.Context, name *string, activeOnly bool) ([]*Client, error) {
	clients := make([]*Client, 0)
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Order("name")
	if name != nil && *name != "" {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if activeOnly {
		dbCtx = dbCtx.Where("is_active = ?", true)
	}
	if err := dbCtx.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}
