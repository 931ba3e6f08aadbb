package middlewares

import (
	"context"

	"github.com/aluguelfacil/locacoes_backend/models"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type venueReader struct {
	db *gorm.DB
}

func (r *venueReader) getVenues(ctx context.Context, ids []int) []*dataloader.Result[*models.Venue] {
	var results []models.Venue
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.Venue](len(ids), err)
	}

	return generateLoaderResults(results, ids)
}

func GetVenue(ctx context.Context, id int) (*models.Venue, error) {
	loaders := For(ctx)
	return loaders.venueLoader.Load(ctx, id)()
}
