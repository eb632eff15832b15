package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/freshtrade/internal/domain"
)

type RouteRepo struct{ db *gorm.DB }

func NewRouteRepo(db *gorm.DB) *RouteRepo { return &RouteRepo{db: db} }

func (r *RouteRepo) ListActive(ctx context.Context) ([]domain.TransporterRoute, error) {
	var list []domain.TransporterRoute
	err := r.db.WithContext(ctx).
		Preload("Transporter").
		Preload("PriceBands", func(db *gorm.DB) *gorm.DB { return db.Order("min_pallets asc, price_per_pallet asc") }).
		Where("is_active = ?", true).
		Where("transporter_id IN (?)", r.db.Model(&domain.Transporter{}).Select("id").Where("is_active = ?", true)).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *RouteRepo) SaveTransporter(ctx context.Context, t *domain.Transporter) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(t).Error
}

// Save guarda la ruta y reemplaza sus tramos de precio.
func (r *RouteRepo) Save(ctx context.Context, route *domain.TransporterRoute) error {
	if route.ID == uuid.Nil {
		route.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Transporter", "PriceBands").Save(route).Error; err != nil {
			return err
		}
		if err := tx.Where("route_id = ?", route.ID).Delete(&domain.PriceBand{}).Error; err != nil {
			return err
		}
		if len(route.PriceBands) == 0 {
			return nil
		}
		for i := range route.PriceBands {
			if route.PriceBands[i].ID == uuid.Nil {
				route.PriceBands[i].ID = uuid.New()
			}
			route.PriceBands[i].RouteID = route.ID
		}
		return tx.Create(&route.PriceBands).Error
	})
}
