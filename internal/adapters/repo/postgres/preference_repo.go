package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/freshtrade/internal/domain"
)

type PreferenceRepo struct{ db *gorm.DB }

func NewPreferenceRepo(db *gorm.DB) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

// List devuelve las preferencias activas, las de prioridad alta primero
func (r *PreferenceRepo) List(ctx context.Context, hubID *uuid.UUID) ([]domain.HubProductPreference, error) {
	var list []domain.HubProductPreference
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if hubID != nil {
		q = q.Where("hub_id = ?", *hubID)
	}
	order := "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at asc"
	if err := q.Order(order).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save crea o actualiza la preferencia del hub para ese producto y empaque
func (r *PreferenceRepo) Save(ctx context.Context, p *domain.HubProductPreference) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("hub_id = ? AND product_id = ?", p.HubID, p.ProductID)
		if p.SpecID != nil {
			q = q.Where("spec_id = ?", *p.SpecID)
		} else {
			q = q.Where("spec_id IS NULL")
		}
		var existing domain.HubProductPreference
		err := q.First(&existing).Error
		if err == nil {
			p.ID = existing.ID
			return tx.Model(&existing).Updates(map[string]interface{}{"priority": p.Priority, "is_active": p.IsActive}).Error
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		return tx.Create(p).Error
	})
}
