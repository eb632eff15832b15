package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/freshtrade/internal/domain"
)

type CatalogRepo struct{ db *gorm.DB }

func NewCatalogRepo(db *gorm.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// activeSpecs limita a empaques de productos activos y precarga el producto.
func activeSpecs(db *gorm.DB) *gorm.DB {
	return db.Preload("Product").
		Where("product_id IN (?)", db.Session(&gorm.Session{NewDB: true}).Model(&domain.Product{}).Select("id").Where("is_active = ?", true))
}

func (r *CatalogRepo) ListSpecs(ctx context.Context, productIDs []uuid.UUID) ([]domain.PackagingSpec, error) {
	var list []domain.PackagingSpec
	q := r.db.WithContext(ctx).Scopes(activeSpecs)
	if productIDs != nil {
		if len(productIDs) == 0 {
			return list, nil
		}
		q = q.Where("product_id IN ?", productIDs)
	}
	if err := q.Order("label asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CatalogRepo) ListSpecsByProduct(ctx context.Context, productID uuid.UUID, sizeOptionID *uuid.UUID) ([]domain.PackagingSpec, error) {
	var list []domain.PackagingSpec
	q := r.db.WithContext(ctx).Scopes(activeSpecs).Where("product_id = ?", productID)
	if sizeOptionID != nil {
		q = q.Where("size_option_id = ?", *sizeOptionID)
	}
	if err := q.Order("label asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CatalogRepo) FindSpec(ctx context.Context, id uuid.UUID) (*domain.PackagingSpec, error) {
	var s domain.PackagingSpec
	if err := r.db.WithContext(ctx).Preload("Product").First(&s, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *CatalogRepo) SaveProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Specs").Save(p).Error
}

func (r *CatalogRepo) SaveSpec(ctx context.Context, s *domain.PackagingSpec) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Product").Save(s).Error
}
