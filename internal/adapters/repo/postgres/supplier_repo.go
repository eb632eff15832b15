package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/phenrril/freshtrade/internal/domain"
)

type SupplierRepo struct{ db *gorm.DB }

func NewSupplierRepo(db *gorm.DB) *SupplierRepo { return &SupplierRepo{db: db} }

func (r *SupplierRepo) activeSupplierIDs() *gorm.DB {
	return r.db.Model(&domain.Supplier{}).Select("id").Where("is_active = ?", true)
}

func (r *SupplierRepo) ListActiveCapabilities(ctx context.Context) ([]domain.SupplierCapability, error) {
	var list []domain.SupplierCapability
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("is_active = ? AND supplier_id IN (?)", true, r.activeSupplierIDs()).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SupplierRepo) ListActivePrices(ctx context.Context) ([]domain.SupplierPrice, error) {
	var list []domain.SupplierPrice
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SupplierRepo) ListPricesForSpecs(ctx context.Context, specIDs []uuid.UUID) ([]domain.SupplierPrice, error) {
	list := []domain.SupplierPrice{}
	if len(specIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND spec_id IN ?", true, specIDs).
		Order("price_per_unit asc").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SupplierRepo) ListLogistics(ctx context.Context, supplierIDs []uuid.UUID) ([]domain.SupplierLogistics, error) {
	list := []domain.SupplierLogistics{}
	if len(supplierIDs) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("is_active = ? AND supplier_id IN ?", true, supplierIDs).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SupplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	var s domain.Supplier
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *SupplierRepo) FindByCode(ctx context.Context, code string) (*domain.Supplier, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return nil, domain.ErrNotFound
	}
	var s domain.Supplier
	if err := r.db.WithContext(ctx).First(&s, "UPPER(code) = ?", c).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// ReplacePrice bloquea la fila del proveedor para serializar reemplazos
// concurrentes; el índice único parcial sobre precios activos cubre el resto.
func (r *SupplierRepo) ReplacePrice(ctx context.Context, p *domain.SupplierPrice) (*domain.SupplierPrice, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var s domain.Supplier
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, "id = ?", p.SupplierID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Model(&domain.SupplierPrice{}).
			Where("supplier_id = ? AND spec_id = ? AND hub_id = ? AND delivery_mode = ? AND is_active = ?", p.SupplierID, p.SpecID, p.HubID, p.DeliveryMode, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(p).Error
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SupplierRepo) Save(ctx context.Context, s *domain.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.Code = strings.ToUpper(strings.TrimSpace(s.Code))
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SupplierRepo) SaveCapability(ctx context.Context, c *domain.SupplierCapability) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Supplier").Save(c).Error
}

func (r *SupplierRepo) SaveLogistics(ctx context.Context, l *domain.SupplierLogistics) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(l).Error
}
