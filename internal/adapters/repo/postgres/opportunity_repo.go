package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/freshtrade/internal/domain"
)

type OpportunityRepo struct{ db *gorm.DB }

func NewOpportunityRepo(db *gorm.DB) *OpportunityRepo { return &OpportunityRepo{db: db} }

func (r *OpportunityRepo) ListActive(ctx context.Context) ([]domain.Opportunity, error) {
	var list []domain.Opportunity
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *OpportunityRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Opportunity, error) {
	var o domain.Opportunity
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (r *OpportunityRepo) Create(ctx context.Context, o *domain.Opportunity) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OpportunityRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OpportunityStatus) error {
	fields := map[string]interface{}{"status": status, "updated_at": time.Now()}
	if status == domain.OpportunityStatusExpired {
		fields["is_active"] = false
	}
	res := r.db.WithContext(ctx).Model(&domain.Opportunity{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OpportunityRepo) DeactivateStale(ctx context.Context, ev domain.SupplierPriceChanged, reason string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Opportunity{}).
		Scopes(staleFor(r.db, ev)).
		Updates(map[string]interface{}{
			"status":             domain.OpportunityStatusExpired,
			"is_active":          false,
			"deactivated_reason": reason,
			"updated_at":         time.Now(),
		})
	return res.RowsAffected, res.Error
}

// staleFor selecciona las oportunidades activas armadas con otro precio de la
// misma tupla (proveedor, empaque, hub, modo). Sin hub se toma todo el proveedor.
func staleFor(db *gorm.DB, ev domain.SupplierPriceChanged) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		q = q.Where("is_active = ? AND supplier_id = ? AND supplier_price_per_unit <> ?", true, ev.SupplierID, ev.PricePerUnit)
		if ev.SpecID != nil {
			q = q.Where("spec_id = ?", *ev.SpecID)
		}
		if ev.HubID == nil {
			return q
		}
		prices := db.Session(&gorm.Session{NewDB: true}).Model(&domain.SupplierPrice{}).Select("id").
			Where("supplier_id = ? AND hub_id = ?", ev.SupplierID, *ev.HubID)
		if ev.SpecID != nil {
			prices = prices.Where("spec_id = ?", *ev.SpecID)
		}
		if ev.DeliveryMode != "" {
			prices = prices.Where("delivery_mode = ?", ev.DeliveryMode)
		}
		return q.Where("supplier_price_id IN (?)", prices)
	}
}
