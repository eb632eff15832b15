package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/freshtrade/internal/domain"
)

type HubRepo struct{ db *gorm.DB }

func NewHubRepo(db *gorm.DB) *HubRepo { return &HubRepo{db: db} }

func (r *HubRepo) List(ctx context.Context) ([]domain.Hub, error) {
	var list []domain.Hub
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *HubRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Hub, error) {
	var h domain.Hub
	if err := r.db.WithContext(ctx).First(&h, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

func (r *HubRepo) FindByCode(ctx context.Context, code string) (*domain.Hub, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return nil, domain.ErrNotFound
	}
	var h domain.Hub
	if err := r.db.WithContext(ctx).First(&h, "UPPER(code) = ?", c).Error; err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

func (r *HubRepo) Save(ctx context.Context, h *domain.Hub) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(h).Error
}

// notFound traduce el "record not found" de gorm al error de dominio.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
