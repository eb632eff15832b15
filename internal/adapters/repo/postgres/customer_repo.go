package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phenrril/freshtrade/internal/domain"
)

type CustomerRepo struct{ db *gorm.DB }

func NewCustomerRepo(db *gorm.DB) *CustomerRepo { return &CustomerRepo{db: db} }

func (r *CustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListRequirements devuelve los requerimientos activos de clientes activos; customerID nil = todos.
func (r *CustomerRepo) ListRequirements(ctx context.Context, customerID *uuid.UUID) ([]domain.CustomerProductRequirement, error) {
	var list []domain.CustomerProductRequirement
	q := r.db.WithContext(ctx).
		Preload("Customer").
		Where("is_active = ?", true).
		Where("customer_id IN (?)", r.db.Model(&domain.Customer{}).Select("id").Where("is_active = ?", true))
	if customerID != nil {
		q = q.Where("customer_id = ?", *customerID)
	}
	if err := q.Order("created_at asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CustomerRepo) ListLogistics(ctx context.Context, customerIDs []uuid.UUID) ([]domain.CustomerLogistics, error) {
	list := []domain.CustomerLogistics{}
	if len(customerIDs) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("is_active = ? AND customer_id IN ?", true, customerIDs).Order("lead_time_days asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CustomerRepo) Save(ctx context.Context, c *domain.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Email != "" {
		c.Email = strings.ToLower(c.Email)
	}
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CustomerRepo) SaveRequirement(ctx context.Context, q *domain.CustomerProductRequirement) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Customer").Save(q).Error
}

func (r *CustomerRepo) SaveLogistics(ctx context.Context, l *domain.CustomerLogistics) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Save(l).Error
}
