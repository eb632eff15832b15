package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/phenrril/freshtrade/internal/domain"
)

// memStore implementa todos los repositorios en memoria para los tests.
type memStore struct {
	mu            sync.Mutex
	hubs          []domain.Hub
	specs         []domain.PackagingSpec
	prefs         []domain.HubProductPreference
	suppliers     []domain.Supplier
	caps          []domain.SupplierCapability
	prices        []domain.SupplierPrice
	supLogistics  []domain.SupplierLogistics
	routes        []domain.TransporterRoute
	customers     []domain.Customer
	requirements  []domain.CustomerProductRequirement
	custLogistics []domain.CustomerLogistics
	opps          []domain.Opportunity

	failOn string
	calls  map[string]int
}

var errBoom = errors.New("conexión perdida")

func newMemStore() *memStore { return &memStore{calls: map[string]int{}} }

func (m *memStore) store() Store {
	return Store{
		Hubs:          hubRepo{m},
		Catalog:       catalogRepo{m},
		Preferences:   prefRepo{m},
		Suppliers:     supplierRepo{m},
		Routes:        routeRepo{m},
		Customers:     customerRepo{m},
		Opportunities: oppRepo{m},
	}
}

func (m *memStore) hit(op string) error {
	m.calls[op]++
	if m.failOn == op {
		return errBoom
	}
	return nil
}

type hubRepo struct{ m *memStore }

func (r hubRepo) List(ctx context.Context) ([]domain.Hub, error) {
	if err := r.m.hit("hubs"); err != nil {
		return nil, err
	}
	return append([]domain.Hub(nil), r.m.hubs...), nil
}

func (r hubRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Hub, error) {
	for i := range r.m.hubs {
		if r.m.hubs[i].ID == id {
			h := r.m.hubs[i]
			return &h, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r hubRepo) FindByCode(ctx context.Context, code string) (*domain.Hub, error) {
	for i := range r.m.hubs {
		if r.m.hubs[i].Code == code {
			h := r.m.hubs[i]
			return &h, nil
		}
	}
	return nil, domain.ErrNotFound
}

type catalogRepo struct{ m *memStore }

func (r catalogRepo) ListSpecs(ctx context.Context, productIDs []uuid.UUID) ([]domain.PackagingSpec, error) {
	if err := r.m.hit("specs"); err != nil {
		return nil, err
	}
	out := []domain.PackagingSpec{}
	for _, s := range r.m.specs {
		if productIDs == nil || containsID(productIDs, s.ProductID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r catalogRepo) ListSpecsByProduct(ctx context.Context, productID uuid.UUID, sizeOptionID *uuid.UUID) ([]domain.PackagingSpec, error) {
	out := []domain.PackagingSpec{}
	for _, s := range r.m.specs {
		if s.ProductID != productID {
			continue
		}
		if sizeOptionID != nil && (s.SizeOptionID == nil || *s.SizeOptionID != *sizeOptionID) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r catalogRepo) FindSpec(ctx context.Context, id uuid.UUID) (*domain.PackagingSpec, error) {
	for i := range r.m.specs {
		if r.m.specs[i].ID == id {
			s := r.m.specs[i]
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

type prefRepo struct{ m *memStore }

func (r prefRepo) List(ctx context.Context, hubID *uuid.UUID) ([]domain.HubProductPreference, error) {
	if err := r.m.hit("prefs"); err != nil {
		return nil, err
	}
	out := []domain.HubProductPreference{}
	for _, p := range r.m.prefs {
		if p.IsActive && (hubID == nil || p.HubID == *hubID) {
			out = append(out, p)
		}
	}
	return out, nil
}

type supplierRepo struct{ m *memStore }

func (r supplierRepo) ListActiveCapabilities(ctx context.Context) ([]domain.SupplierCapability, error) {
	if err := r.m.hit("caps"); err != nil {
		return nil, err
	}
	return append([]domain.SupplierCapability(nil), r.m.caps...), nil
}

func (r supplierRepo) ListActivePrices(ctx context.Context) ([]domain.SupplierPrice, error) {
	if err := r.m.hit("prices"); err != nil {
		return nil, err
	}
	out := []domain.SupplierPrice{}
	for _, p := range r.m.prices {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r supplierRepo) ListPricesForSpecs(ctx context.Context, specIDs []uuid.UUID) ([]domain.SupplierPrice, error) {
	out := []domain.SupplierPrice{}
	for _, p := range r.m.prices {
		if containsID(specIDs, p.SpecID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r supplierRepo) ListLogistics(ctx context.Context, supplierIDs []uuid.UUID) ([]domain.SupplierLogistics, error) {
	out := []domain.SupplierLogistics{}
	for _, l := range r.m.supLogistics {
		if containsID(supplierIDs, l.SupplierID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r supplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	for i := range r.m.suppliers {
		if r.m.suppliers[i].ID == id {
			s := r.m.suppliers[i]
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r supplierRepo) FindByCode(ctx context.Context, code string) (*domain.Supplier, error) {
	for i := range r.m.suppliers {
		if r.m.suppliers[i].Code == code {
			s := r.m.suppliers[i]
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r supplierRepo) ReplacePrice(ctx context.Context, p *domain.SupplierPrice) (*domain.SupplierPrice, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.hit("replace"); err != nil {
		return nil, err
	}
	for i := range r.m.prices {
		o := &r.m.prices[i]
		if o.IsActive && o.SupplierID == p.SupplierID && o.SpecID == p.SpecID && o.HubID == p.HubID && o.DeliveryMode == p.DeliveryMode {
			o.IsActive = false
		}
	}
	r.m.prices = append(r.m.prices, *p)
	return p, nil
}

type routeRepo struct{ m *memStore }

func (r routeRepo) ListActive(ctx context.Context) ([]domain.TransporterRoute, error) {
	if err := r.m.hit("routes"); err != nil {
		return nil, err
	}
	return append([]domain.TransporterRoute(nil), r.m.routes...), nil
}

type customerRepo struct{ m *memStore }

func (r customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	for i := range r.m.customers {
		if r.m.customers[i].ID == id {
			c := r.m.customers[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r customerRepo) ListRequirements(ctx context.Context, customerID *uuid.UUID) ([]domain.CustomerProductRequirement, error) {
	out := []domain.CustomerProductRequirement{}
	for _, q := range r.m.requirements {
		if q.IsActive && (customerID == nil || q.CustomerID == *customerID) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r customerRepo) ListLogistics(ctx context.Context, customerIDs []uuid.UUID) ([]domain.CustomerLogistics, error) {
	out := []domain.CustomerLogistics{}
	for _, l := range r.m.custLogistics {
		if containsID(customerIDs, l.CustomerID) {
			out = append(out, l)
		}
	}
	return out, nil
}

type oppRepo struct{ m *memStore }

func (r oppRepo) ListActive(ctx context.Context) ([]domain.Opportunity, error) {
	if err := r.m.hit("opps"); err != nil {
		return nil, err
	}
	out := []domain.Opportunity{}
	for _, o := range r.m.opps {
		if o.IsActive {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r oppRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Opportunity, error) {
	for i := range r.m.opps {
		if r.m.opps[i].ID == id {
			o := r.m.opps[i]
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r oppRepo) Create(ctx context.Context, o *domain.Opportunity) error {
	r.m.opps = append(r.m.opps, *o)
	return nil
}

func (r oppRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OpportunityStatus) error {
	for i := range r.m.opps {
		if r.m.opps[i].ID == id {
			r.m.opps[i].Status = status
			if status == domain.OpportunityStatusExpired {
				r.m.opps[i].IsActive = false
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r oppRepo) DeactivateStale(ctx context.Context, ev domain.SupplierPriceChanged, reason string) (int64, error) {
	if err := r.m.hit("deactivate"); err != nil {
		return 0, err
	}
	var n int64
	for i := range r.m.opps {
		o := &r.m.opps[i]
		if !o.IsActive || o.SupplierID != ev.SupplierID || o.SupplierPricePerUnit == ev.PricePerUnit {
			continue
		}
		if ev.SpecID != nil && o.SpecID != *ev.SpecID {
			continue
		}
		o.IsActive = false
		o.Status = domain.OpportunityStatusExpired
		o.DeactivatedReason = reason
		n++
	}
	return n, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
