package orders_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain/entity"
	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// memStore guarda órdenes, líneas e historial en memoria para los tres tipos.
type memStore struct {
	mu      sync.Mutex
	orders  map[string]*entity.Order
	items   map[string][]*entity.OrderItem
	seq     map[string]int
	history []*entity.PriceHistory
}

func newMemStore() *memStore {
	return &memStore{
		orders: map[string]*entity.Order{},
		items:  map[string][]*entity.OrderItem{},
		seq:    map[string]int{},
	}
}

func (s *memStore) repos() repository.OrderRepos {
	return func(kind entity.OrderKind) repository.OrderRepository {
		return &memOrderRepo{s: s, kind: kind}
	}
}

type memOrderRepo struct {
	s    *memStore
	kind entity.OrderKind
}

func (r *memOrderRepo) NextNumber(_ context.Context, companyID string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := companyID + "/" + string(r.kind)
	r.s.seq[key]++
	return fmt.Sprintf("%s-%06d", r.kind.NumberPrefix(), r.s.seq[key]), nil
}

func (r *memOrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *o
	r.s.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) CreateItem(_ context.Context, it *entity.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *it
	r.s.items[it.OrderID] = append(r.s.items[it.OrderID], &cp)
	return nil
}

func (r *memOrderRepo) Update(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *o
	r.s.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) DeleteItems(_ context.Context, orderID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.items, orderID)
	return nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id, status string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.orders[id]; ok {
		o.Status = status
		o.UpdatedAt = at
	}
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok || o.Kind != r.kind {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *memOrderRepo) GetItems(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.OrderItem, 0, len(r.s.items[orderID]))
	for _, it := range r.s.items[orderID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memOrderRepo) ListByCompany(_ context.Context, companyID string, f repository.OrderFilter) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.Kind == r.kind && o.CompanyID == companyID && (f.Status == "" || o.Status == f.Status) {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *memOrderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.orders, id)
	return nil
}

type memHistory struct{ s *memStore }

func (h memHistory) Create(_ context.Context, rec *entity.PriceHistory) error {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	h.s.history = append(h.s.history, rec)
	return nil
}

func (h memHistory) ListByMaterial(_ context.Context, companyID, materialID string, limit int) ([]*entity.PriceHistory, error) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	var out []*entity.PriceHistory
	for i := len(h.s.history) - 1; i >= 0 && len(out) < limit; i-- {
		if rec := h.s.history[i]; rec.CompanyID == companyID && rec.MaterialID == materialID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// memTx ejecuta fn directamente sobre el store.
type memTx struct{ s *memStore }

func (t memTx) RunOrders(_ context.Context, fn func(repository.OrderRepos, repository.PriceHistoryRepository) error) error {
	return fn(t.s.repos(), memHistory{s: t.s})
}

type memSuppliers struct{ byID map[string]*entity.Supplier }

func (m memSuppliers) Create(context.Context, *entity.Supplier) error { return nil }
func (m memSuppliers) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	return m.byID[id], nil
}
func (m memSuppliers) GetByCompanyAndRIF(context.Context, string, string) (*entity.Supplier, error) {
	return nil, nil
}
func (m memSuppliers) ListByCompany(context.Context, string, int, int) ([]*entity.Supplier, error) {
	return nil, nil
}
func (m memSuppliers) Update(context.Context, *entity.Supplier) error { return nil }
func (m memSuppliers) Delete(context.Context, string) error           { return nil }

type memMaterials struct{ byID map[string]*entity.Material }

func (m memMaterials) Create(context.Context, *entity.Material) error { return nil }
func (m memMaterials) GetByID(_ context.Context, id string) (*entity.Material, error) {
	return m.byID[id], nil
}
func (m memMaterials) GetByCompanyAndCode(context.Context, string, string) (*entity.Material, error) {
	return nil, nil
}
func (m memMaterials) ListByCompany(context.Context, string, int, int) ([]*entity.Material, error) {
	return nil, nil
}
func (m memMaterials) Update(context.Context, *entity.Material) error { return nil }
func (m memMaterials) Delete(context.Context, string) error           { return nil }

type countingMetrics struct {
	mu      sync.Mutex
	created map[string]int
	status  map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{created: map[string]int{}, status: map[string]int{}}
}

func (m *countingMetrics) OrderCreated(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created[kind]++
}

func (m *countingMetrics) StatusChanged(kind, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status[kind+"/"+status]++
}
