package repositories

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/collection"
)

// MemoryVariantStore is an in-process VariantStore.
type MemoryVariantStore struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	data  map[primitive.ObjectID]models.Variant
}

func NewMemoryVariantStore() *MemoryVariantStore {
	return &MemoryVariantStore{data: make(map[primitive.ObjectID]models.Variant)}
}

func (s *MemoryVariantStore) Create(_ context.Context, v *models.Variant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	if _, exists := s.data[v.ID]; !exists {
		s.order = append(s.order, v.ID)
	}
	s.data[v.ID] = *v
	return nil
}

func (s *MemoryVariantStore) FindByID(_ context.Context, id string) (models.Variant, error) {
	oid, err := ParseID(id)
	if err != nil {
		return models.Variant{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	v, found := s.data[oid]
	if !found {
		return models.Variant{}, ErrNotFound
	}
	return v, nil
}

func (s *MemoryVariantStore) FindMany(_ context.Context, ids []primitive.ObjectID) ([]models.Variant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Variant{}
	seen := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		if v, found := s.data[id]; found && !seen[id] {
			seen[id] = true
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *MemoryVariantStore) UpdateByID(_ context.Context, id string, f models.VariantFields) (models.Variant, error) {
	oid, err := ParseID(id)
	if err != nil {
		return models.Variant{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	v, found := s.data[oid]
	if !found {
		return models.Variant{}, ErrNotFound
	}
	f.ApplyTo(&v)
	s.data[oid] = v
	return v, nil
}

func (s *MemoryVariantStore) DeleteByID(_ context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.data[oid]; !found {
		return ErrNotFound
	}
	s.remove(oid)
	return nil
}

func (s *MemoryVariantStore) DeleteMany(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, id := range ids {
		if _, found := s.data[id]; found {
			s.remove(id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored variants.
func (s *MemoryVariantStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// remove must be called with mu held.
func (s *MemoryVariantStore) remove(id primitive.ObjectID) {
	delete(s.data, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// MemoryProductStore is an in-process ProductStore. It resolves variant
// references against the given variant store.
type MemoryProductStore struct {
	mu       sync.RWMutex
	order    []primitive.ObjectID
	data     map[primitive.ObjectID]models.Product
	variants *MemoryVariantStore
}

func NewMemoryProductStore(variants *MemoryVariantStore) *MemoryProductStore {
	return &MemoryProductStore{
		data:     make(map[primitive.ObjectID]models.Product),
		variants: variants,
	}
}

func (s *MemoryProductStore) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.VariantIDs == nil {
		p.VariantIDs = []primitive.ObjectID{}
	}
	if _, exists := s.data[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	s.data[p.ID] = stored(*p)
	return nil
}

func (s *MemoryProductStore) FindAll(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	products := make([]models.Product, 0, len(s.order))
	for _, id := range s.order {
		products = append(products, stored(s.data[id]))
	}
	s.mu.RUnlock()

	found, err := s.variants.FindMany(ctx, collection.FlatMap(products, productRefs))
	if err != nil {
		return nil, err
	}

	byID := collection.KeyBy(found, variantKey)
	for i := range products {
		products[i].Variants = collection.Resolve(products[i].VariantIDs, byID)
	}
	return products, nil
}

func (s *MemoryProductStore) FindByID(_ context.Context, id string) (models.Product, error) {
	oid, err := ParseID(id)
	if err != nil {
		return models.Product{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	p, found := s.data[oid]
	if !found {
		return models.Product{}, ErrNotFound
	}
	return stored(p), nil
}

func (s *MemoryProductStore) UpdateByID(_ context.Context, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.data[p.ID]; !found {
		return ErrNotFound
	}
	if p.VariantIDs == nil {
		p.VariantIDs = []primitive.ObjectID{}
	}
	s.data[p.ID] = stored(p)
	return nil
}

func (s *MemoryProductStore) DeleteByID(_ context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.data[oid]; !found {
		return ErrNotFound
	}
	delete(s.data, oid)
	for i, o := range s.order {
		if o == oid {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryProductStore) PullVariant(_ context.Context, variantID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, p := range s.data {
		if kept, removed := collection.Without(p.VariantIDs, variantID); removed {
			p.VariantIDs = kept
			s.data[id] = p
			n++
		}
	}
	return n, nil
}

// stored strips resolved variants and copies the reference slice so callers
// never share backing arrays with the store.
func stored(p models.Product) models.Product {
	p.Variants = nil
	p.VariantIDs = append([]primitive.ObjectID{}, p.VariantIDs...)
	return p
}
