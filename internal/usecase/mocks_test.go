package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/poi-mashup/internal/domain"
	"github.com/poi-mashup/internal/domain/repository"
)

// MockGeocoder is a mock of Geocoder
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (*repository.GeocodeResult, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.GeocodeResult), args.Error(1)
}

// MockMapRepository is a mock of MapRepository
type MockMapRepository struct {
	mock.Mock
}

func (m *MockMapRepository) GetByItemAndField(ctx context.Context, itemID int64, field string) (*domain.Map, error) {
	args := m.Called(ctx, itemID, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Map), args.Error(1)
}

func (m *MockMapRepository) GetAllByItem(ctx context.Context, itemID int64) ([]*domain.Map, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Map), args.Error(1)
}

func (m *MockMapRepository) Save(ctx context.Context, mp *domain.Map, itemID int64) error {
	args := m.Called(ctx, mp, itemID)
	return args.Error(0)
}

func (m *MockMapRepository) Delete(ctx context.Context, itemID, mapID int64) error {
	args := m.Called(ctx, itemID, mapID)
	return args.Error(0)
}

// MockMetadataRepository is a mock of MetadataRepository
type MockMetadataRepository struct {
	mock.Mock
}

func (m *MockMetadataRepository) GetOrderedValues(ctx context.Context, itemID int64, field string) ([]string, error) {
	args := m.Called(ctx, itemID, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMetadataRepository) ReplaceValues(ctx context.Context, itemID int64, field string, values []string) error {
	args := m.Called(ctx, itemID, field, values)
	return args.Error(0)
}

func (m *MockMetadataRepository) DeleteAllValues(ctx context.Context, itemID int64, field string) error {
	args := m.Called(ctx, itemID, field)
	return args.Error(0)
}

// MockContentRepository is a mock of ContentRepository
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) Query(ctx context.Context, filter domain.StructuredFilter) ([]*domain.ContentItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentItem), args.Error(1)
}

func (m *MockContentRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.ContentItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ContentItem), args.Error(1)
}

func (m *MockContentRepository) Excerpt(ctx context.Context, scope *domain.RequestScope) (string, error) {
	args := m.Called(ctx, scope)
	return args.String(0), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) GetGeocode(ctx context.Context, address string) (*repository.GeocodeResult, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.GeocodeResult), args.Error(1)
}

func (m *MockCacheRepository) SetGeocode(ctx context.Context, address string, result *repository.GeocodeResult, ttl time.Duration) error {
	args := m.Called(ctx, address, result, ttl)
	return args.Error(0)
}

// memoryMapRepository - in-memory MapRepository for multi-pass scenarios
type memoryMapRepository struct {
	mu     sync.Mutex
	nextID int64
	maps   map[int64]*domain.Map
}

func newMemoryMapRepository() *memoryMapRepository {
	return &memoryMapRepository{maps: make(map[int64]*domain.Map)}
}

func (r *memoryMapRepository) GetByItemAndField(_ context.Context, itemID int64, field string) (*domain.Map, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.maps {
		if m.ItemID == itemID && m.MetaKey == field {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryMapRepository) GetAllByItem(_ context.Context, itemID int64) ([]*domain.Map, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Map
	for _, m := range r.maps {
		if m.ItemID == itemID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryMapRepository) Save(_ context.Context, m *domain.Map, itemID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == 0 {
		r.nextID++
		m.ID = r.nextID
	}
	m.ItemID = itemID
	cp := *m
	r.maps[m.ID] = &cp
	return nil
}

func (r *memoryMapRepository) Delete(_ context.Context, itemID, mapID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.maps[mapID]; ok && m.ItemID == itemID {
		delete(r.maps, mapID)
	}
	return nil
}

func (r *memoryMapRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.maps)
}

type metaKey struct {
	itemID int64
	field  string
}

// memoryMetadataRepository - in-memory MetadataRepository, keeps insertion order
type memoryMetadataRepository struct {
	mu     sync.Mutex
	values map[metaKey][]string
}

func newMemoryMetadataRepository() *memoryMetadataRepository {
	return &memoryMetadataRepository{values: make(map[metaKey][]string)}
}

func (r *memoryMetadataRepository) GetOrderedValues(_ context.Context, itemID int64, field string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.values[metaKey{itemID, field}]...), nil
}

func (r *memoryMetadataRepository) ReplaceValues(_ context.Context, itemID int64, field string, values []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[metaKey{itemID, field}] = append([]string(nil), values...)
	return nil
}

func (r *memoryMetadataRepository) DeleteAllValues(_ context.Context, itemID int64, field string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, metaKey{itemID, field})
	return nil
}
