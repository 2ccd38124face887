package service

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"osfr/internal/model"
	"osfr/internal/repository"
	"osfr/internal/storage"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uint) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByUsernameCaseInsensitive(ctx context.Context, username string) (*model.Account, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

// MockResourceRepository is a mock implementation of ResourceRepository.
type MockResourceRepository struct {
	mock.Mock
}

func (m *MockResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	args := m.Called(ctx, resource)
	return args.Error(0)
}

func (m *MockResourceRepository) Update(ctx context.Context, resource *model.Resource) (bool, error) {
	args := m.Called(ctx, resource)
	return args.Bool(0), args.Error(1)
}

func (m *MockResourceRepository) Delete(ctx context.Context, id uint) (*model.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resource), args.Error(1)
}

func (m *MockResourceRepository) FindByID(ctx context.Context, id uint) (*model.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resource), args.Error(1)
}

func (m *MockResourceRepository) List(ctx context.Context, categoryID *uint) ([]model.Resource, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Resource), args.Error(1)
}

// MockInstructionRepository is a mock implementation of InstructionRepository.
type MockInstructionRepository struct {
	mock.Mock
}

func (m *MockInstructionRepository) Create(ctx context.Context, instruction *model.Instruction) error {
	args := m.Called(ctx, instruction)
	return args.Error(0)
}

func (m *MockInstructionRepository) Update(ctx context.Context, instruction *model.Instruction) (bool, error) {
	args := m.Called(ctx, instruction)
	return args.Bool(0), args.Error(1)
}

func (m *MockInstructionRepository) Delete(ctx context.Context, id uint) (*model.Instruction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Instruction), args.Error(1)
}

func (m *MockInstructionRepository) FindByID(ctx context.Context, id uint) (*model.Instruction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Instruction), args.Error(1)
}

func (m *MockInstructionRepository) List(ctx context.Context, categoryID *uint) ([]model.Instruction, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Instruction), args.Error(1)
}

// MockSoftwareRepository is a mock implementation of SoftwareRepository.
type MockSoftwareRepository struct {
	mock.Mock
}

func (m *MockSoftwareRepository) Create(ctx context.Context, software *model.Software) error {
	args := m.Called(ctx, software)
	return args.Error(0)
}

func (m *MockSoftwareRepository) FindByID(ctx context.Context, id uint) (*model.Software, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Software), args.Error(1)
}

func (m *MockSoftwareRepository) List(ctx context.Context, categoryID *uint) ([]model.Software, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Software), args.Error(1)
}

func (m *MockSoftwareRepository) UpdateVersioned(ctx context.Context, id, version uint, changes repository.SoftwareChanges) (bool, error) {
	args := m.Called(ctx, id, version, changes)
	return args.Bool(0), args.Error(1)
}

func (m *MockSoftwareRepository) DeleteLocked(ctx context.Context, id uint) (*model.Software, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Software), args.Error(1)
}

// MockImageRepository is a mock implementation of ImageRepository.
type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) Create(ctx context.Context, image *model.Image) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockImageRepository) FindByFilename(ctx context.Context, filename string) (*model.Image, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Image), args.Error(1)
}

func (m *MockImageRepository) DeleteByFilename(ctx context.Context, filename string) (*model.Image, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Image), args.Error(1)
}

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) Categories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCatalogService) Items(ctx context.Context, categoryName string) ([]model.Item, error) {
	args := m.Called(ctx, categoryName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Item), args.Error(1)
}

func (m *MockCatalogService) CategoryExists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogService) Invalidate(ctx context.Context, categoryIDs ...uint) {
	m.Called(ctx, categoryIDs)
}

// memStore is an in-memory artifact store.
type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (s *memStore) Put(ctx context.Context, name string, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	path := "mem/" + name
	if _, ok := s.objects[path]; ok {
		return "", 0, storage.ErrExist
	}
	s.objects[path] = data
	return path, int64(len(data)), nil
}

func (s *memStore) Open(ctx context.Context, path string) (*storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[path]
	if !ok {
		return nil, storage.ErrNotExist
	}
	return &storage.Object{
		ReadCloser: io.NopCloser(bytes.NewReader(data)),
		Size:       int64(len(data)),
	}, nil
}

func (s *memStore) Remove(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[path]; !ok {
		return storage.ErrNotExist
	}
	delete(s.objects, path)
	return nil
}

func (s *memStore) paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for p := range s.objects {
		out = append(out, p)
	}
	return out
}

func (s *memStore) has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[path]
	return ok
}

// syncRemover removes artifacts immediately and records what it removed.
type syncRemover struct {
	removed []string
}

func (r *syncRemover) Remove(store storage.Store, path string) {
	if path == "" {
		return
	}
	r.removed = append(r.removed, path)
	_ = store.Remove(context.Background(), path)
}
