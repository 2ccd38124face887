package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	apperrors "osfr/internal/errors"
	"osfr/internal/model"
	"osfr/internal/repository"
)

type softwareFixture struct {
	repo    *MockSoftwareRepository
	catalog *MockCatalogService
	store   *memStore
	remover *syncRemover
	service SoftwareService
}

func newSoftwareFixture(t *testing.T) *softwareFixture {
	f := &softwareFixture{
		repo:    new(MockSoftwareRepository),
		catalog: new(MockCatalogService),
		store:   newMemStore(),
		remover: &syncRemover{},
	}
	f.service = NewSoftwareService(f.repo, f.catalog, f.store, f.remover, zaptest.NewLogger(t))
	return f
}

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }

func upload(name, content string) *Upload {
	return &Upload{Filename: name, Size: int64(len(content)), Content: strings.NewReader(content)}
}

func (f *softwareFixture) put(t *testing.T, name, content string) string {
	p, _, err := f.store.Put(context.Background(), name, strings.NewReader(content))
	require.NoError(t, err)
	return p
}

func TestSoftwareService_Create(t *testing.T) {
	f := newSoftwareFixture(t)
	f.catalog.On("CategoryExists", mock.Anything, uint(3)).Return(true, nil)
	f.catalog.On("Invalidate", mock.Anything, mock.Anything).Return()
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Software")).
		Run(func(args mock.Arguments) { args.Get(1).(*model.Software).ID = 11 }).
		Return(nil)

	sw, err := f.service.Create(context.Background(), SoftwareInput{
		Name:        strPtr("My Tool!"),
		Description: strPtr("does things"),
		CategoryID:  uintPtr(3),
	}, upload("setup.exe", "MZ binary"))

	require.NoError(t, err)
	assert.Equal(t, uint(11), sw.ID)
	assert.Equal(t, "does things", sw.Description)
	require.NotNil(t, sw.FilePath)

	base := path.Base(*sw.FilePath)
	assert.True(t, strings.HasPrefix(base, "MyTool-"), base)
	assert.True(t, strings.HasSuffix(base, ".exe"), base)
	assert.Equal(t, []string{*sw.FilePath}, f.store.paths())

	f.repo.AssertExpectations(t)
	f.catalog.AssertExpectations(t)
}

func TestSoftwareService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		input  SoftwareInput
		upload *Upload
		setup  func(*MockCatalogService)
	}{
		{
			name:   "no file",
			input:  SoftwareInput{Name: strPtr("Tool"), CategoryID: uintPtr(1)},
			upload: nil,
		},
		{
			name:   "empty file",
			input:  SoftwareInput{Name: strPtr("Tool"), CategoryID: uintPtr(1)},
			upload: upload("tool.exe", ""),
		},
		{
			name:   "missing name",
			input:  SoftwareInput{CategoryID: uintPtr(1)},
			upload: upload("tool.exe", "data"),
		},
		{
			name:   "blank name",
			input:  SoftwareInput{Name: strPtr("  "), CategoryID: uintPtr(1)},
			upload: upload("tool.exe", "data"),
		},
		{
			name:   "missing category",
			input:  SoftwareInput{Name: strPtr("Tool")},
			upload: upload("tool.exe", "data"),
		},
		{
			name:   "unknown category",
			input:  SoftwareInput{Name: strPtr("Tool"), CategoryID: uintPtr(99)},
			upload: upload("tool.exe", "data"),
			setup: func(m *MockCatalogService) {
				m.On("CategoryExists", mock.Anything, uint(99)).Return(false, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSoftwareFixture(t)
			if tt.setup != nil {
				tt.setup(f.catalog)
			}

			sw, err := f.service.Create(context.Background(), tt.input, tt.upload)

			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Nil(t, sw)
			assert.Empty(t, f.store.paths())
			f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestSoftwareService_CreateRemovesFileWhenInsertFails(t *testing.T) {
	f := newSoftwareFixture(t)
	f.catalog.On("CategoryExists", mock.Anything, uint(1)).Return(true, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	_, err := f.service.Create(context.Background(), SoftwareInput{Name: strPtr("Tool"), CategoryID: uintPtr(1)}, upload("t.zip", "zip"))

	assert.Error(t, err)
	assert.Len(t, f.remover.removed, 1)
	assert.Empty(t, f.store.paths())
}

func TestSoftwareService_ReplaceWithFile(t *testing.T) {
	f := newSoftwareFixture(t)
	oldPath := f.put(t, "Tool-1.exe", "old")
	existing := &model.Software{ID: 5, CategoryID: 1, Name: "Tool", FilePath: &oldPath, Version: 2}

	var newPath string
	f.repo.On("FindByID", mock.Anything, uint(5)).Return(existing, nil).Once()
	f.repo.On("UpdateVersioned", mock.Anything, uint(5), uint(2), mock.MatchedBy(func(c repository.SoftwareChanges) bool {
		if c.FilePath == nil {
			return false
		}
		newPath = *c.FilePath
		return c.Name == nil
	})).Return(true, nil)
	f.repo.On("FindByID", mock.Anything, uint(5)).Return(&model.Software{ID: 5, CategoryID: 1, Name: "Tool", Version: 3}, nil).Once()
	f.catalog.On("Invalidate", mock.Anything, mock.Anything).Return()

	sw, err := f.service.Replace(context.Background(), 5, SoftwareInput{}, upload("tool-v2.exe", "new"))

	require.NoError(t, err)
	assert.Equal(t, uint(3), sw.Version)
	assert.NotEqual(t, oldPath, newPath)
	assert.False(t, f.store.has(oldPath), "previous file is removed")
	assert.True(t, f.store.has(newPath), "new file is kept")
	assert.Equal(t, []string{oldPath}, f.remover.removed)
	f.repo.AssertExpectations(t)
}

func TestSoftwareService_ReplaceConflict(t *testing.T) {
	f := newSoftwareFixture(t)
	oldPath := f.put(t, "Tool-1.exe", "old")
	existing := &model.Software{ID: 5, CategoryID: 1, Name: "Tool", FilePath: &oldPath, Version: 2}

	f.repo.On("FindByID", mock.Anything, uint(5)).Return(existing, nil)
	f.repo.On("UpdateVersioned", mock.Anything, uint(5), uint(2), mock.Anything).Return(false, nil)

	_, err := f.service.Replace(context.Background(), 5, SoftwareInput{}, upload("tool.exe", "new"))

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, []string{oldPath}, f.store.paths(), "only the original file remains")
	f.catalog.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestSoftwareService_ReplaceMetadataOnly(t *testing.T) {
	f := newSoftwareFixture(t)
	oldPath := f.put(t, "Tool-1.exe", "old")
	existing := &model.Software{ID: 5, CategoryID: 1, Name: "Tool", FilePath: &oldPath, Version: 1}

	f.repo.On("FindByID", mock.Anything, uint(5)).Return(existing, nil)
	f.catalog.On("CategoryExists", mock.Anything, uint(2)).Return(true, nil)
	f.repo.On("UpdateVersioned", mock.Anything, uint(5), uint(1), mock.MatchedBy(func(c repository.SoftwareChanges) bool {
		return c.FilePath == nil && c.Name != nil && *c.Name == "Renamed" && c.CategoryID != nil && *c.CategoryID == 2
	})).Return(true, nil)
	f.catalog.On("Invalidate", mock.Anything, []uint{1, 2}).Return()

	_, err := f.service.Replace(context.Background(), 5, SoftwareInput{Name: strPtr("Renamed"), CategoryID: uintPtr(2)}, nil)

	require.NoError(t, err)
	assert.True(t, f.store.has(oldPath))
	assert.Empty(t, f.remover.removed)
	f.catalog.AssertExpectations(t)
}

func TestSoftwareService_ReplaceErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newSoftwareFixture(t)
		f.repo.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

		_, err := f.service.Replace(context.Background(), 9, SoftwareInput{}, upload("a.exe", "x"))

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.Empty(t, f.store.paths())
	})

	t.Run("empty name", func(t *testing.T) {
		f := newSoftwareFixture(t)
		f.repo.On("FindByID", mock.Anything, uint(5)).Return(&model.Software{ID: 5, Name: "Tool", Version: 1}, nil)

		_, err := f.service.Replace(context.Background(), 5, SoftwareInput{Name: strPtr("")}, upload("a.exe", "x"))

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Empty(t, f.store.paths())
	})

	t.Run("update failure removes new file", func(t *testing.T) {
		f := newSoftwareFixture(t)
		f.repo.On("FindByID", mock.Anything, uint(5)).Return(&model.Software{ID: 5, Name: "Tool", Version: 1}, nil)
		f.repo.On("UpdateVersioned", mock.Anything, uint(5), uint(1), mock.Anything).Return(false, errors.New("db down"))

		_, err := f.service.Replace(context.Background(), 5, SoftwareInput{}, upload("a.exe", "x"))

		assert.Error(t, err)
		assert.Empty(t, f.store.paths())
	})
}

func TestSoftwareService_Delete(t *testing.T) {
	t.Run("removes row then file", func(t *testing.T) {
		f := newSoftwareFixture(t)
		p := f.put(t, "Tool-1.exe", "bin")
		f.repo.On("DeleteLocked", mock.Anything, uint(4)).Return(&model.Software{ID: 4, CategoryID: 2, FilePath: &p}, nil)
		f.catalog.On("Invalidate", mock.Anything, []uint{2}).Return()

		err := f.service.Delete(context.Background(), 4)

		require.NoError(t, err)
		assert.False(t, f.store.has(p))
		f.catalog.AssertExpectations(t)
	})

	t.Run("row without file", func(t *testing.T) {
		f := newSoftwareFixture(t)
		f.repo.On("DeleteLocked", mock.Anything, uint(4)).Return(&model.Software{ID: 4, CategoryID: 2}, nil)
		f.catalog.On("Invalidate", mock.Anything, mock.Anything).Return()

		require.NoError(t, f.service.Delete(context.Background(), 4))
		assert.Empty(t, f.remover.removed)
	})

	t.Run("not found", func(t *testing.T) {
		f := newSoftwareFixture(t)
		f.repo.On("DeleteLocked", mock.Anything, uint(4)).Return(nil, gorm.ErrRecordNotFound)

		assert.ErrorIs(t, f.service.Delete(context.Background(), 4), apperrors.ErrNotFound)
	})
}

func TestSoftwareService_Download(t *testing.T) {
	f := newSoftwareFixture(t)
	p := f.put(t, "Tool-1.exe", "binary-content")
	missing := "mem/gone.exe"

	f.repo.On("FindByID", mock.Anything, uint(1)).Return(&model.Software{ID: 1, Name: "Tool", FilePath: &p}, nil)
	f.repo.On("FindByID", mock.Anything, uint(2)).Return(&model.Software{ID: 2, Name: "NoFile"}, nil)
	f.repo.On("FindByID", mock.Anything, uint(3)).Return(&model.Software{ID: 3, Name: "Gone", FilePath: &missing}, nil)
	f.repo.On("FindByID", mock.Anything, uint(4)).Return(nil, gorm.ErrRecordNotFound)

	dl, err := f.service.Download(context.Background(), 1)
	require.NoError(t, err)
	defer dl.Object.Close()
	assert.Equal(t, "Tool.exe", dl.Filename)
	body, err := io.ReadAll(dl.Object)
	require.NoError(t, err)
	assert.Equal(t, "binary-content", string(body))

	for _, id := range []uint{2, 3, 4} {
		_, err := f.service.Download(context.Background(), id)
		assert.ErrorIs(t, err, apperrors.ErrNotFound, "id %d", id)
	}
}
