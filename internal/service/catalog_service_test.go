package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"osfr/internal/cache"
	apperrors "osfr/internal/errors"
	"osfr/internal/model"
)

type catalogFixture struct {
	categories   *MockCategoryRepository
	resources    *MockResourceRepository
	instructions *MockInstructionRepository
	software     *MockSoftwareRepository
	service      CatalogService
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		categories:   new(MockCategoryRepository),
		resources:    new(MockResourceRepository),
		instructions: new(MockInstructionRepository),
		software:     new(MockSoftwareRepository),
	}
	// no redis configured: every call reaches the repositories
	f.service = NewCatalogService(f.categories, f.resources, f.instructions, f.software, cache.New("", "", 0))
	return f
}

func TestCatalogService_Items(t *testing.T) {
	f := newCatalogFixture()
	path := "/srv/software/Tool-1.exe"
	categoryID := uint(2)

	f.categories.On("FindByName", mock.Anything, "Office").Return(&model.Category{ID: 2, Name: "Office"}, nil)
	f.resources.On("List", mock.Anything, &categoryID).Return([]model.Resource{
		{ID: 1, Name: "Mail", Service: "webmail", URL: "https://mail.example.org", CategoryID: 2},
	}, nil)
	f.instructions.On("List", mock.Anything, &categoryID).Return([]model.Instruction{
		{ID: 4, Title: "Setup", Content: "<p>hi</p>", CategoryID: 2},
	}, nil)
	f.software.On("List", mock.Anything, &categoryID).Return([]model.Software{
		{ID: 9, Name: "Tool", Description: "d", FilePath: &path, CategoryID: 2},
	}, nil)

	items, err := f.service.Items(context.Background(), "Office")

	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, model.ItemTypeResource, items[0].Type)
	assert.Equal(t, "webmail", *items[0].Service)
	assert.Equal(t, model.ItemTypeInstruction, items[1].Type)
	assert.Equal(t, "Setup", items[1].Name)
	assert.Nil(t, items[1].URL)
	assert.Equal(t, model.ItemTypeSoftware, items[2].Type)
	assert.Equal(t, &path, items[2].FilePath)
}

func TestCatalogService_ItemsAll(t *testing.T) {
	f := newCatalogFixture()
	var none *uint
	f.resources.On("List", mock.Anything, none).Return([]model.Resource{}, nil)
	f.instructions.On("List", mock.Anything, none).Return([]model.Instruction{}, nil)
	f.software.On("List", mock.Anything, none).Return([]model.Software{}, nil)

	items, err := f.service.Items(context.Background(), "")

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	f.categories.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
}

func TestCatalogService_ItemsUnknownCategory(t *testing.T) {
	f := newCatalogFixture()
	f.categories.On("FindByName", mock.Anything, "Nope").Return(nil, gorm.ErrRecordNotFound)

	_, err := f.service.Items(context.Background(), "Nope")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogService_Categories(t *testing.T) {
	f := newCatalogFixture()
	f.categories.On("List", mock.Anything).Return(nil, nil).Once()
	f.categories.On("List", mock.Anything).Return(nil, errors.New("db down")).Once()

	categories, err := f.service.Categories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, categories, "empty list encodes as []")

	_, err = f.service.Categories(context.Background())
	assert.Error(t, err)
}

func TestCatalogService_CategoryExists(t *testing.T) {
	f := newCatalogFixture()
	f.categories.On("FindByID", mock.Anything, uint(1)).Return(&model.Category{ID: 1}, nil)
	f.categories.On("FindByID", mock.Anything, uint(2)).Return(nil, gorm.ErrRecordNotFound)

	ok, err := f.service.CategoryExists(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.service.CategoryExists(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.service.CategoryExists(context.Background(), 0)
	require.NoError(t, err)
	assert.False(t, ok)
}
