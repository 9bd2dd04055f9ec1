package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
	services "github.com/magabrotheeeer/finalworks-platform/internal/services/tag"
	"github.com/magabrotheeeer/finalworks-platform/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type TagRepoMock struct {
	mock.Mock
}

func (m *TagRepoMock) ListTags(ctx context.Context) ([]*models.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Tag), args.Error(1)
}

func (m *TagRepoMock) PopularTags(ctx context.Context) ([]*models.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Tag), args.Error(1)
}

func (m *TagRepoMock) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *TagRepoMock) FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

// CacheMock — простой кеш в памяти без TTL для тестов.
type CacheMock struct {
	values map[string][]*models.Tag
}

func newCacheMock() *CacheMock {
	return &CacheMock{values: make(map[string][]*models.Tag)}
}

func (c *CacheMock) Get(key string, result any) (bool, error) {
	v, ok := c.values[key]
	if !ok {
		return false, nil
	}
	*result.(*[]*models.Tag) = v
	return true, nil
}

func (c *CacheMock) Set(key string, value any, _ time.Duration) error {
	c.values[key] = value.([]*models.Tag)
	return nil
}

func (c *CacheMock) Invalidate(key string) error {
	delete(c.values, key)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTagService_Popular_UsesCache(t *testing.T) {
	repo := new(TagRepoMock)
	repo.On("PopularTags", mock.Anything).
		Return([]*models.Tag{{ID: 1, Name: "go"}}, nil).Once()

	svc := services.NewTagService(repo, newCacheMock(), discardLogger())

	first, err := svc.Popular(context.Background())
	require.NoError(t, err)
	second, err := svc.Popular(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "PopularTags", 1)
}

func TestTagService_Create(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		setupMocks func(r *TagRepoMock)
		wantErr    error
	}{
		{
			name:  "successful creation normalizes name",
			input: "  machine-learning  ",
			setupMocks: func(r *TagRepoMock) {
				r.On("CreateTag", mock.Anything, "machine-learning").
					Return(&models.Tag{ID: 3, Name: "machine-learning"}, nil).Once()
			},
		},
		{
			name:  "duplicate name",
			input: "go",
			setupMocks: func(r *TagRepoMock) {
				r.On("CreateTag", mock.Anything, "go").
					Return(nil, storage.ErrConflict).Once()
			},
			wantErr: storage.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(TagRepoMock)
			tt.setupMocks(repo)

			svc := services.NewTagService(repo, newCacheMock(), discardLogger())
			tag, err := svc.Create(context.Background(), models.TagDraft{Name: tt.input})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotZero(t, tag.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestTagService_Create_InvalidatesPopularCache(t *testing.T) {
	repo := new(TagRepoMock)
	repo.On("PopularTags", mock.Anything).
		Return([]*models.Tag{{ID: 1, Name: "go"}}, nil).Once()
	repo.On("CreateTag", mock.Anything, "rust").
		Return(&models.Tag{ID: 2, Name: "rust"}, nil).Once()
	repo.On("PopularTags", mock.Anything).
		Return([]*models.Tag{{ID: 1, Name: "go"}, {ID: 2, Name: "rust"}}, nil).Once()

	svc := services.NewTagService(repo, newCacheMock(), discardLogger())

	before, err := svc.Popular(context.Background())
	require.NoError(t, err)
	require.Len(t, before, 1)

	_, err = svc.Create(context.Background(), models.TagDraft{Name: "rust"})
	require.NoError(t, err)

	after, err := svc.Popular(context.Background())
	require.NoError(t, err)
	assert.Len(t, after, 2)
	repo.AssertExpectations(t)
}

func TestTagService_FindOrCreate_Idempotent(t *testing.T) {
	repo := new(TagRepoMock)
	repo.On("FindOrCreateTag", mock.Anything, "go").
		Return(&models.Tag{ID: 1, Name: "go"}, nil).Twice()

	svc := services.NewTagService(repo, newCacheMock(), discardLogger())

	first, err := svc.FindOrCreate(context.Background(), " go ")
	require.NoError(t, err)
	second, err := svc.FindOrCreate(context.Background(), "go")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	repo.AssertExpectations(t)
}
