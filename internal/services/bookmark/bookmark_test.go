package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
	services "github.com/magabrotheeeer/finalworks-platform/internal/services/bookmark"
	"github.com/magabrotheeeer/finalworks-platform/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type BookmarkRepoMock struct {
	mock.Mock
}

func (m *BookmarkRepoMock) CreateBookmark(ctx context.Context, bookmark models.Bookmark) (int64, error) {
	args := m.Called(ctx, bookmark)
	return args.Get(0).(int64), args.Error(1)
}

func (m *BookmarkRepoMock) DeleteBookmark(ctx context.Context, studentUID string, finalWorkID int64) error {
	args := m.Called(ctx, studentUID, finalWorkID)
	return args.Error(0)
}

func (m *BookmarkRepoMock) ListBookmarks(ctx context.Context, studentUID string) ([]*models.Bookmark, error) {
	args := m.Called(ctx, studentUID)
	return args.Get(0).([]*models.Bookmark), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var alice = models.Principal{StudentUID: "uid-alice", Email: "alice@x.com", Role: models.RoleUser}

func TestBookmarkService_Add(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *BookmarkRepoMock)
		wantErr    error
	}{
		{
			name: "successful bookmark",
			setupMocks: func(r *BookmarkRepoMock) {
				r.On("CreateBookmark", mock.Anything, mock.MatchedBy(func(b models.Bookmark) bool {
					return b.StudentUID == "uid-alice" && b.FinalWorkID == 5 && !b.BookmarkedAt.IsZero()
				})).Return(int64(1), nil).Once()
			},
		},
		{
			name: "duplicate bookmark",
			setupMocks: func(r *BookmarkRepoMock) {
				r.On("CreateBookmark", mock.Anything, mock.Anything).
					Return(int64(0), storage.ErrConflict).Once()
			},
			wantErr: services.ErrAlreadyBookmarked,
		},
		{
			name: "unknown work",
			setupMocks: func(r *BookmarkRepoMock) {
				r.On("CreateBookmark", mock.Anything, mock.Anything).
					Return(int64(0), storage.ErrNotFound).Once()
			},
			wantErr: storage.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(BookmarkRepoMock)
			tt.setupMocks(repo)

			svc := services.NewBookmarkService(repo, discardLogger())
			_, err := svc.Add(context.Background(), alice, 5)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestBookmarkService_Remove(t *testing.T) {
	repo := new(BookmarkRepoMock)
	repo.On("DeleteBookmark", mock.Anything, "uid-alice", int64(5)).Return(nil).Once()

	svc := services.NewBookmarkService(repo, discardLogger())
	require.NoError(t, svc.Remove(context.Background(), alice, 5))
	repo.AssertExpectations(t)
}

func TestBookmarkService_List(t *testing.T) {
	repo := new(BookmarkRepoMock)
	repo.On("ListBookmarks", mock.Anything, "uid-alice").
		Return([]*models.Bookmark{{ID: 1, FinalWorkID: 5, WorkTitle: "Graduation project"}}, nil).Once()

	svc := services.NewBookmarkService(repo, discardLogger())
	bookmarks, err := svc.List(context.Background(), alice)

	require.NoError(t, err)
	require.Len(t, bookmarks, 1)
	assert.Equal(t, "Graduation project", bookmarks[0].WorkTitle)
}
