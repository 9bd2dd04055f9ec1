package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/magabrotheeeer/finalworks-platform/internal/models"
	services "github.com/magabrotheeeer/finalworks-platform/internal/services/work"
	"github.com/magabrotheeeer/finalworks-platform/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type WorkRepoMock struct {
	mock.Mock
}

func (m *WorkRepoMock) CreateWork(ctx context.Context, work models.FinalWork, tagIDs []int64) (int64, error) {
	args := m.Called(ctx, work, tagIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *WorkRepoMock) GetWork(ctx context.Context, id int64) (*models.FinalWork, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FinalWork), args.Error(1)
}

func (m *WorkRepoMock) ListWorks(ctx context.Context) ([]*models.FinalWork, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.FinalWork), args.Error(1)
}

func (m *WorkRepoMock) NewestWorks(ctx context.Context, limit int) ([]*models.FinalWork, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.FinalWork), args.Error(1)
}

func (m *WorkRepoMock) TopRatedWorks(ctx context.Context, limit int) ([]*models.FinalWork, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.FinalWork), args.Error(1)
}

func (m *WorkRepoMock) SearchWorks(ctx context.Context, search string) ([]*models.FinalWork, error) {
	args := m.Called(ctx, search)
	return args.Get(0).([]*models.FinalWork), args.Error(1)
}

func (m *WorkRepoMock) FilterWorksByTags(ctx context.Context, tagNames []string) ([]*models.FinalWork, error) {
	args := m.Called(ctx, tagNames)
	return args.Get(0).([]*models.FinalWork), args.Error(1)
}

func (m *WorkRepoMock) UpdateWork(ctx context.Context, id int64, title, description, fileURL string, tagIDs []int64, version int64) error {
	args := m.Called(ctx, id, title, description, fileURL, tagIDs, version)
	return args.Error(0)
}

func (m *WorkRepoMock) DeleteWork(ctx context.Context, id, version int64) error {
	args := m.Called(ctx, id, version)
	return args.Error(0)
}

type TagRegistryMock struct {
	mock.Mock
}

func (m *TagRegistryMock) FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

type CommentRepoMock struct {
	mock.Mock
}

func (m *CommentRepoMock) CreateComment(ctx context.Context, comment models.Comment) (int64, error) {
	args := m.Called(ctx, comment)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CommentRepoMock) ListComments(ctx context.Context, finalWorkID int64) ([]*models.Comment, error) {
	args := m.Called(ctx, finalWorkID)
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *CommentRepoMock) DeleteComment(ctx context.Context, id, version int64) error {
	args := m.Called(ctx, id, version)
	return args.Error(0)
}

type StudentDirectoryMock struct {
	mock.Mock
}

func (m *StudentDirectoryMock) GetStudent(ctx context.Context, uid string) (*models.Student, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(works *WorkRepoMock, tags *TagRegistryMock, comments *CommentRepoMock, students *StudentDirectoryMock) *services.WorkService {
	if works == nil {
		works = new(WorkRepoMock)
	}
	if tags == nil {
		tags = new(TagRegistryMock)
	}
	if comments == nil {
		comments = new(CommentRepoMock)
	}
	if students == nil {
		students = new(StudentDirectoryMock)
	}
	return services.NewWorkService(works, tags, comments, students, discardLogger())
}

var alice = models.Principal{StudentUID: "uid-alice", Email: "alice@x.com", Role: models.RoleUser}
var admin = models.Principal{StudentUID: "uid-admin", Email: "admin@x.com", Role: models.RoleAdmin}

func TestWorkService_Create_ResolvesTags(t *testing.T) {
	works := new(WorkRepoMock)
	tags := new(TagRegistryMock)

	// Дубликаты и пустые имена тегов отбрасываются до обращения к хранилищу.
	tags.On("FindOrCreateTag", mock.Anything, "go").Return(&models.Tag{ID: 1, Name: "go"}, nil).Once()
	tags.On("FindOrCreateTag", mock.Anything, "databases").Return(&models.Tag{ID: 2, Name: "databases"}, nil).Once()

	works.On("CreateWork", mock.Anything, mock.MatchedBy(func(w models.FinalWork) bool {
		return w.Title == "Graduation project" && w.StudentUID == "uid-alice"
	}), []int64{1, 2}).Return(int64(42), nil).Once()

	svc := newService(works, tags, nil, nil)
	id, err := svc.Create(context.Background(), alice, models.WorkDraft{
		Title:   "  Graduation project  ",
		FileURL: "https://files.example.com/w.pdf",
		Tags:    []string{"go", " databases ", "go", ""},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	works.AssertExpectations(t)
	tags.AssertExpectations(t)
}

func TestWorkService_Update_Ownership(t *testing.T) {
	stored := &models.FinalWork{ID: 7, StudentUID: "uid-alice", Version: 3}

	tests := []struct {
		name       string
		principal  models.Principal
		wantUpdate bool
		wantErr    error
	}{
		{name: "owner can update", principal: alice, wantUpdate: true},
		{name: "admin can update", principal: admin, wantUpdate: true},
		{
			name:      "stranger is rejected",
			principal: models.Principal{StudentUID: "uid-bob", Role: models.RoleUser},
			wantErr:   services.ErrNotOwner,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			works := new(WorkRepoMock)
			works.On("GetWork", mock.Anything, int64(7)).Return(stored, nil).Once()
			if tt.wantUpdate {
				works.On("UpdateWork", mock.Anything, int64(7), "New title", "", "https://f/x.pdf", []int64{}, int64(3)).
					Return(nil).Once()
			}

			svc := newService(works, nil, nil, nil)
			err := svc.Update(context.Background(), tt.principal, 7, models.WorkDraft{
				Title:   "New title",
				FileURL: "https://f/x.pdf",
			}, 3)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			works.AssertExpectations(t)
		})
	}
}

func TestWorkService_Update_ConflictPropagates(t *testing.T) {
	works := new(WorkRepoMock)
	works.On("GetWork", mock.Anything, int64(7)).
		Return(&models.FinalWork{ID: 7, StudentUID: "uid-alice", Version: 4}, nil).Once()
	works.On("UpdateWork", mock.Anything, int64(7), "Title", "", "https://f/x.pdf", []int64{}, int64(3)).
		Return(storage.ErrConflict).Once()

	svc := newService(works, nil, nil, nil)
	err := svc.Update(context.Background(), alice, 7, models.WorkDraft{Title: "Title", FileURL: "https://f/x.pdf"}, 3)

	// Конфликт версий отдается вызывающему как есть, без повторных попыток.
	assert.ErrorIs(t, err, storage.ErrConflict)
	works.AssertExpectations(t)
}

// fakeVersionedStore — потокобезопасное хранилище одной работы с
// семантикой версионированной записи, как у настоящей базы.
type fakeVersionedStore struct {
	mu   sync.Mutex
	work models.FinalWork
}

func (f *fakeVersionedStore) GetWork(_ context.Context, id int64) (*models.FinalWork, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.work.ID != id {
		return nil, storage.ErrNotFound
	}
	w := f.work
	return &w, nil
}

func (f *fakeVersionedStore) UpdateWork(_ context.Context, id int64, title, _, fileURL string, _ []int64, version int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.work.ID != id {
		return storage.ErrNotFound
	}
	if f.work.Version != version {
		return storage.ErrConflict
	}
	f.work.Title = title
	f.work.FileURL = fileURL
	f.work.Version++
	return nil
}

func (f *fakeVersionedStore) CreateWork(context.Context, models.FinalWork, []int64) (int64, error) {
	return 0, errors.New("not implemented")
}
func (f *fakeVersionedStore) ListWorks(context.Context) ([]*models.FinalWork, error) { return nil, nil }
func (f *fakeVersionedStore) NewestWorks(context.Context, int) ([]*models.FinalWork, error) {
	return nil, nil
}
func (f *fakeVersionedStore) TopRatedWorks(context.Context, int) ([]*models.FinalWork, error) {
	return nil, nil
}
func (f *fakeVersionedStore) SearchWorks(context.Context, string) ([]*models.FinalWork, error) {
	return nil, nil
}
func (f *fakeVersionedStore) FilterWorksByTags(context.Context, []string) ([]*models.FinalWork, error) {
	return nil, nil
}
func (f *fakeVersionedStore) DeleteWork(_ context.Context, id, version int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.work.ID != id {
		return storage.ErrNotFound
	}
	if f.work.Version != version {
		return storage.ErrConflict
	}
	f.work = models.FinalWork{}
	return nil
}

// Два обновления с одной исходной версией: ровно одно проходит, второе
// получает конфликт. NotFound в этой гонке невозможен.
func TestWorkService_ConcurrentVersionedUpdate(t *testing.T) {
	store := &fakeVersionedStore{work: models.FinalWork{ID: 1, StudentUID: "uid-alice", Version: 1}}
	svc := services.NewWorkService(store, new(TagRegistryMock), new(CommentRepoMock), new(StudentDirectoryMock), discardLogger())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Update(context.Background(), alice, 1, models.WorkDraft{
				Title:   "Edited",
				FileURL: "https://f/x.pdf",
			}, 1)
		}(i)
	}
	wg.Wait()

	var okCount, conflictCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, storage.ErrConflict):
			conflictCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, conflictCount)

	final, err := store.GetWork(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), final.Version)
}

func TestWorkService_AddComment_UsesStudentName(t *testing.T) {
	comments := new(CommentRepoMock)
	students := new(StudentDirectoryMock)

	students.On("GetStudent", mock.Anything, "uid-alice").
		Return(&models.Student{UID: "uid-alice", Name: "Alice"}, nil).Once()
	comments.On("CreateComment", mock.Anything, mock.MatchedBy(func(c models.Comment) bool {
		return c.FinalWorkID == 5 && c.AuthorName == "Alice" && c.Content == "Well done"
	})).Return(int64(11), nil).Once()

	svc := newService(nil, nil, comments, students)
	id, err := svc.AddComment(context.Background(), alice, 5, models.CommentDraft{Content: " Well done "})

	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	comments.AssertExpectations(t)
}

func TestWorkService_AddComment_FallsBackToEmail(t *testing.T) {
	comments := new(CommentRepoMock)
	students := new(StudentDirectoryMock)

	students.On("GetStudent", mock.Anything, "uid-alice").
		Return(nil, storage.ErrNotFound).Once()
	comments.On("CreateComment", mock.Anything, mock.MatchedBy(func(c models.Comment) bool {
		return c.AuthorName == "alice@x.com"
	})).Return(int64(12), nil).Once()

	svc := newService(nil, nil, comments, students)
	_, err := svc.AddComment(context.Background(), alice, 5, models.CommentDraft{Content: "hi"})

	require.NoError(t, err)
	comments.AssertExpectations(t)
}

func TestWorkService_FilterByTags_EmptyFallsBackToList(t *testing.T) {
	works := new(WorkRepoMock)
	works.On("ListWorks", mock.Anything).Return([]*models.FinalWork{}, nil).Once()

	svc := newService(works, nil, nil, nil)
	_, err := svc.FilterByTags(context.Background(), []string{" ", ""})

	require.NoError(t, err)
	works.AssertExpectations(t)
}

func TestWorkService_Newest_ClampsLimit(t *testing.T) {
	works := new(WorkRepoMock)
	works.On("NewestWorks", mock.Anything, 10).Return([]*models.FinalWork{}, nil).Twice()

	svc := newService(works, nil, nil, nil)
	_, err := svc.Newest(context.Background(), 0)
	require.NoError(t, err)
	_, err = svc.Newest(context.Background(), 500)
	require.NoError(t, err)
	works.AssertExpectations(t)
}
