package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notesapi/internal/notes/app"
	"notesapi/internal/notes/domain/entities"
)

var ErrDatabaseOperation = errors.New("database error")

type mockNoteRepository struct {
	mock.Mock
}

func (m *mockNoteRepository) FindByID(ctx context.Context, id string) (*entities.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) Save(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	args := m.Called(ctx, note)
	if fn, ok := args.Get(0).(func(context.Context, *entities.Note) *entities.Note); ok {
		return fn(ctx, note), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) DeleteByID(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockNoteRepository) DeleteAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockNoteRepository) FindPage(ctx context.Context, page, size int) ([]*entities.Note, error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNoteRepository) SearchPage(ctx context.Context, keyword string, page, size int) ([]*entities.Note, error) {
	args := m.Called(ctx, keyword, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) CountByKeyword(ctx context.Context, keyword string) (int64, error) {
	args := m.Called(ctx, keyword)
	return args.Get(0).(int64), args.Error(1)
}

type mockClock struct {
	mock.Mock
}

func (m *mockClock) Now() time.Time {
	return m.Called().Get(0).(time.Time)
}

var (
	t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(90 * time.Minute)
)

func storedNote() *entities.Note {
	return &entities.Note{
		ID:        "n1",
		Title:     "Trip Plan",
		Content:   "Pack bags",
		Tags:      []string{"travel"},
		CreatedAt: t0,
		UpdatedAt: t0,
	}
}

func TestNewNoteService(t *testing.T) {
	service := app.NewNoteService(new(mockNoteRepository), new(mockClock))

	assert.NotNil(t, service, "NewNoteService should return a non-nil object")
}

func TestFindByID(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(repo *mockNoteRepository)
		expected    *entities.Note
		expectedErr error
	}{
		{
			name: "success - note found",
			setupMocks: func(repo *mockNoteRepository) {
				repo.On("FindByID", mock.Anything, "n1").Return(storedNote(), nil).Once()
			},
			expected: storedNote(),
		},
		{
			name: "error - note not found",
			setupMocks: func(repo *mockNoteRepository) {
				repo.On("FindByID", mock.Anything, "n1").Return(nil, nil).Once()
			},
			expectedErr: entities.ErrNoteNotFound,
		},
		{
			name: "error - repository failure is not translated",
			setupMocks: func(repo *mockNoteRepository) {
				repo.On("FindByID", mock.Anything, "n1").Return(nil, ErrDatabaseOperation).Once()
			},
			expectedErr: ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockNoteRepository)
			tt.setupMocks(repo)
			service := app.NewNoteService(repo, new(mockClock))

			note, err := service.FindByID(context.Background(), "n1")

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, note)
				if tt.expectedErr == ErrDatabaseOperation {
					assert.NotErrorIs(t, err, entities.ErrNoteNotFound)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, note)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestFindByIDNotFoundCarriesID(t *testing.T) {
	repo := new(mockNoteRepository)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, nil).Once()
	service := app.NewNoteService(repo, new(mockClock))

	_, err := service.FindByID(context.Background(), "missing")

	var nf *entities.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ID)
	assert.Equal(t, "Note with ID missing not found.", err.Error())
}

func TestListPage(t *testing.T) {
	notes := []*entities.Note{storedNote()}

	tests := []struct {
		name          string
		page, size    int
		setupMocks    func(repo *mockNoteRepository)
		expectedTotal int64
		expectedPages int
		expectedItems int
		expectedErr   error
	}{
		{
			name: "success - page with items",
			page: 0, size: 10,
			setupMocks: func(repo *mockNoteRepository) {
				repo.On("FindPage", mock.Anything, 0, 10).Return(notes, nil).Once()
				repo.On("Count", mock.Anything).Return(int64(21), nil).Once()
			},
			expectedTotal: 21,
			expectedPages: 3,
			expectedItems: 1,
		},
		{
			name: "success - empty store has zero pages",
			page: 0, size: 10,
			setupMocks: func(repo *mockNoteRepository) {
				repo.On("FindPage", mock.Anything, 0, 10).Return(nil, nil).Once()
				repo.On("Count", mock.Anything).Return(int64(0), nil).Once()
			},
			expectedTotal: 0,
			expectedPages: 0,
			expectedItems: 0,
		},
		{
			name: "success - page beyond the end is returned as is",
			page: 7, size: 5,
			setupMocks: func(repo *mockNoteRepository) {
				repo.On("FindPage", mock.Anything, 7, 5).Return([]*entities.Note{}, nil).Once()
				repo.On("Count", mock.Anything).Return(int64(10), nil).Once()
			},
			expectedTotal: 10,
			expectedPages: 2,
			expectedItems: 0,
		},
		{
			name: "error - find page fails",
			page: 0, size: 10,
			setupMocks: func(repo *mockNoteRepository) {
				repo.On("FindPage", mock.Anything, 0, 10).Return(nil, ErrDatabaseOperation).Once()
			},
			expectedErr: ErrDatabaseOperation,
		},
		{
			name: "error - count fails",
			page: 0, size: 10,
			setupMocks: func(repo *mockNoteRepository) {
				repo.On("FindPage", mock.Anything, 0, 10).Return(notes, nil).Once()
				repo.On("Count", mock.Anything).Return(int64(0), ErrDatabaseOperation).Once()
			},
			expectedErr: ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockNoteRepository)
			tt.setupMocks(repo)
			service := app.NewNoteService(repo, new(mockClock))

			page, err := service.ListPage(context.Background(), tt.page, tt.size)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, page)
			} else {
				require.NoError(t, err)
				require.NotNil(t, page.Items)
				assert.Len(t, page.Items, tt.expectedItems)
				assert.Equal(t, tt.page, page.CurrentPage)
				assert.Equal(t, tt.size, page.PageSize)
				assert.Equal(t, tt.expectedTotal, page.TotalItems)
				assert.Equal(t, tt.expectedPages, page.TotalPages)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestSearchPage(t *testing.T) {
	notes := []*entities.Note{storedNote()}

	t.Run("success - page metadata uses keyword count", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("SearchPage", mock.Anything, "trip", 1, 2).Return(notes, nil).Once()
		repo.On("CountByKeyword", mock.Anything, "trip").Return(int64(5), nil).Once()
		service := app.NewNoteService(repo, new(mockClock))

		page, err := service.SearchPage(context.Background(), "trip", 1, 2)

		require.NoError(t, err)
		assert.Equal(t, notes, page.Items)
		assert.Equal(t, 1, page.CurrentPage)
		assert.Equal(t, 2, page.PageSize)
		assert.Equal(t, int64(5), page.TotalItems)
		assert.Equal(t, 3, page.TotalPages)
		repo.AssertNotCalled(t, "Count", mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("success - no matches", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("SearchPage", mock.Anything, "zzz", 0, 10).Return([]*entities.Note{}, nil).Once()
		repo.On("CountByKeyword", mock.Anything, "zzz").Return(int64(0), nil).Once()
		service := app.NewNoteService(repo, new(mockClock))

		page, err := service.SearchPage(context.Background(), "zzz", 0, 10)

		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 0, page.TotalPages)
	})

	t.Run("error - search fails", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("SearchPage", mock.Anything, "trip", 0, 10).Return(nil, ErrDatabaseOperation).Once()
		service := app.NewNoteService(repo, new(mockClock))

		page, err := service.SearchPage(context.Background(), "trip", 0, 10)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDatabaseOperation)
		assert.Contains(t, err.Error(), app.ErrSearchNotes)
		assert.Nil(t, page)
		repo.AssertNotCalled(t, "CountByKeyword", mock.Anything, mock.Anything)
	})

	t.Run("error - count by keyword fails", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("SearchPage", mock.Anything, "trip", 0, 10).Return(notes, nil).Once()
		repo.On("CountByKeyword", mock.Anything, "trip").Return(int64(0), ErrDatabaseOperation).Once()
		service := app.NewNoteService(repo, new(mockClock))

		_, err := service.SearchPage(context.Background(), "trip", 0, 10)

		require.Error(t, err)
		assert.Contains(t, err.Error(), app.ErrCountByKeyword)
	})
}

func TestCreate(t *testing.T) {
	draft := entities.Draft{Title: "Trip Plan", Content: "Pack bags", Tags: []string{"travel"}}

	t.Run("success - timestamps come from a single clock read", func(t *testing.T) {
		repo := new(mockNoteRepository)
		clock := new(mockClock)
		clock.On("Now").Return(t0).Once()

		repo.On("Save", mock.Anything, mock.MatchedBy(func(n *entities.Note) bool {
			return n.ID == "" &&
				n.Title == draft.Title &&
				n.Content == draft.Content &&
				assert.ObjectsAreEqual(draft.Tags, n.Tags) &&
				n.CreatedAt.Equal(t0) &&
				n.UpdatedAt.Equal(t0)
		})).Return(func(_ context.Context, n *entities.Note) *entities.Note {
			saved := n.Clone()
			saved.ID = "n1"
			return saved
		}, nil).Once()

		service := app.NewNoteService(repo, clock)
		note, err := service.Create(context.Background(), draft)

		require.NoError(t, err)
		assert.Equal(t, "n1", note.ID)
		assert.Equal(t, t0, note.CreatedAt)
		assert.Equal(t, note.CreatedAt, note.UpdatedAt)
		clock.AssertNumberOfCalls(t, "Now", 1)
		repo.AssertExpectations(t)
	})

	t.Run("error - save fails", func(t *testing.T) {
		repo := new(mockNoteRepository)
		clock := new(mockClock)
		clock.On("Now").Return(t0).Once()
		repo.On("Save", mock.Anything, mock.Anything).Return(nil, ErrDatabaseOperation).Once()

		service := app.NewNoteService(repo, clock)
		note, err := service.Create(context.Background(), draft)

		require.Error(t, err)
		assert.Nil(t, note)
		assert.ErrorIs(t, err, ErrDatabaseOperation)
		assert.Contains(t, err.Error(), app.ErrSaveNote)
	})
}

func TestUpdate(t *testing.T) {
	draft := entities.Draft{
		Title:   "Trip Plan v2",
		Content: "Pack bags",
		Tags:    []string{"travel", "urgent"},
	}

	t.Run("success - identity and creation time preserved", func(t *testing.T) {
		repo := new(mockNoteRepository)
		clock := new(mockClock)
		clock.On("Now").Return(t1).Once()
		repo.On("FindByID", mock.Anything, "n1").Return(storedNote(), nil).Once()
		repo.On("Save", mock.Anything, mock.Anything).Return(func(_ context.Context, n *entities.Note) *entities.Note {
			return n
		}, nil).Once()

		service := app.NewNoteService(repo, clock)
		note, err := service.Update(context.Background(), "n1", draft)

		require.NoError(t, err)
		assert.Equal(t, &entities.Note{
			ID:        "n1",
			Title:     "Trip Plan v2",
			Content:   "Pack bags",
			Tags:      []string{"travel", "urgent"},
			CreatedAt: t0,
			UpdatedAt: t1,
		}, note)
		assert.False(t, note.UpdatedAt.Before(note.CreatedAt))
		clock.AssertNumberOfCalls(t, "Now", 1)
		repo.AssertExpectations(t)
	})

	t.Run("error - not found never saves", func(t *testing.T) {
		repo := new(mockNoteRepository)
		clock := new(mockClock)
		repo.On("FindByID", mock.Anything, "ghost").Return(nil, nil).Once()

		service := app.NewNoteService(repo, clock)
		note, err := service.Update(context.Background(), "ghost", draft)

		require.Error(t, err)
		assert.Nil(t, note)
		assert.ErrorIs(t, err, entities.ErrNoteNotFound)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		clock.AssertNotCalled(t, "Now")
	})

	t.Run("error - lookup fails", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("FindByID", mock.Anything, "n1").Return(nil, ErrDatabaseOperation).Once()

		service := app.NewNoteService(repo, new(mockClock))
		_, err := service.Update(context.Background(), "n1", draft)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDatabaseOperation)
		assert.Contains(t, err.Error(), app.ErrFindNote)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("error - save fails", func(t *testing.T) {
		repo := new(mockNoteRepository)
		clock := new(mockClock)
		clock.On("Now").Return(t1).Once()
		repo.On("FindByID", mock.Anything, "n1").Return(storedNote(), nil).Once()
		repo.On("Save", mock.Anything, mock.Anything).Return(nil, ErrDatabaseOperation).Once()

		service := app.NewNoteService(repo, clock)
		_, err := service.Update(context.Background(), "n1", draft)

		require.Error(t, err)
		assert.Contains(t, err.Error(), app.ErrSaveNote)
	})
}

func TestDeleteByID(t *testing.T) {
	t.Run("success - delete after confirm", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("FindByID", mock.Anything, "n1").Return(storedNote(), nil).Once()
		repo.On("DeleteByID", mock.Anything, "n1").Return(nil).Once()

		service := app.NewNoteService(repo, new(mockClock))
		err := service.DeleteByID(context.Background(), "n1")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("error - not found never deletes", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("FindByID", mock.Anything, "ghost").Return(nil, nil).Once()

		service := app.NewNoteService(repo, new(mockClock))
		err := service.DeleteByID(context.Background(), "ghost")

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrNoteNotFound)
		repo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
	})

	t.Run("error - delete fails", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("FindByID", mock.Anything, "n1").Return(storedNote(), nil).Once()
		repo.On("DeleteByID", mock.Anything, "n1").Return(ErrDatabaseOperation).Once()

		service := app.NewNoteService(repo, new(mockClock))
		err := service.DeleteByID(context.Background(), "n1")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDatabaseOperation)
		assert.NotErrorIs(t, err, entities.ErrNoteNotFound)
		assert.Contains(t, err.Error(), app.ErrDeleteNote)
	})
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		size     int
		expected int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{21, 10, 3},
		{5, 1, 5},
		{7, 0, 0},
		{7, -3, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, app.TotalPages(tt.total, tt.size), "total=%d size=%d", tt.total, tt.size)
	}
}
