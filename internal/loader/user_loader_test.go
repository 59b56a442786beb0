package loader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"jobtrack/internal/model"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func directory(ids ...uint) []model.User {
	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, model.User{ID: id, Type: model.UserTypeHomeowner})
	}
	return users
}

func TestUserLoader_CoalescesLoadsIntoOneFetch(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByIDs", mock.Anything, []uint{1, 2, 3}).Return(directory(1, 2, 3), nil).Once()

	l := NewUserLoader(repo)
	ctx := context.Background()

	first := l.Load(ctx, 1)
	second := l.Load(ctx, 2)
	duplicate := l.Load(ctx, 1)
	third := l.Load(ctx, 3)

	user, err := first()
	assert.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)

	for _, thunk := range []UserThunk{second, duplicate, third} {
		_, err := thunk()
		assert.NoError(t, err)
	}

	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "FindByIDs", 1)
}

func TestUserLoader_LoadManyPreservesInputOrder(t *testing.T) {
	repo := new(MockUserRepository)
	// Repository returns rows in a different order than requested.
	repo.On("FindByIDs", mock.Anything, []uint{3, 1, 2}).Return(directory(1, 2, 3), nil).Once()

	l := NewUserLoader(repo)
	thunk := l.LoadMany(context.Background(), []uint{3, 1, 2})

	users, err := thunk()
	assert.NoError(t, err)
	if assert.Len(t, users, 3) {
		assert.Equal(t, uint(3), users[0].ID)
		assert.Equal(t, uint(1), users[1].ID)
		assert.Equal(t, uint(2), users[2].ID)
	}
}

func TestUserLoader_MissingIDFailsPerID(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByIDs", mock.Anything, []uint{1, 999}).Return(directory(1), nil).Once()

	l := NewUserLoader(repo)
	ctx := context.Background()

	found := l.Load(ctx, 1)
	missing := l.Load(ctx, 999)

	user, err := found()
	assert.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)

	_, err = missing()
	assert.ErrorContains(t, err, "user 999 not found")
}

func TestUserLoader_MemoizesAcrossBatches(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByIDs", mock.Anything, []uint{1}).Return(directory(1), nil).Once()
	repo.On("FindByIDs", mock.Anything, []uint{2}).Return(directory(2), nil).Once()

	l := NewUserLoader(repo)
	ctx := context.Background()

	user, err := l.Load(ctx, 1)()
	assert.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)

	// Already-resolved ids never refetch; only the new id hits the store.
	thunk := l.LoadMany(ctx, []uint{1, 2})
	users, err := thunk()
	assert.NoError(t, err)
	assert.Len(t, users, 2)

	repo.AssertExpectations(t)
	repo.AssertNumberOfCalls(t, "FindByIDs", 2)
}

func TestUserLoader_BatchFailureReachesEveryCaller(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindByIDs", mock.Anything, []uint{1, 2}).Return(nil, assert.AnError).Once()

	l := NewUserLoader(repo)
	ctx := context.Background()

	first := l.Load(ctx, 1)
	second := l.Load(ctx, 2)

	_, err := first()
	assert.ErrorIs(t, err, assert.AnError)
	_, err = second()
	assert.ErrorIs(t, err, assert.AnError)

	repo.AssertNumberOfCalls(t, "FindByIDs", 1)
}

func TestUserLoader_EmptyLoadMany(t *testing.T) {
	repo := new(MockUserRepository)

	l := NewUserLoader(repo)
	users, err := l.LoadMany(context.Background(), nil)()

	assert.NoError(t, err)
	assert.Empty(t, users)
	repo.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}
