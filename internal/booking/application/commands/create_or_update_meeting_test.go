package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emZubair/Calendy/internal/booking/application/services"
	"github.com/emZubair/Calendy/internal/booking/domain"
	identityDomain "github.com/emZubair/Calendy/internal/identity/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockMeetingRepo is a mock implementation of domain.Repository.
type mockMeetingRepo struct {
	mock.Mock
}

func (m *mockMeetingRepo) Save(ctx context.Context, meeting *domain.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *mockMeetingRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Meeting), args.Error(1)
}

func (m *mockMeetingRepo) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Meeting, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Meeting), args.Error(1)
}

func (m *mockMeetingRepo) FindByOwnerContaining(ctx context.Context, ownerID uuid.UUID, at time.Time) ([]*domain.Meeting, error) {
	args := m.Called(ctx, ownerID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Meeting), args.Error(1)
}

func (m *mockMeetingRepo) FindAll(ctx context.Context) ([]*domain.Meeting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Meeting), args.Error(1)
}

func (m *mockMeetingRepo) FindBookable(ctx context.Context, now time.Time) ([]*domain.Meeting, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Meeting), args.Error(1)
}

func (m *mockMeetingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockUserRepo is a mock implementation of the identity repository.
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Save(ctx context.Context, user *identityDomain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*identityDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*identityDomain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

func (m *mockUserRepo) FindByIdentifier(ctx context.Context, identifier string) ([]*identityDomain.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identityDomain.User), args.Error(1)
}

func registeredOwner(t *testing.T) *identityDomain.User {
	t.Helper()
	username, err := identityDomain.NewUsername("alice")
	require.NoError(t, err)
	email, err := identityDomain.NewEmail("alice@example.com")
	require.NoError(t, err)
	user, err := identityDomain.NewUser(username, email, "Alice", "Smith")
	require.NoError(t, err)
	return user
}

// mockUnitOfWork is a mock implementation of application.UnitOfWork.
type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type testTxKey struct{}

var fixedNow = time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestCreateOrUpdateMeetingHandler_Create(t *testing.T) {
	ownerID := uuid.New()

	t.Run("creates a meeting with derived end time", func(t *testing.T) {
		repo := new(mockMeetingRepo)
		users := new(mockUserRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateOrUpdateMeetingHandler(repo, users, services.NewAvailabilityChecker(repo), uow, fixedClock)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, testTxKey{}, "tx")
		start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		users.On("FindByID", txCtx, ownerID).Return(registeredOwner(t), nil)
		repo.On("FindByOwnerContaining", txCtx, ownerID, start).Return([]*domain.Meeting{}, nil)
		repo.On("Save", txCtx, mock.AnythingOfType("*domain.Meeting")).Return(nil)

		result, err := handler.Handle(ctx, CreateOrUpdateMeetingCommand{
			OwnerID:         ownerID,
			Title:           "Sync",
			StartTime:       "2030-01-01T10:00:00",
			DurationMinutes: 30,
		})

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "Sync", result.Meeting.Title())
		assert.Equal(t, start, result.Meeting.StartTime())
		assert.Equal(t, time.Date(2030, 1, 1, 10, 30, 0, 0, time.UTC), result.Meeting.EndTime())
		assert.Equal(t, 30*time.Minute, result.Meeting.EndTime().Sub(result.Meeting.StartTime()))

		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("rejects unsupported duration before touching the store", func(t *testing.T) {
		repo := new(mockMeetingRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateOrUpdateMeetingHandler(repo, new(mockUserRepo), services.NewAvailabilityChecker(repo), uow, fixedClock)

		result, err := handler.Handle(context.Background(), CreateOrUpdateMeetingCommand{
			OwnerID:         ownerID,
			Title:           "Sync",
			StartTime:       "2030-01-01T10:00:00",
			DurationMinutes: 20,
		})

		assert.ErrorIs(t, err, domain.ErrInvalidDuration)
		assert.Nil(t, result)
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("rejects malformed start time", func(t *testing.T) {
		repo := new(mockMeetingRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateOrUpdateMeetingHandler(repo, new(mockUserRepo), services.NewAvailabilityChecker(repo), uow, fixedClock)

		result, err := handler.Handle(context.Background(), CreateOrUpdateMeetingCommand{
			OwnerID:         ownerID,
			Title:           "Sync",
			StartTime:       "tomorrow at noon",
			DurationMinutes: 30,
		})

		assert.ErrorIs(t, err, domain.ErrMalformedTimestamp)
		assert.Nil(t, result)
	})

	t.Run("rejects past start time", func(t *testing.T) {
		repo := new(mockMeetingRepo)
		users := new(mockUserRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateOrUpdateMeetingHandler(repo, users, services.NewAvailabilityChecker(repo), uow, fixedClock)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, testTxKey{}, "tx")

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		users.On("FindByID", txCtx, ownerID).Return(registeredOwner(t), nil)

		result, err := handler.Handle(ctx, CreateOrUpdateMeetingCommand{
			OwnerID:         ownerID,
			Title:           "Sync",
			StartTime:       "2029-12-31T10:00:00",
			DurationMinutes: 30,
		})

		assert.ErrorIs(t, err, domain.ErrPastStartTime)
		assert.Nil(t, result)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		uow.AssertExpectations(t)
	})

	t.Run("rejects overlapping slot with free-again hint", func(t *testing.T) {
		repo := new(mockMeetingRepo)
		users := new(mockUserRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateOrUpdateMeetingHandler(repo, users, services.NewAvailabilityChecker(repo), uow, fixedClock)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, testTxKey{}, "tx")

		existing, err := domain.NewMeeting(ownerID, "Sync", time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC), domain.SlotHalfHour)
		require.NoError(t, err)
		candidate := time.Date(2030, 1, 1, 10, 15, 0, 0, time.UTC)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		users.On("FindByID", txCtx, ownerID).Return(registeredOwner(t), nil)
		repo.On("FindByOwnerContaining", txCtx, ownerID, candidate).Return([]*domain.Meeting{existing}, nil)

		result, err := handler.Handle(ctx, CreateOrUpdateMeetingCommand{
			OwnerID:         ownerID,
			Title:           "Second",
			StartTime:       "2030-01-01T10:15:00",
			DurationMinutes: 15,
		})

		var conflict *domain.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, 15*time.Minute, conflict.FreeIn)
		assert.Nil(t, result)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects an owner that was never registered", func(t *testing.T) {
		repo := new(mockMeetingRepo)
		users := new(mockUserRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateOrUpdateMeetingHandler(repo, users, services.NewAvailabilityChecker(repo), uow, fixedClock)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, testTxKey{}, "tx")
		unknownID := uuid.New()

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		users.On("FindByID", txCtx, unknownID).Return(nil, nil)

		result, err := handler.Handle(ctx, CreateOrUpdateMeetingCommand{
			OwnerID:         unknownID,
			Title:           "Sync",
			StartTime:       "2030-01-01T10:00:00",
			DurationMinutes: 30,
		})

		assert.ErrorIs(t, err, identityDomain.ErrUserNotFound)
		assert.Nil(t, result)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		uow.AssertExpectations(t)
	})
}

func TestCreateOrUpdateMeetingHandler_Update(t *testing.T) {
	ownerID := uuid.New()
	ctx := context.Background()

	existingMeeting := func(t *testing.T) *domain.Meeting {
		t.Helper()
		meeting, err := domain.NewMeeting(ownerID, "Sync", time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC), domain.SlotHalfHour)
		require.NoError(t, err)
		return meeting
	}

	t.Run("overwrites title and times in place", func(t *testing.T) {
		repo := new(mockMeetingRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateOrUpdateMeetingHandler(repo, new(mockUserRepo), services.NewAvailabilityChecker(repo), uow, fixedClock)

		txCtx := context.WithValue(ctx, testTxKey{}, "tx")
		meeting := existingMeeting(t)
		meetingID := meeting.ID()
		newStart := time.Date(2030, 1, 2, 14, 0, 0, 0, time.UTC)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, meetingID).Return(meeting, nil)
		repo.On("FindByOwnerContaining", txCtx, ownerID, newStart).Return([]*domain.Meeting{}, nil)
		repo.On("Save", txCtx, meeting).Return(nil)

		result, err := handler.Handle(ctx, CreateOrUpdateMeetingCommand{
			OwnerID:         ownerID,
			MeetingID:       &meetingID,
			Title:           "Renamed",
			StartTime:       "2030-01-02T14:00:00",
			DurationMinutes: 45,
		})

		require.NoError(t, err)
		assert.Equal(t, meetingID, result.Meeting.ID())
		assert.Equal(t, "Renamed", result.Meeting.Title())
		assert.Equal(t, newStart.Add(45*time.Minute), result.Meeting.EndTime())
		assert.False(t, result.Meeting.IsReserved(), "reservation fields stay untouched")
		repo.AssertExpectations(t)
	})

	t.Run("unchanged update is idempotent", func(t *testing.T) {
		repo := new(mockMeetingRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateOrUpdateMeetingHandler(repo, new(mockUserRepo), services.NewAvailabilityChecker(repo), uow, fixedClock)

		txCtx := context.WithValue(ctx, testTxKey{}, "tx")
		meeting := existingMeeting(t)
		meetingID := meeting.ID()
		end := meeting.EndTime()

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, meetingID).Return(meeting, nil)
		// Its own slot is the only occupant and is excluded from the scan.
		repo.On("FindByOwnerContaining", txCtx, ownerID, meeting.StartTime()).Return([]*domain.Meeting{meeting}, nil)
		repo.On("Save", txCtx, meeting).Return(nil)

		result, err := handler.Handle(ctx, CreateOrUpdateMeetingCommand{
			OwnerID:         ownerID,
			MeetingID:       &meetingID,
			Title:           "Sync",
			StartTime:       "2030-01-01T10:00:00",
			DurationMinutes: 30,
		})

		require.NoError(t, err)
		assert.Equal(t, meetingID, result.Meeting.ID())
		assert.Equal(t, end, result.Meeting.EndTime())
	})

	t.Run("missing meeting", func(t *testing.T) {
		repo := new(mockMeetingRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateOrUpdateMeetingHandler(repo, new(mockUserRepo), services.NewAvailabilityChecker(repo), uow, fixedClock)

		txCtx := context.WithValue(ctx, testTxKey{}, "tx")
		meetingID := uuid.New()

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, meetingID).Return(nil, nil)

		_, err := handler.Handle(ctx, CreateOrUpdateMeetingCommand{
			OwnerID:         ownerID,
			MeetingID:       &meetingID,
			Title:           "Sync",
			StartTime:       "2030-01-01T10:00:00",
			DurationMinutes: 30,
		})

		assert.ErrorIs(t, err, domain.ErrMeetingNotFound)
	})

	t.Run("only the owner may update", func(t *testing.T) {
		repo := new(mockMeetingRepo)
		uow := new(mockUnitOfWork)
		handler := NewCreateOrUpdateMeetingHandler(repo, new(mockUserRepo), services.NewAvailabilityChecker(repo), uow, fixedClock)

		txCtx := context.WithValue(ctx, testTxKey{}, "tx")
		meeting := existingMeeting(t)
		meetingID := meeting.ID()

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, meetingID).Return(meeting, nil)

		_, err := handler.Handle(ctx, CreateOrUpdateMeetingCommand{
			OwnerID:         uuid.New(),
			MeetingID:       &meetingID,
			Title:           "Hijack",
			StartTime:       "2030-01-01T10:00:00",
			DurationMinutes: 30,
		})

		assert.ErrorIs(t, err, domain.ErrNotOwner)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCreateOrUpdateMeetingHandler_SaveFailure(t *testing.T) {
	ownerID := uuid.New()
	repo := new(mockMeetingRepo)
	users := new(mockUserRepo)
	uow := new(mockUnitOfWork)
	handler := NewCreateOrUpdateMeetingHandler(repo, users, services.NewAvailabilityChecker(repo), uow, fixedClock)

	ctx := context.Background()
	txCtx := context.WithValue(ctx, testTxKey{}, "tx")
	start := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)

	uow.On("Begin", ctx).Return(txCtx, nil)
	uow.On("Rollback", txCtx).Return(nil)
	users.On("FindByID", txCtx, ownerID).Return(registeredOwner(t), nil)
	repo.On("FindByOwnerContaining", txCtx, ownerID, start).Return([]*domain.Meeting{}, nil)
	repo.On("Save", txCtx, mock.AnythingOfType("*domain.Meeting")).Return(errors.New("database error"))

	result, err := handler.Handle(ctx, CreateOrUpdateMeetingCommand{
		OwnerID:         ownerID,
		Title:           "Sync",
		StartTime:       "2030-01-01T10:00:00",
		DurationMinutes: 30,
	})

	assert.EqualError(t, err, "database error")
	assert.Nil(t, result)
	uow.AssertExpectations(t)
}
