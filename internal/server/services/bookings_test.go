package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/logging"
	"github.com/dmitrijs2005/eliteglam/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingService(t *testing.T) (*BookingService, *fakeRepoManager) {
	t.Helper()
	rm := newFakeRepoManager()
	return NewBookingService(nil, rm, logging.NewNop()), rm
}

func hairInput() BookingInput {
	return BookingInput{CustomerName: "Ann", ServiceName: "Hair", Date: "2024-06-01", Time: "10:00", Price: 40}
}

func TestBookingService_CreateDefaultsToPending(t *testing.T) {
	s, _ := newBookingService(t)

	b, err := s.Create(context.Background(), hairInput())
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, b.Status)
	assert.NotEmpty(t, b.ID)
}

func TestBookingService_CreateRejects(t *testing.T) {
	s, _ := newBookingService(t)
	ctx := context.Background()

	in := hairInput()
	in.Status = "archived"
	_, err := s.Create(ctx, in)
	assert.ErrorIs(t, err, common.ErrInvalidStatus)

	in = hairInput()
	in.CustomerName = ""
	_, err = s.Create(ctx, in)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestBookingService_Lifecycle(t *testing.T) {
	s, _ := newBookingService(t)
	ctx := context.Background()

	b, err := s.Create(ctx, hairInput())
	require.NoError(t, err)

	b, err = s.UpdateStatus(ctx, b.ID, models.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, b.Status)

	same, err := s.UpdateStatus(ctx, b.ID, models.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, b.UpdatedAt, same.UpdatedAt)

	b, err = s.UpdateStatus(ctx, b.ID, models.BookingCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, b.Status)

	_, err = s.Cancel(ctx, b.ID)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	got, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, got.Status)
}

func TestBookingService_Cancel(t *testing.T) {
	s, _ := newBookingService(t)
	ctx := context.Background()

	b, err := s.Create(ctx, hairInput())
	require.NoError(t, err)

	b, err = s.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, b.Status)

	_, err = s.UpdateStatus(ctx, b.ID, models.BookingPending)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)
}

func TestBookingService_UpdateStatusErrors(t *testing.T) {
	s, rm := newBookingService(t)
	ctx := context.Background()

	_, err := s.UpdateStatus(ctx, "6f1c2b1e-0000-4000-8000-000000000000", "bogus")
	assert.ErrorIs(t, err, common.ErrInvalidStatus)

	_, err = s.UpdateStatus(ctx, "6f1c2b1e-0000-4000-8000-000000000000", models.BookingConfirmed)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Contains(t, err.Error(), "Booking with ID")

	b, err := s.Create(ctx, hairInput())
	require.NoError(t, err)

	rm.book.updateErr = common.ErrConflict
	_, err = s.UpdateStatus(ctx, b.ID, models.BookingConfirmed)
	assert.ErrorIs(t, err, common.ErrInvalidTransition)

	rm.book.updateErr = errors.New("db down")
	_, err = s.UpdateStatus(ctx, b.ID, models.BookingConfirmed)
	assert.EqualError(t, err, "db down")
}
