package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/logging"
	"github.com/dmitrijs2005/eliteglam/internal/server/models"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// BookingInput is the body of a booking create request. Status defaults to
// pending.
type BookingInput struct {
	CustomerName string               `json:"customerName" validate:"required"`
	ServiceName  string               `json:"serviceName" validate:"required"`
	Date         string               `json:"date" validate:"required"`
	Time         string               `json:"time" validate:"required"`
	Status       models.BookingStatus `json:"status,omitempty"`
	Price        float64              `json:"price" validate:"gte=0"`
	Notes        string               `json:"notes,omitempty"`
}

type BookingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validator   *Validator
	logger      logging.Logger
	now         func() time.Time
}

func NewBookingService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *BookingService {
	return &BookingService{
		db:          db,
		repomanager: m,
		validator:   NewValidator(),
		logger:      logger.With("module", "bookings"),
		now:         time.Now,
	}
}

func (s *BookingService) Create(ctx context.Context, in BookingInput) (*models.Booking, error) {
	if in.Status == "" {
		in.Status = models.BookingPending
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidStatus, in.Status)
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	b := &models.Booking{
		ID:           uuid.NewString(),
		CustomerName: in.CustomerName,
		ServiceName:  in.ServiceName,
		Date:         in.Date,
		Time:         in.Time,
		Status:       in.Status,
		Price:        in.Price,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repomanager.Bookings(s.db).Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "booking created", "id", b.ID, "status", b.Status)
	return b, nil
}

// List returns all bookings, newest first.
func (s *BookingService) List(ctx context.Context) ([]*models.Booking, error) {
	return s.repomanager.Bookings(s.db).List(ctx)
}

func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	if !validID(id) {
		return nil, &common.NotFoundError{Resource: "Booking", ID: id}
	}
	b, err := s.repomanager.Bookings(s.db).Get(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, &common.NotFoundError{Resource: "Booking", ID: id}
		}
		return nil, err
	}
	return b, nil
}

// UpdateStatus moves a booking along its lifecycle. Setting the current
// status again returns the booking unchanged.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidStatus, status)
	}

	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == status {
		return b, nil
	}
	if !b.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, b.Status, status)
	}

	now := s.now().UTC()
	if err := s.repomanager.Bookings(s.db).UpdateStatus(ctx, id, b.Status, status, now); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("%w: booking changed concurrently", common.ErrInvalidTransition)
		}
		return nil, err
	}

	s.logger.Info(ctx, "booking status changed", "id", id, "from", b.Status, "to", status)
	b.Status = status
	b.UpdatedAt = now
	return b, nil
}

func (s *BookingService) Cancel(ctx context.Context, id string) (*models.Booking, error) {
	return s.UpdateStatus(ctx, id, models.BookingCancelled)
}
