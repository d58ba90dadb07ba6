package bookings

import (
	"context"
	"time"

	"github.com/dmitrijs2005/eliteglam/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, booking *models.Booking) error
	List(ctx context.Context) ([]*models.Booking, error)
	Get(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, at time.Time) error
}
