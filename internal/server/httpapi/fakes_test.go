package httpapi

import (
	"context"

	"github.com/dmitrijs2005/eliteglam/internal/logging"
	"github.com/dmitrijs2005/eliteglam/internal/server/models"
	"github.com/dmitrijs2005/eliteglam/internal/server/services"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type fakeAuth struct {
	RegisterFunc      func(ctx context.Context, in services.RegisterInput) (*models.Profile, error)
	LoginFunc         func(ctx context.Context, email, password string) (*services.SessionCredential, error)
	VerifyTokenFunc   func(ctx context.Context, presented string) (services.Verification, error)
	GetProfileFunc    func(ctx context.Context, uid string) (*models.Profile, error)
	UpdateProfileFunc func(ctx context.Context, uid string, upd services.ProfileUpdate) (*models.Profile, error)
}

func (f *fakeAuth) Register(ctx context.Context, in services.RegisterInput) (*models.Profile, error) {
	return f.RegisterFunc(ctx, in)
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*services.SessionCredential, error) {
	return f.LoginFunc(ctx, email, password)
}

func (f *fakeAuth) VerifyToken(ctx context.Context, presented string) (services.Verification, error) {
	return f.VerifyTokenFunc(ctx, presented)
}

func (f *fakeAuth) GetProfile(ctx context.Context, uid string) (*models.Profile, error) {
	return f.GetProfileFunc(ctx, uid)
}

func (f *fakeAuth) UpdateProfile(ctx context.Context, uid string, upd services.ProfileUpdate) (*models.Profile, error) {
	return f.UpdateProfileFunc(ctx, uid, upd)
}

type fakeProducts struct {
	CreateFunc func(ctx context.Context, in services.ProductInput) (*models.Product, error)
	ListFunc   func(ctx context.Context) ([]*models.Product, error)
	GetFunc    func(ctx context.Context, id string) (*models.Product, error)
	UpdateFunc func(ctx context.Context, id string, patch models.ProductPatch) error
	DeleteFunc func(ctx context.Context, id string) error
}

func (f *fakeProducts) Create(ctx context.Context, in services.ProductInput) (*models.Product, error) {
	return f.CreateFunc(ctx, in)
}

func (f *fakeProducts) List(ctx context.Context) ([]*models.Product, error) {
	return f.ListFunc(ctx)
}

func (f *fakeProducts) Get(ctx context.Context, id string) (*models.Product, error) {
	return f.GetFunc(ctx, id)
}

func (f *fakeProducts) Update(ctx context.Context, id string, patch models.ProductPatch) error {
	return f.UpdateFunc(ctx, id, patch)
}

func (f *fakeProducts) Delete(ctx context.Context, id string) error {
	return f.DeleteFunc(ctx, id)
}

type fakeBookings struct {
	CreateFunc       func(ctx context.Context, in services.BookingInput) (*models.Booking, error)
	ListFunc         func(ctx context.Context) ([]*models.Booking, error)
	GetFunc          func(ctx context.Context, id string) (*models.Booking, error)
	UpdateStatusFunc func(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)
	CancelFunc       func(ctx context.Context, id string) (*models.Booking, error)
}

func (f *fakeBookings) Create(ctx context.Context, in services.BookingInput) (*models.Booking, error) {
	return f.CreateFunc(ctx, in)
}

func (f *fakeBookings) List(ctx context.Context) ([]*models.Booking, error) {
	return f.ListFunc(ctx)
}

func (f *fakeBookings) Get(ctx context.Context, id string) (*models.Booking, error) {
	return f.GetFunc(ctx, id)
}

func (f *fakeBookings) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	return f.UpdateStatusFunc(ctx, id, status)
}

func (f *fakeBookings) Cancel(ctx context.Context, id string) (*models.Booking, error) {
	return f.CancelFunc(ctx, id)
}

const goodToken = "Bearer good.token.value"

// verifiedAs accepts goodToken for uid and rejects everything else.
func verifiedAs(uid string) func(ctx context.Context, presented string) (services.Verification, error) {
	return func(ctx context.Context, presented string) (services.Verification, error) {
		if presented != goodToken {
			return services.Verification{}, services.ErrInvalidSession
		}
		return services.Verification{Claims: services.DecodedClaims{UID: uid}, Trust: services.Verified}, nil
	}
}

func newTestRouter(a *fakeAuth, p *fakeProducts, b *fakeBookings) *echo.Echo {
	if a == nil {
		a = &fakeAuth{}
	}
	if a.VerifyTokenFunc == nil {
		a.VerifyTokenFunc = verifiedAs("u1")
	}
	if p == nil {
		p = &fakeProducts{}
	}
	if b == nil {
		b = &fakeBookings{}
	}
	return NewRouter(RouterConfig{
		Logger:        logging.NewNop(),
		Auth:          a,
		Products:      p,
		Bookings:      b,
		AuthRateLimit: rate.Inf,
	})
}
