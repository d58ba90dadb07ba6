package services

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/dbx"
	"github.com/dmitrijs2005/eliteglam/internal/server/models"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/bookings"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/identities"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/products"
	"github.com/dmitrijs2005/eliteglam/internal/server/repositories/profiles"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// --- identities ---

type memIdentities struct {
	mu   sync.Mutex
	rows map[string]models.Identity
}

func newMemIdentities() *memIdentities {
	return &memIdentities{rows: map[string]models.Identity{}}
}

func (m *memIdentities) Create(_ context.Context, i *models.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if strings.EqualFold(r.Email, i.Email) {
			return common.ErrConflict
		}
	}
	i.CreatedAt = time.Now()
	m.rows[i.UID] = *i
	return nil
}

func (m *memIdentities) GetByEmail(_ context.Context, email string) (*models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if strings.EqualFold(r.Email, email) {
			r := r
			return &r, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memIdentities) GetByUID(_ context.Context, uid string) (*models.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[uid]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &r, nil
}

func (m *memIdentities) Delete(_ context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[uid]; !ok {
		return common.ErrorNotFound
	}
	delete(m.rows, uid)
	return nil
}

// --- profiles ---

type memProfiles struct {
	mu        sync.Mutex
	rows      map[string]models.Profile
	createErr error
	getErr    error
}

func newMemProfiles() *memProfiles {
	return &memProfiles{rows: map[string]models.Profile{}}
}

func (m *memProfiles) Create(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.rows[p.UID]; ok {
		return common.ErrConflict
	}
	m.rows[p.UID] = *p
	return nil
}

func (m *memProfiles) Get(_ context.Context, uid string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.rows[uid]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if p.Details != nil {
		d := *p.Details
		p.Details = &d
	}
	return &p, nil
}

func (m *memProfiles) Update(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[p.UID]; !ok {
		return common.ErrorNotFound
	}
	m.rows[p.UID] = *p
	return nil
}

// --- products ---

type memProducts struct {
	rows map[string]models.Product
}

func newMemProducts() *memProducts {
	return &memProducts{rows: map[string]models.Product{}}
}

func (m *memProducts) Create(_ context.Context, p *models.Product) error {
	m.rows[p.ID] = *p
	return nil
}

func (m *memProducts) List(context.Context) ([]*models.Product, error) {
	out := []*models.Product{}
	for _, p := range m.rows {
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (m *memProducts) Get(_ context.Context, id string) (*models.Product, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (m *memProducts) Update(_ context.Context, p *models.Product) error {
	if _, ok := m.rows[p.ID]; !ok {
		return common.ErrorNotFound
	}
	m.rows[p.ID] = *p
	return nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.rows, id)
	return nil
}

// --- bookings ---

type memBookings struct {
	rows      map[string]models.Booking
	updateErr error
}

func newMemBookings() *memBookings {
	return &memBookings{rows: map[string]models.Booking{}}
}

func (m *memBookings) Create(_ context.Context, b *models.Booking) error {
	m.rows[b.ID] = *b
	return nil
}

func (m *memBookings) List(context.Context) ([]*models.Booking, error) {
	out := []*models.Booking{}
	for _, b := range m.rows {
		b := b
		out = append(out, &b)
	}
	return out, nil
}

func (m *memBookings) Get(_ context.Context, id string) (*models.Booking, error) {
	b, ok := m.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &b, nil
}

func (m *memBookings) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus, at time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	b, ok := m.rows[id]
	if !ok || b.Status != from {
		return common.ErrConflict
	}
	b.Status = to
	b.UpdatedAt = at
	m.rows[id] = b
	return nil
}

// --- repo manager ---

type fakeRepoManager struct {
	ids  *memIdentities
	prof *memProfiles
	prod *memProducts
	book *memBookings
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		ids:  newMemIdentities(),
		prof: newMemProfiles(),
		prod: newMemProducts(),
		book: newMemBookings(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Identities(dbx.DBTX) identities.Repository    { return m.ids }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository        { return m.prof }
func (m *fakeRepoManager) Products(dbx.DBTX) products.Repository        { return m.prod }
func (m *fakeRepoManager) Bookings(dbx.DBTX) bookings.Repository        { return m.book }
