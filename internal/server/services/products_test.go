package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/logging"
	"github.com/dmitrijs2005/eliteglam/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductService(t *testing.T) (*ProductService, *fakeRepoManager, sqlmock.Sqlmock) {
	t.Helper()
	rm := newFakeRepoManager()
	db, mock := newSQLMockDB(t)
	return NewProductService(db, rm, logging.NewNop()), rm, mock
}

func gownInput() ProductInput {
	return ProductInput{Name: "Gown", Price: 120, Description: "red silk", Category: "dress", Quantity: 2}
}

func TestProductService_CreateGetList(t *testing.T) {
	s, _, _ := newProductService(t)
	ctx := context.Background()

	p, err := s.Create(ctx, gownInput())
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gown", got.Name)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProductService_CreateValidation(t *testing.T) {
	s, _, _ := newProductService(t)

	in := gownInput()
	in.Price = -1
	_, err := s.Create(context.Background(), in)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestProductService_RatingHasNoUpperBound(t *testing.T) {
	s, _, _ := newProductService(t)
	ctx := context.Background()

	in := gownInput()
	ten := 10.0
	in.Rating = &ten
	p, err := s.Create(ctx, in)
	require.NoError(t, err)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 10.0, *got.Rating)
}

func TestProductService_NotFoundMessage(t *testing.T) {
	s, _, _ := newProductService(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "abc")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, `Product with ID "abc" not found`, err.Error())

	missing := "6f1c2b1e-0000-4000-8000-000000000000"
	_, err = s.Get(ctx, missing)
	assert.Equal(t, `Product with ID "`+missing+`" not found`, err.Error())

	assert.ErrorIs(t, s.Delete(ctx, missing), common.ErrorNotFound)
	assert.ErrorIs(t, s.Update(ctx, "abc", models.ProductPatch{}), common.ErrorNotFound)
}

func TestProductService_UpdatePartial(t *testing.T) {
	s, rm, mock := newProductService(t)
	ctx := context.Background()

	p, err := s.Create(ctx, gownInput())
	require.NoError(t, err)
	s.now = func() time.Time { return p.UpdatedAt.Add(time.Hour) }

	mock.ExpectBegin()
	mock.ExpectCommit()
	price := 99.5
	require.NoError(t, s.Update(ctx, p.ID, models.ProductPatch{Price: &price}))

	stored := rm.prod.rows[p.ID]
	assert.Equal(t, 99.5, stored.Price)
	assert.Equal(t, "Gown", stored.Name)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt))

	mock.ExpectBegin()
	mock.ExpectRollback()
	qty := -1
	err = s.Update(ctx, p.ID, models.ProductPatch{Quantity: &qty})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, 2, rm.prod.rows[p.ID].Quantity)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductService_Delete(t *testing.T) {
	s, rm, _ := newProductService(t)
	ctx := context.Background()

	p, err := s.Create(ctx, gownInput())
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, p.ID))
	assert.Empty(t, rm.prod.rows)
}
