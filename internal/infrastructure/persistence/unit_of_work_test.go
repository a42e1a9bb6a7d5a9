package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackplan/backend/internal/domain/tracking"
)

func TestGormUnitOfWork_Execute(t *testing.T) {
	db := setupTestDB(t)
	uow := NewGormUnitOfWork(db)
	ctx := context.Background()

	t.Run("commits when the callback succeeds", func(t *testing.T) {
		err := uow.Execute(ctx, func(ctx context.Context, repos *tracking.Repositories) error {
			product, err := tracking.NewProduct("webshop", "")
			if err != nil {
				return err
			}
			return repos.Products.Save(ctx, product)
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&tracking.Product{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rolls everything back when the callback fails", func(t *testing.T) {
		boom := errors.New("boom")
		err := uow.Execute(ctx, func(ctx context.Context, repos *tracking.Repositories) error {
			product, err := tracking.NewProduct("mobile-app", "")
			if err != nil {
				return err
			}
			if err := repos.Products.Save(ctx, product); err != nil {
				return err
			}
			page, err := tracking.NewPage(product.ID, "Home", "")
			if err != nil {
				return err
			}
			if err := repos.Pages.Save(ctx, page); err != nil {
				return err
			}
			return boom
		})
		assert.Equal(t, boom, err)

		var products int64
		require.NoError(t, db.Model(&tracking.Product{}).Count(&products).Error)
		assert.Equal(t, int64(1), products)

		var pages int64
		require.NoError(t, db.Model(&tracking.Page{}).Count(&pages).Error)
		assert.Equal(t, int64(0), pages)
	})
}
