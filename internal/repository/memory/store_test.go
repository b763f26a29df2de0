package memory

import (
	"context"
	"testing"

	"catalog_service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCategory(t *testing.T, s *Store, slug string, parent *int64) *domain.Category {
	t.Helper()
	c, err := s.CreateCategory(context.Background(), &domain.Category{Name: slug, Slug: slug, ParentID: parent})
	require.NoError(t, err)
	return c
}

func seedProduct(t *testing.T, s *Store, slug string, categoryID int64) *domain.Product {
	t.Helper()
	price := decimal.NewFromInt(10)
	p, err := s.CreateProduct(context.Background(), &domain.Product{Name: slug, Slug: slug, CategoryID: categoryID, Price: domain.NewPrice(price)})
	require.NoError(t, err)
	return p
}

func TestStore_DeleteCategoryCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	root := seedCategory(t, s, "root", nil)
	child := seedCategory(t, s, "child", &root.ID)
	other := seedCategory(t, s, "other", nil)
	p := seedProduct(t, s, "p", child.ID)
	keep := seedProduct(t, s, "keep", other.ID)
	img, err := s.CreateImage(ctx, &domain.Image{ProductID: p.ID, Image: "product_images/a.png"})
	require.NoError(t, err)

	subtree, err := s.ListSubtree(ctx, root.ID)
	require.NoError(t, err)
	assert.Len(t, subtree, 2)

	require.NoError(t, s.DeleteCategory(ctx, root.ID))

	_, err = s.GetCategoryByID(ctx, child.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetProductByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetImageByID(ctx, img.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.GetProductByID(ctx, keep.ID)
	assert.NoError(t, err)
}

func TestStore_SubtreeSurvivesCycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	a := seedCategory(t, s, "a", nil)
	b := seedCategory(t, s, "b", &a.ID)

	a.ParentID = &b.ID
	_, err := s.UpdateCategory(ctx, a)
	require.NoError(t, err)

	subtree, err := s.ListSubtree(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, subtree, 2)
}

func TestStore_UniqueSlugs(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	c := seedCategory(t, s, "phones", nil)
	seedProduct(t, s, "pixel", c.ID)

	_, err := s.CreateCategory(ctx, &domain.Category{Name: "x", Slug: "phones"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	price := decimal.NewFromInt(1)
	_, err = s.CreateProduct(ctx, &domain.Product{Name: "x", Slug: "pixel", CategoryID: c.ID, Price: domain.NewPrice(price)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Re-saving a record with its own slug is not a conflict.
	_, err = s.UpdateCategory(ctx, c)
	assert.NoError(t, err)
}

func TestStore_ProductHydration(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	c := seedCategory(t, s, "phones", nil)
	p := seedProduct(t, s, "pixel", c.ID)
	_, err := s.CreateImage(ctx, &domain.Image{ProductID: p.ID, Image: "product_images/a.png"})
	require.NoError(t, err)

	got, err := s.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "phones", got.Category.Slug)
	assert.Len(t, got.Images, 1)

	bySlug, err := s.ListProductsByCategorySlug(ctx, "phones")
	require.NoError(t, err)
	assert.Len(t, bySlug, 1)
	none, err := s.ListProductsByCategorySlug(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_ReturnedRowsShareNoPointers(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	root := seedCategory(t, s, "root", nil)
	other := seedCategory(t, s, "other", nil)
	parent := root.ID
	child := seedCategory(t, s, "child", &parent)
	parent = other.ID
	p := seedProduct(t, s, "pixel", child.ID)

	got, err := s.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	*got.Category.ParentID = other.ID
	*got.Price = domain.Price{Decimal: decimal.NewFromInt(99)}

	bySlug, err := s.GetCategoryBySlug(ctx, "child")
	require.NoError(t, err)
	*bySlug.ParentID = other.ID

	stored, err := s.GetCategoryByID(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ParentID)
	assert.Equal(t, root.ID, *stored.ParentID)

	again, err := s.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, again.Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, root.ID, *again.Category.ParentID)
}

func TestStore_Tokens(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	u, err := s.CreateUser(ctx, &domain.User{Username: "alice", PasswordHash: "h"})
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, &domain.User{Username: "alice", PasswordHash: "h"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.CreateToken(ctx, &domain.Token{Key: "k", UserID: u.ID})
	require.NoError(t, err)
	tok, err := s.GetTokenByKey(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, u.ID, tok.UserID)

	require.NoError(t, s.DeleteToken(ctx, "k"))
	_, err = s.GetTokenByKey(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
