package usecase

import (
	"strings"
	"testing"

	"catalog_service/internal/cache"
	"catalog_service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageUseCase_CreateValidation(t *testing.T) {
	f := newFixture(t)
	phones := f.category(t, "phones", nil)
	p := f.product(t, "pixel", phones.ID, nil)

	_, err := f.images.Create(f.ctx, 0, nil, nil)
	fields := fieldsOf(t, err)
	assert.Equal(t, []string{"This field is required."}, fields["product"])
	assert.Equal(t, []string{"No file was submitted."}, fields["image"])

	_, err = f.images.Create(f.ctx, 777, &Upload{Filename: "a.jpg", Body: strings.NewReader("x")}, nil)
	assert.Equal(t, []string{`Invalid pk "777" - object does not exist.`}, fieldsOf(t, err)["product"])

	_, err = f.images.Create(f.ctx, p.ID, &Upload{Filename: "notes.txt", Body: strings.NewReader("x")}, nil)
	assert.Contains(t, fieldsOf(t, err), "image")
	assert.Empty(t, f.files.saved)
}

func TestImageUseCase_ReplaceFileAndMove(t *testing.T) {
	f := newFixture(t)
	phones := f.category(t, "phones", nil)
	pixel := f.product(t, "pixel", phones.ID, nil)
	galaxy := f.product(t, "galaxy", phones.ID, nil)
	img := f.image(t, pixel.ID)

	_, err := f.images.ListByProduct(f.ctx, pixel.ID)
	require.NoError(t, err)
	_, err = f.images.ListByProduct(f.ctx, galaxy.ID)
	require.NoError(t, err)

	updated, err := f.images.Update(f.ctx, img.ID, &galaxy.ID, &Upload{Filename: "new.png", Body: strings.NewReader("png")}, nil)
	require.NoError(t, err)
	assert.Equal(t, galaxy.ID, updated.ProductID)
	assert.NotEqual(t, img.Image, updated.Image)
	assert.Equal(t, "/media/"+updated.Image, updated.URL)
	assert.Contains(t, f.files.removed, img.Image)

	assert.False(t, f.cached(t, cache.ProductImages(pixel.ID)))
	assert.False(t, f.cached(t, cache.ProductImages(galaxy.ID)))

	onPixel, err := f.images.ListByProduct(f.ctx, pixel.ID)
	require.NoError(t, err)
	assert.Empty(t, onPixel)
	onGalaxy, err := f.images.ListByProduct(f.ctx, galaxy.ID)
	require.NoError(t, err)
	require.Len(t, onGalaxy, 1)
	assert.Equal(t, img.ID, onGalaxy[0].ID)
}

func TestImageUseCase_DeleteRemovesFile(t *testing.T) {
	f := newFixture(t)
	phones := f.category(t, "phones", nil)
	p := f.product(t, "pixel", phones.ID, nil)
	img := f.image(t, p.ID)

	require.NoError(t, f.images.Delete(f.ctx, img.ID, nil))
	assert.Contains(t, f.files.removed, img.Image)

	_, err := f.images.Get(f.ctx, img.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.images.Delete(f.ctx, img.ID, nil), domain.ErrNotFound)
}
