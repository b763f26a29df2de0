package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"catalog_service/internal/cache"
	"catalog_service/internal/domain"
	"catalog_service/internal/repository/memory"
	"catalog_service/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeFiles struct {
	mu      sync.Mutex
	saved   map[string]string
	removed []string
	seq     int
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{saved: make(map[string]string)}
}

func (f *fakeFiles) Save(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".png" {
		return "", storage.ErrUnsupportedType
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	name := fmt.Sprintf("%s/file%d%s", storage.ImageDir, f.seq, ext)
	f.saved[name] = string(body)
	return name, nil
}

func (f *fakeFiles) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, name)
	f.removed = append(f.removed, name)
	return nil
}

func (f *fakeFiles) URL(name string) string {
	return "/media/" + name
}

type fixture struct {
	ctx   context.Context
	clock *testClock
	store *memory.Store
	mem   *cache.MemoryCache
	files *fakeFiles
	log   *logrus.Logger

	cars       Service[domain.Car]
	categories Service[domain.Category]
	products   ProductService
	images     ImageService
	auth       AuthService
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	enforceOwnership   bool
	invalidateFiltered bool
}

func withOwnership() fixtureOption {
	return func(c *fixtureConfig) { c.enforceOwnership = true }
}

func withFilteredInvalidation() fixtureOption {
	return func(c *fixtureConfig) { c.invalidateFiltered = true }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	var cfg fixtureConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	clock := &testClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	store := memory.NewStore().WithClock(clock.Now)
	mem := cache.NewMemoryCache()
	aside := cache.NewAside(mem, cache.DefaultTTL, nil, logger)
	files := newFakeFiles()

	policy := NewUpdatePolicy(DefaultUpdateWindow, cfg.enforceOwnership)
	policy.Now = clock.Now

	return &fixture{
		ctx:        context.Background(),
		clock:      clock,
		store:      store,
		mem:        mem,
		files:      files,
		log:        logger,
		cars:       NewCarUseCase(store, aside, policy, logger),
		categories: NewCategoryUseCase(store, store, files, aside, cfg.invalidateFiltered, logger),
		products:   NewProductUseCase(store, store, files, aside, policy, cfg.invalidateFiltered, logger),
		images:     NewImageUseCase(store, store, files, aside, logger),
		auth:       NewAuthUseCase(store, store, logger),
	}
}

func (f *fixture) cached(t *testing.T, key cache.Key) bool {
	t.Helper()
	_, found, err := f.mem.Get(f.ctx, key.String())
	require.NoError(t, err)
	return found
}

func (f *fixture) user(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := f.store.CreateUser(f.ctx, &domain.User{Username: name, PasswordHash: "x"})
	require.NoError(t, err)
	return u
}

func (f *fixture) category(t *testing.T, slug string, parent *int64) *domain.Category {
	t.Helper()
	c, err := f.categories.Create(f.ctx, &domain.Category{Name: strings.ToUpper(slug), Slug: slug, ParentID: parent}, nil)
	require.NoError(t, err)
	return c
}

func (f *fixture) product(t *testing.T, slug string, categoryID int64, actor *domain.User) *domain.Product {
	t.Helper()
	p, err := f.products.Create(f.ctx, &domain.Product{
		Name:       strings.ToUpper(slug),
		Slug:       slug,
		CategoryID: categoryID,
		Price:      price("9.99"),
	}, actor)
	require.NoError(t, err)
	return p
}

func (f *fixture) image(t *testing.T, productID int64) *domain.Image {
	t.Helper()
	img, err := f.images.Create(f.ctx, productID, &Upload{Filename: "photo.jpg", Body: strings.NewReader("jpeg")}, nil)
	require.NoError(t, err)
	return img
}

func price(s string) *domain.Price {
	return domain.NewPrice(decimal.RequireFromString(s))
}

func fieldsOf(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Fields
}
