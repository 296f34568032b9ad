package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/stores_api/internal/db/dbtest"
	"github.com/Skotchmaster/stores_api/internal/models"
	"github.com/Skotchmaster/stores_api/internal/repo"
	"github.com/Skotchmaster/stores_api/internal/search"
)

type recordingIndex struct {
	mu      sync.Mutex
	indexed []uint
	deleted []uint
	err     error
}

func (r *recordingIndex) Index(_ context.Context, it models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed = append(r.indexed, it.ID)
	return r.err
}

func (r *recordingIndex) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
	return r.err
}

func (r *recordingIndex) Search(context.Context, string, int, int) (search.Results, error) {
	return search.Results{}, r.err
}

func newTestCatalog(t *testing.T) (*CatalogService, *recordingIndex) {
	t.Helper()
	idx := &recordingIndex{}
	return NewCatalogService(repo.New(dbtest.Open(t)), idx), idx
}

func ptr[T any](v T) *T { return &v }

func TestCatalog_Stores(t *testing.T) {
	t.Parallel()

	svc, _ := newTestCatalog(t)
	ctx := context.Background()

	_, err := svc.CreateStore(ctx, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	s, err := svc.CreateStore(ctx, "corner")
	require.NoError(t, err)

	_, err = svc.CreateStore(ctx, "corner")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.GetStore(ctx, s.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)

	stores, err := svc.ListStores(ctx)
	require.NoError(t, err)
	assert.Len(t, stores, 1)
}

func TestCatalog_ItemsKeepIndexInStep(t *testing.T) {
	t.Parallel()

	svc, idx := newTestCatalog(t)
	ctx := context.Background()

	s, err := svc.CreateStore(ctx, "s")
	require.NoError(t, err)

	_, err = svc.CreateItem(ctx, models.Item{Name: "x", Price: 1, StoreID: s.ID + 50})
	assert.ErrorIs(t, err, ErrNotFound)

	it, err := svc.CreateItem(ctx, models.Item{Name: "lamp", Price: 3, StoreID: s.ID})
	require.NoError(t, err)

	_, created, err := svc.UpsertItem(ctx, it.ID, repo.ItemPatch{Price: ptr(4.0)})
	require.NoError(t, err)
	assert.False(t, created)

	_, _, err = svc.UpsertItem(ctx, 500, repo.ItemPatch{Price: ptr(4.0)})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, svc.DeleteItem(ctx, it.ID))
	assert.ErrorIs(t, svc.DeleteItem(ctx, it.ID), ErrNotFound)

	assert.Equal(t, []uint{it.ID, it.ID}, idx.indexed)
	assert.Equal(t, []uint{it.ID}, idx.deleted)
}

func TestCatalog_DeleteStoreUnindexesItems(t *testing.T) {
	t.Parallel()

	svc, idx := newTestCatalog(t)
	ctx := context.Background()

	s, err := svc.CreateStore(ctx, "s")
	require.NoError(t, err)
	a, err := svc.CreateItem(ctx, models.Item{Name: "a", Price: 1, StoreID: s.ID})
	require.NoError(t, err)
	b, err := svc.CreateItem(ctx, models.Item{Name: "b", Price: 1, StoreID: s.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStore(ctx, s.ID))
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, idx.deleted)
	assert.ErrorIs(t, svc.DeleteStore(ctx, s.ID), ErrNotFound)
}

func TestCatalog_IndexFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	svc, idx := newTestCatalog(t)
	idx.err = errors.New("es down")
	ctx := context.Background()

	s, err := svc.CreateStore(ctx, "s")
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, models.Item{Name: "a", Price: 1, StoreID: s.ID})
	require.NoError(t, err)
}

func TestCatalog_Search(t *testing.T) {
	t.Parallel()

	svc := NewCatalogService(repo.New(dbtest.Open(t)), nil)
	ctx := context.Background()

	_, err := svc.SearchItems(ctx, "  ", 1, 10)
	assert.ErrorIs(t, err, ErrValidation)

	s, err := svc.CreateStore(ctx, "s")
	require.NoError(t, err)
	for _, name := range []string{"red lamp", "blue lamp", "chair"} {
		_, err := svc.CreateItem(ctx, models.Item{Name: name, Price: 1, StoreID: s.ID})
		require.NoError(t, err)
	}

	res, err := svc.SearchItems(ctx, "lamp", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	assert.Len(t, res.Items, 1)

	res, err = svc.SearchItems(ctx, "sofa", 1, 10)
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.NotNil(t, res.Items)
}

func TestCatalog_Tags(t *testing.T) {
	t.Parallel()

	svc, _ := newTestCatalog(t)
	ctx := context.Background()

	s1, err := svc.CreateStore(ctx, "s1")
	require.NoError(t, err)
	s2, err := svc.CreateStore(ctx, "s2")
	require.NoError(t, err)
	it, err := svc.CreateItem(ctx, models.Item{Name: "a", Price: 1, StoreID: s1.ID})
	require.NoError(t, err)

	_, err = svc.CreateTag(ctx, s1.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateTag(ctx, 999, "x")
	assert.ErrorIs(t, err, ErrNotFound)

	tag, err := svc.CreateTag(ctx, s1.ID, "sale")
	require.NoError(t, err)
	_, err = svc.CreateTag(ctx, s1.ID, "sale")
	assert.ErrorIs(t, err, ErrConflict)
	other, err := svc.CreateTag(ctx, s2.ID, "other")
	require.NoError(t, err)

	_, err = svc.LinkTag(ctx, it.ID, other.ID)
	assert.ErrorIs(t, err, ErrStoreMismatch)

	_, err = svc.LinkTag(ctx, it.ID, tag.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteTag(ctx, tag.ID), ErrTagInUse)

	_, _, err = svc.UnlinkTag(ctx, it.ID, tag.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTag(ctx, tag.ID))

	_, err = svc.GetTag(ctx, tag.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	tags, err := svc.ListStoreTags(ctx, s2.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}
