package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/stores_api/internal/claims"
	"github.com/Skotchmaster/stores_api/internal/db/dbtest"
	"github.com/Skotchmaster/stores_api/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	return New(dbtest.Open(t))
}

func ptr[T any](v T) *T { return &v }

func seedStore(t *testing.T, r *GormRepo, name string) *models.Store {
	t.Helper()
	s, err := r.CreateStore(context.Background(), &models.Store{Name: name})
	require.NoError(t, err)
	return s
}

func seedItem(t *testing.T, r *GormRepo, storeID uint, name string) *models.Item {
	t.Helper()
	it, err := r.CreateItem(context.Background(), &models.Item{Name: name, Price: 9.5, StoreID: storeID})
	require.NoError(t, err)
	return it
}

func TestUsers(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	u := &models.User{Username: "alice", PasswordHash: "h", Role: models.RoleUser}
	require.NoError(t, r.CreateUserIfNotExists(ctx, u))
	require.NotZero(t, u.ID)

	err := r.CreateUserIfNotExists(ctx, &models.User{Username: "alice", PasswordHash: "other"})
	assert.ErrorIs(t, err, ErrUserAlreadyExist)

	got, err := r.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "h", got.PasswordHash)

	require.NoError(t, r.UpdatePasswordHash(ctx, u.ID, "h2"))
	got, err = r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "h2", got.PasswordHash)

	role, err := r.UserRole(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, role)

	require.NoError(t, r.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, r.DeleteUser(ctx, u.ID), gorm.ErrRecordNotFound)

	_, err = r.UserRole(ctx, u.ID)
	assert.ErrorIs(t, err, claims.ErrUnknownUser)

	_, err = r.GetUserByUsername(ctx, "alice")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStores(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	s := seedStore(t, r, "corner shop")
	_, err := r.CreateStore(ctx, &models.Store{Name: "corner shop"})
	assert.ErrorIs(t, err, ErrAlreadyExist)

	seedStore(t, r, "market")
	stores, err := r.ListStores(ctx)
	require.NoError(t, err)
	assert.Len(t, stores, 2)

	got, err := r.GetStore(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "corner shop", got.Name)

	_, err = r.GetStore(ctx, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteStore_RemovesChildren(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	s := seedStore(t, r, "doomed")
	keep := seedStore(t, r, "kept")
	a := seedItem(t, r, s.ID, "a")
	b := seedItem(t, r, s.ID, "b")
	other := seedItem(t, r, keep.ID, "other")

	tag, err := r.CreateTag(ctx, &models.Tag{Name: "sale", StoreID: s.ID})
	require.NoError(t, err)
	_, err = r.LinkTag(ctx, a.ID, tag.ID)
	require.NoError(t, err)

	ids, err := r.DeleteStore(ctx, s.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, ids)

	_, err = r.GetItem(ctx, a.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = r.GetTag(ctx, tag.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = r.GetItem(ctx, other.ID)
	assert.NoError(t, err)

	var links int64
	require.NoError(t, r.DB.Table("items_tags").Count(&links).Error)
	assert.Zero(t, links)

	_, err = r.DeleteStore(ctx, s.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestItems_CreateNeedsStore(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	_, err := r.CreateItem(context.Background(), &models.Item{Name: "x", Price: 1, StoreID: 42})
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestItems_Upsert(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	s := seedStore(t, r, "s")

	_, _, err := r.UpsertItem(ctx, 77, ItemPatch{Name: ptr("chair")})
	assert.ErrorIs(t, err, ErrIncompleteItem)

	_, _, err = r.UpsertItem(ctx, 77, ItemPatch{Name: ptr("chair"), Price: ptr(10.0), StoreID: ptr(uint(999))})
	assert.ErrorIs(t, err, ErrStoreNotFound)

	item, created, err := r.UpsertItem(ctx, 77, ItemPatch{Name: ptr("chair"), Price: ptr(10.0), StoreID: ptr(s.ID)})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(77), item.ID)

	item, created, err = r.UpsertItem(ctx, 77, ItemPatch{Price: ptr(12.5), Description: ptr("oak")})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "chair", item.Name)
	assert.Equal(t, 12.5, item.Price)
	assert.Equal(t, "oak", item.Description)

	got, err := r.GetItem(ctx, 77)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.Price)
	require.NotNil(t, got.Store)
	assert.Equal(t, "s", got.Store.Name)
}

func TestItems_DeleteAndSearch(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	s := seedStore(t, r, "s")
	lamp := seedItem(t, r, s.ID, "Desk Lamp")
	seedItem(t, r, s.ID, "Floor lamp")
	seedItem(t, r, s.ID, "Chair")

	total, items, err := r.SearchItems(ctx, "LAMP", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	total, items, err = r.SearchItems(ctx, "lamp", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 1)

	require.NoError(t, r.DeleteItem(ctx, lamp.ID))
	assert.ErrorIs(t, r.DeleteItem(ctx, lamp.ID), gorm.ErrRecordNotFound)

	byID, err := r.GetItemsByIDs(ctx, []uint{lamp.ID})
	require.NoError(t, err)
	assert.Empty(t, byID)
}

func TestTags(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	s1 := seedStore(t, r, "s1")
	s2 := seedStore(t, r, "s2")
	item := seedItem(t, r, s1.ID, "thing")

	tag, err := r.CreateTag(ctx, &models.Tag{Name: "new", StoreID: s1.ID})
	require.NoError(t, err)

	_, err = r.CreateTag(ctx, &models.Tag{Name: "new", StoreID: s2.ID})
	assert.ErrorIs(t, err, ErrAlreadyExist)

	_, err = r.CreateTag(ctx, &models.Tag{Name: "orphan", StoreID: 999})
	assert.ErrorIs(t, err, ErrStoreNotFound)

	foreign, err := r.CreateTag(ctx, &models.Tag{Name: "foreign", StoreID: s2.ID})
	require.NoError(t, err)

	tags, err := r.ListStoreTags(ctx, s1.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "new", tags[0].Name)

	_, err = r.ListStoreTags(ctx, 999)
	assert.ErrorIs(t, err, ErrStoreNotFound)

	_, err = r.LinkTag(ctx, item.ID, foreign.ID)
	assert.ErrorIs(t, err, ErrStoreMismatch)

	_, err = r.LinkTag(ctx, item.ID, tag.ID)
	require.NoError(t, err)

	got, err := r.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, item.ID, got.Items[0].ID)

	assert.ErrorIs(t, r.DeleteTag(ctx, tag.ID), ErrTagInUse)

	_, _, err = r.UnlinkTag(ctx, item.ID, tag.ID)
	require.NoError(t, err)

	require.NoError(t, r.DeleteTag(ctx, tag.ID))
	assert.ErrorIs(t, r.DeleteTag(ctx, tag.ID), gorm.ErrRecordNotFound)

	_, err = r.LinkTag(ctx, item.ID, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
