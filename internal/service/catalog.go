package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/stores_api/internal/logging"
	"github.com/Skotchmaster/stores_api/internal/models"
	"github.com/Skotchmaster/stores_api/internal/repo"
	"github.com/Skotchmaster/stores_api/internal/search"
	"github.com/Skotchmaster/stores_api/internal/util"
)

type CatalogService struct {
	Repo  *repo.GormRepo
	Index search.ItemIndex
}

func NewCatalogService(r *repo.GormRepo, idx search.ItemIndex) *CatalogService {
	if idx == nil {
		idx = search.Database{Repo: r}
	}
	return &CatalogService{Repo: r, Index: idx}
}

func (s *CatalogService) ListStores(ctx context.Context) ([]models.Store, error) {
	stores, err := s.Repo.ListStores(ctx)
	return stores, mapRepoErr(err)
}

func (s *CatalogService) GetStore(ctx context.Context, id uint) (*models.Store, error) {
	store, err := s.Repo.GetStore(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return store, nil
}

func (s *CatalogService) CreateStore(ctx context.Context, name string) (*models.Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: store name is required", ErrValidation)
	}
	store, err := s.Repo.CreateStore(ctx, &models.Store{Name: name})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return store, nil
}

func (s *CatalogService) DeleteStore(ctx context.Context, id uint) error {
	itemIDs, err := s.Repo.DeleteStore(ctx, id)
	if err != nil {
		return mapRepoErr(err)
	}
	for _, itemID := range itemIDs {
		s.unindex(ctx, itemID)
	}
	return nil
}

func (s *CatalogService) ListItems(ctx context.Context) ([]models.Item, error) {
	items, err := s.Repo.ListItems(ctx)
	return items, mapRepoErr(err)
}

func (s *CatalogService) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	item, err := s.Repo.GetItem(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return item, nil
}

func (s *CatalogService) CreateItem(ctx context.Context, item models.Item) (*models.Item, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, fmt.Errorf("%w: item name is required", ErrValidation)
	}
	created, err := s.Repo.CreateItem(ctx, &item)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	s.index(ctx, *created)
	return created, nil
}

// UpsertItem updates item id or creates it under that id. The bool reports
// whether the item was created.
func (s *CatalogService) UpsertItem(ctx context.Context, id uint, p repo.ItemPatch) (*models.Item, bool, error) {
	item, created, err := s.Repo.UpsertItem(ctx, id, p)
	if err != nil {
		return nil, false, mapRepoErr(err)
	}
	s.index(ctx, *item)
	return item, created, nil
}

func (s *CatalogService) DeleteItem(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteItem(ctx, id); err != nil {
		return mapRepoErr(err)
	}
	s.unindex(ctx, id)
	return nil
}

func (s *CatalogService) SearchItems(ctx context.Context, q string, page, size int) (search.Results, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return search.Results{}, fmt.Errorf("%w: query is required", ErrValidation)
	}
	from, limit := util.Calculate(page, size)
	res, err := s.Index.Search(ctx, q, from, limit)
	if err != nil {
		return search.Results{}, err
	}
	if res.Items == nil {
		res.Items = []models.Item{}
	}
	return res, nil
}

func (s *CatalogService) ListStoreTags(ctx context.Context, storeID uint) ([]models.Tag, error) {
	tags, err := s.Repo.ListStoreTags(ctx, storeID)
	return tags, mapRepoErr(err)
}

func (s *CatalogService) CreateTag(ctx context.Context, storeID uint, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: tag name is required", ErrValidation)
	}
	tag, err := s.Repo.CreateTag(ctx, &models.Tag{Name: name, StoreID: storeID})
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return tag, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.Repo.GetTag(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return tag, nil
}

func (s *CatalogService) DeleteTag(ctx context.Context, id uint) error {
	return mapRepoErr(s.Repo.DeleteTag(ctx, id))
}

func (s *CatalogService) LinkTag(ctx context.Context, itemID, tagID uint) (*models.Tag, error) {
	tag, err := s.Repo.LinkTag(ctx, itemID, tagID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return tag, nil
}

func (s *CatalogService) UnlinkTag(ctx context.Context, itemID, tagID uint) (*models.Item, *models.Tag, error) {
	item, tag, err := s.Repo.UnlinkTag(ctx, itemID, tagID)
	if err != nil {
		return nil, nil, mapRepoErr(err)
	}
	return item, tag, nil
}

// index failures are logged only; the database stays the source of truth.
func (s *CatalogService) index(ctx context.Context, item models.Item) {
	if err := s.Index.Index(ctx, item); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "item_id", item.ID, "error", err)
	}
}

func (s *CatalogService) unindex(ctx context.Context, id uint) {
	if err := s.Index.Delete(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("search_unindex_failed", "item_id", id, "error", err)
	}
}
