package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stores_api/internal/logging"
	"github.com/Skotchmaster/stores_api/internal/models"
	"github.com/Skotchmaster/stores_api/internal/repo"
	"github.com/Skotchmaster/stores_api/internal/service"
	"github.com/Skotchmaster/stores_api/internal/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

var (
	storeMsgs = messages{notFound: "Store not found.", conflict: "A store with that name already exists."}
	itemMsgs  = messages{notFound: "Item not found."}
	tagMsgs   = messages{notFound: "Tag not found.", conflict: "A tag with that name already exists."}
	linkMsgs  = messages{notFound: "Item or tag not found."}
)

func (h *CatalogHTTP) ListStores(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "store.list")

	stores, err := h.Svc.ListStores(ctx)
	if err != nil {
		return fail(l, "list_stores_failed", err, storeMsgs)
	}
	return c.JSON(http.StatusOK, stores)
}

func (h *CatalogHTTP) GetStore(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "store.get")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	store, err := h.Svc.GetStore(ctx, id)
	if err != nil {
		return fail(l, "get_store_failed", err, storeMsgs)
	}
	return c.JSON(http.StatusOK, store)
}

func (h *CatalogHTTP) CreateStore(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "store.create")

	var req transport.StoreRequest
	if he := bindAndValidate(c, &req); he != nil {
		l.Warn("store_create_error", "status", he.Code, "error", he.Internal)
		return he
	}
	store, err := h.Svc.CreateStore(ctx, req.Name)
	if err != nil {
		return fail(l, "store_create_error", err, storeMsgs)
	}
	return c.JSON(http.StatusCreated, store)
}

func (h *CatalogHTTP) DeleteStore(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "store.delete")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteStore(ctx, id); err != nil {
		return fail(l, "store_delete_error", err, storeMsgs)
	}
	l.Info("store_deleted", "store_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Store deleted."})
}

func (h *CatalogHTTP) ListItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.list")

	items, err := h.Svc.ListItems(ctx)
	if err != nil {
		return fail(l, "list_items_failed", err, itemMsgs)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.get")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.Svc.GetItem(ctx, id)
	if err != nil {
		return fail(l, "get_item_failed", err, itemMsgs)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.create")

	var req transport.CreateItemRequest
	if he := bindAndValidate(c, &req); he != nil {
		l.Warn("item_create_error", "status", he.Code, "error", he.Internal)
		return he
	}
	item, err := h.Svc.CreateItem(ctx, models.Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		StoreID:     req.StoreID,
	})
	if err != nil {
		return fail(l, "item_create_error", err, storeMsgs)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *CatalogHTTP) UpsertItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.upsert")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req transport.UpsertItemRequest
	if he := bindAndValidate(c, &req); he != nil {
		l.Warn("item_upsert_error", "status", he.Code, "error", he.Internal)
		return he
	}

	item, created, err := h.Svc.UpsertItem(ctx, id, repo.ItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		StoreID:     req.StoreID,
	})
	if err != nil {
		return fail(l, "item_upsert_error", err, storeMsgs)
	}
	l.Info("item_upserted", "item_id", id, "created", created)
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.delete")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteItem(ctx, id); err != nil {
		return fail(l, "item_delete_error", err, itemMsgs)
	}
	l.Info("item_deleted", "item_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Item deleted."})
}

func (h *CatalogHTTP) SearchItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item.search")

	var q transport.SearchQuery
	if he := bindAndValidate(c, &q); he != nil {
		l.Warn("item_search_error", "status", he.Code, "error", he.Internal)
		if he.Code == http.StatusUnprocessableEntity {
			he.Code = http.StatusBadRequest
		}
		return he
	}

	res, err := h.Svc.SearchItems(ctx, q.Q, q.Page, q.Size)
	if err != nil {
		return fail(l, "item_search_error", err, itemMsgs)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) ListStoreTags(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.list")

	storeID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tags, err := h.Svc.ListStoreTags(ctx, storeID)
	if err != nil {
		return fail(l, "list_tags_failed", err, storeMsgs)
	}
	return c.JSON(http.StatusOK, tags)
}

func (h *CatalogHTTP) CreateStoreTag(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.create")

	storeID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req transport.TagRequest
	if he := bindAndValidate(c, &req); he != nil {
		l.Warn("tag_create_error", "status", he.Code, "error", he.Internal)
		return he
	}
	tag, err := h.Svc.CreateTag(ctx, storeID, req.Name)
	if err != nil {
		return fail(l, "tag_create_error", err, messages{notFound: storeMsgs.notFound, conflict: tagMsgs.conflict})
	}
	return c.JSON(http.StatusCreated, tag)
}

func (h *CatalogHTTP) GetTag(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.get")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tag, err := h.Svc.GetTag(ctx, id)
	if err != nil {
		return fail(l, "get_tag_failed", err, tagMsgs)
	}
	return c.JSON(http.StatusOK, tag)
}

func (h *CatalogHTTP) DeleteTag(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.delete")

	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteTag(ctx, id); err != nil {
		return fail(l, "tag_delete_error", err, tagMsgs)
	}
	return c.JSON(http.StatusAccepted, echo.Map{"message": "Tag deleted."})
}

func (h *CatalogHTTP) LinkTag(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.link")

	itemID, err := parseID(c, "item_id")
	if err != nil {
		return err
	}
	tagID, err := parseID(c, "tag_id")
	if err != nil {
		return err
	}
	tag, err := h.Svc.LinkTag(ctx, itemID, tagID)
	if err != nil {
		return fail(l, "tag_link_error", err, linkMsgs)
	}
	return c.JSON(http.StatusCreated, tag)
}

func (h *CatalogHTTP) UnlinkTag(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tag.unlink")

	itemID, err := parseID(c, "item_id")
	if err != nil {
		return err
	}
	tagID, err := parseID(c, "tag_id")
	if err != nil {
		return err
	}
	item, tag, err := h.Svc.UnlinkTag(ctx, itemID, tagID)
	if err != nil {
		return fail(l, "tag_unlink_error", err, linkMsgs)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Item removed from tag",
		"item":    item,
		"tag":     tag,
	})
}
