// Package search keeps the item search index in step with the database and
// answers item queries.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/stores_api/internal/models"
)

type Results struct {
	Total int64         `json:"total"`
	Items []models.Item `json:"items"`
}

type ItemIndex interface {
	Index(ctx context.Context, item models.Item) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, q string, from, size int) (Results, error)
}

type itemDoc struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	StoreID     uint    `json:"store_id"`
}

func toDoc(it models.Item) itemDoc {
	return itemDoc{ID: it.ID, Name: it.Name, Description: it.Description, Price: it.Price, StoreID: it.StoreID}
}

func (d itemDoc) item() models.Item {
	return models.Item{ID: d.ID, Name: d.Name, Description: d.Description, Price: d.Price, StoreID: d.StoreID}
}

// Elastic indexes items into an Elasticsearch index.
type Elastic struct {
	Client    *elasticsearch.Client
	IndexName string
}

func NewElastic(client *elasticsearch.Client, index string) *Elastic {
	return &Elastic{Client: client, IndexName: index}
}

func (e *Elastic) Index(ctx context.Context, item models.Item) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(toDoc(item)); err != nil {
		return fmt.Errorf("es: encode item: %w", err)
	}

	res, err := e.Client.Index(e.IndexName, &buf,
		e.Client.Index.WithContext(ctx),
		e.Client.Index.WithDocumentID(strconv.FormatUint(uint64(item.ID), 10)),
		e.Client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("es: index item %d: %w", item.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index item", res.StatusCode, res.Body)
	}
	return nil
}

// Delete ignores documents that were never indexed.
func (e *Elastic) Delete(ctx context.Context, id uint) error {
	res, err := e.Client.Delete(e.IndexName, strconv.FormatUint(uint64(id), 10),
		e.Client.Delete.WithContext(ctx),
		e.Client.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("es: delete item %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete item", res.StatusCode, res.Body)
	}
	return nil
}

func (e *Elastic) Search(ctx context.Context, q string, from, size int) (Results, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return Results{}, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := e.Client.Search(
		e.Client.Search.WithContext(ctx),
		e.Client.Search.WithIndex(e.IndexName),
		e.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return Results{}, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return Results{}, responseError("search", res.StatusCode, res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source itemDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return Results{}, fmt.Errorf("es: decode search: %w", err)
	}

	items := make([]models.Item, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source.item()
	}
	return Results{Total: r.Hits.Total.Value, Items: items}, nil
}

func responseError(op string, status int, body io.Reader) error {
	raw, _ := io.ReadAll(io.LimitReader(body, 1<<10))
	return fmt.Errorf("es: %s: status %d: %s", op, status, strings.TrimSpace(string(raw)))
}

type ItemSearcher interface {
	SearchItems(ctx context.Context, q string, offset, limit int) (int64, []models.Item, error)
}

// Database answers queries straight from the items table. Index and Delete
// have nothing to do because the table is the source.
type Database struct {
	Repo ItemSearcher
}

func (d Database) Index(context.Context, models.Item) error { return nil }

func (d Database) Delete(context.Context, uint) error { return nil }

func (d Database) Search(ctx context.Context, q string, from, size int) (Results, error) {
	total, items, err := d.Repo.SearchItems(ctx, q, from, size)
	if err != nil {
		return Results{}, err
	}
	return Results{Total: total, Items: items}, nil
}
