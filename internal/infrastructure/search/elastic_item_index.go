// Package search maintains the Elasticsearch index of items.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
	"github.com/nantech/inventory/internal/domain/catalog"
	"go.uber.org/zap"
)

// searchPageSize is the number of hits fetched per search request. Searches
// page with search_after until the hits run out, so results are never capped.
const searchPageSize = 500

// bulkBatchSize bounds the number of documents sent in one bulk request
const bulkBatchSize = 500

// Config holds Elasticsearch connection settings
type Config struct {
	Addresses []string
	Username  string
	Password  string
	Index     string
}

// itemDocument is the indexed shape of an item view
type itemDocument struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	CategoryID   int64   `json:"category_id"`
	Stock        int     `json:"stock"`
	SupplierID   *int64  `json:"supplier_id,omitempty"`
	CategoryName string  `json:"category_name"`
	SupplierName *string `json:"supplier_name,omitempty"`
}

func newItemDocument(v catalog.ItemView) itemDocument {
	return itemDocument{
		ID:           v.ID,
		Name:         v.Name,
		CategoryID:   v.CategoryID,
		Stock:        v.Stock,
		SupplierID:   v.SupplierID,
		CategoryName: v.CategoryName,
		SupplierName: v.SupplierName,
	}
}

// indexMapping keeps a keyword subfield for substring matching and sorting
const indexMapping = `{
  "mappings": {
    "properties": {
      "id":            {"type": "long"},
      "name":          {"type": "text", "fields": {"keyword": {"type": "keyword", "ignore_above": 256}}},
      "category_id":   {"type": "long"},
      "stock":         {"type": "integer"},
      "supplier_id":   {"type": "long"},
      "category_name": {"type": "keyword"},
      "supplier_name": {"type": "keyword"}
    }
  }
}`

// ElasticItemIndex implements catalog.ItemIndex on Elasticsearch
type ElasticItemIndex struct {
	client *elasticsearch.Client
	index  string
	logger *zap.Logger
}

// NewElasticItemIndex creates the client. It does not contact the cluster;
// call EnsureIndex at startup.
func NewElasticItemIndex(cfg Config, logger *zap.Logger) (*ElasticItemIndex, error) {
	if cfg.Index == "" {
		cfg.Index = "items"
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: create client: %w", err)
	}
	return &ElasticItemIndex{client: client, index: cfg.Index, logger: logger}, nil
}

// EnsureIndex creates the index with its mapping when it does not exist
func (x *ElasticItemIndex) EnsureIndex(ctx context.Context) error {
	res, err := x.client.Indices.Exists([]string{x.index}, x.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: check index: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("elasticsearch: check index: %s", res.Status())
	}

	res, err = x.client.Indices.Create(x.index,
		x.client.Indices.Create.WithContext(ctx),
		x.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: create index: %w", err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return fmt.Errorf("elasticsearch: create index: %w", err)
	}

	x.logger.Info("Search index created", zap.String("index", x.index))
	return nil
}

// Index stores or replaces the document for item
func (x *ElasticItemIndex) Index(ctx context.Context, item catalog.ItemView) error {
	body, err := json.Marshal(newItemDocument(item))
	if err != nil {
		return err
	}

	res, err := x.client.Index(x.index, bytes.NewReader(body),
		x.client.Index.WithContext(ctx),
		x.client.Index.WithDocumentID(strconv.FormatInt(item.ID, 10)),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: index item %d: %w", item.ID, err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return fmt.Errorf("elasticsearch: index item %d: %w", item.ID, err)
	}
	return nil
}

// IndexAll stores or replaces the documents for items through the bulk API
func (x *ElasticItemIndex) IndexAll(ctx context.Context, items []catalog.ItemView) error {
	for batch := range slices.Chunk(items, bulkBatchSize) {
		if err := x.bulkIndex(ctx, batch); err != nil {
			return err
		}
	}
	return nil
}

func (x *ElasticItemIndex) bulkIndex(ctx context.Context, items []catalog.ItemView) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, item := range items {
		action := map[string]any{"index": map[string]any{"_id": strconv.FormatInt(item.ID, 10)}}
		if err := enc.Encode(action); err != nil {
			return err
		}
		if err := enc.Encode(newItemDocument(item)); err != nil {
			return err
		}
	}

	res, err := x.client.Bulk(&buf,
		x.client.Bulk.WithContext(ctx),
		x.client.Bulk.WithIndex(x.index),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch: bulk index: %w", err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return fmt.Errorf("elasticsearch: bulk index: %w", err)
	}

	var r struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return fmt.Errorf("elasticsearch: decode bulk response: %w", err)
	}
	if !r.Errors {
		return nil
	}

	failed := 0
	var first string
	for _, item := range r.Items {
		for _, op := range item {
			if op.Status < http.StatusMultipleChoices {
				continue
			}
			if failed == 0 {
				first = fmt.Sprintf("item %s: %s: %s", op.ID, op.Error.Type, op.Error.Reason)
			}
			failed++
		}
	}
	return fmt.Errorf("elasticsearch: bulk index: %d of %d documents failed, first %s", failed, len(items), first)
}

// Count returns the number of documents in the index
func (x *ElasticItemIndex) Count(ctx context.Context) (int64, error) {
	res, err := x.client.Count(
		x.client.Count.WithContext(ctx),
		x.client.Count.WithIndex(x.index),
	)
	if err != nil {
		return 0, fmt.Errorf("elasticsearch: count: %w", err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return 0, fmt.Errorf("elasticsearch: count: %w", err)
	}

	var r struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, fmt.Errorf("elasticsearch: decode count response: %w", err)
	}
	return r.Count, nil
}

// Remove deletes the document for id. A missing document is not an error.
func (x *ElasticItemIndex) Remove(ctx context.Context, id int64) error {
	res, err := x.client.Delete(x.index, strconv.FormatInt(id, 10), x.client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: remove item %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if err := responseError(res); err != nil {
		return fmt.Errorf("elasticsearch: remove item %d: %w", id, err)
	}
	return nil
}

// Search matches names containing term case-insensitively, plus fuzzy
// matches on the analyzed name. Ids are ordered by name then id.
func (x *ElasticItemIndex) Search(ctx context.Context, term string) ([]int64, error) {
	var (
		ids   []int64
		after json.RawMessage
	)
	for {
		page, next, err := x.searchPage(ctx, term, after)
		if err != nil {
			return nil, err
		}
		ids = append(ids, page...)
		if len(page) < searchPageSize || next == nil {
			return ids, nil
		}
		after = next
	}
}

// searchPage fetches one page of ids after the given sort key and returns
// the sort key of its last hit
func (x *ElasticItemIndex) searchPage(ctx context.Context, term string, after json.RawMessage) ([]int64, json.RawMessage, error) {
	query := map[string]any{
		"size":    searchPageSize,
		"_source": []string{"id"},
		"query": map[string]any{
			"bool": map[string]any{
				"should": []any{
					map[string]any{
						"wildcard": map[string]any{
							"name.keyword": map[string]any{
								"value":            "*" + escapeWildcard(term) + "*",
								"case_insensitive": true,
							},
						},
					},
					map[string]any{
						"multi_match": map[string]any{
							"query":     term,
							"fields":    []string{"name"},
							"fuzziness": "AUTO",
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []any{
			map[string]any{"name.keyword": "asc"},
			map[string]any{"id": "asc"},
		},
	}
	if after != nil {
		query["search_after"] = after
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, nil, err
	}

	res, err := x.client.Search(
		x.client.Search.WithContext(ctx),
		x.client.Search.WithIndex(x.index),
		x.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("elasticsearch: search: %w", err)
	}
	defer res.Body.Close()
	if err := responseError(res); err != nil {
		return nil, nil, fmt.Errorf("elasticsearch: search: %w", err)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
				Sort json.RawMessage `json:"sort"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, nil, fmt.Errorf("elasticsearch: decode search response: %w", err)
	}

	hits := r.Hits.Hits
	ids := make([]int64, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.Source.ID)
	}
	var next json.RawMessage
	if len(hits) > 0 {
		next = hits[len(hits)-1].Sort
	}
	return ids, next, nil
}

func responseError(res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("%s: %s", res.Status(), strings.TrimSpace(string(body)))
}

var wildcardReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardReplacer.Replace(s)
}
