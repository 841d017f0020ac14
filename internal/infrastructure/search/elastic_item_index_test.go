package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/nantech/inventory/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

// fakeCluster answers like an Elasticsearch node. Handlers are keyed by "METHOD /path".
type fakeCluster struct {
	mu       sync.Mutex
	requests []recordedRequest
	handlers map[string]func(w http.ResponseWriter)
}

func newFakeCluster(t *testing.T) (*fakeCluster, *ElasticItemIndex) {
	t.Helper()
	fc := &fakeCluster{handlers: map[string]func(w http.ResponseWriter){}}
	server := httptest.NewServer(http.HandlerFunc(fc.serve))
	t.Cleanup(server.Close)

	index, err := NewElasticItemIndex(Config{Addresses: []string{server.URL}, Index: "items"}, zap.NewNop())
	require.NoError(t, err)
	return fc, index
}

func (fc *fakeCluster) on(route string, status int, body string) {
	fc.handlers[route] = func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// onPages answers successive requests to route with bodies in order,
// repeating the last one
func (fc *fakeCluster) onPages(route string, bodies ...string) {
	served := 0
	fc.handlers[route] = func(w http.ResponseWriter) {
		body := bodies[min(served, len(bodies)-1)]
		served++
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func (fc *fakeCluster) requestsTo(route string) []recordedRequest {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	var out []recordedRequest
	for _, r := range fc.requests {
		if r.Method+" "+r.Path == route {
			out = append(out, r)
		}
	}
	return out
}

func (fc *fakeCluster) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	body, _ := io.ReadAll(r.Body)
	route := r.Method + " " + r.URL.Path

	if route == "GET /" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0","build_flavor":"default"},"tagline":"You Know, for Search"}`)
		return
	}

	fc.mu.Lock()
	fc.requests = append(fc.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	handler, ok := fc.handlers[route]
	fc.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotImplemented)
		return
	}
	handler(w)
}

func (fc *fakeCluster) last() recordedRequest {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.requests[len(fc.requests)-1]
}

func TestElasticItemIndex_Index(t *testing.T) {
	fc, index := newFakeCluster(t)
	fc.on("PUT /items/_doc/9", http.StatusCreated, `{"result":"created"}`)

	supplier := "Acme"
	err := index.Index(context.Background(), catalog.ItemView{
		Item:         catalog.Item{ID: 9, Name: "Bolt", CategoryID: 1, Stock: 4},
		CategoryName: "Hardware",
		SupplierName: &supplier,
	})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(fc.last().Body), &doc))
	assert.Equal(t, "Bolt", doc["name"])
	assert.Equal(t, "Hardware", doc["category_name"])
	assert.Equal(t, "Acme", doc["supplier_name"])
	assert.NotContains(t, doc, "supplier_id")
}

func TestElasticItemIndex_IndexError(t *testing.T) {
	fc, index := newFakeCluster(t)
	fc.on("PUT /items/_doc/9", http.StatusBadRequest, `{"error":"mapper_parsing_exception"}`)

	err := index.Index(context.Background(), catalog.ItemView{Item: catalog.Item{ID: 9, Name: "Bolt"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
}

func TestElasticItemIndex_Remove(t *testing.T) {
	fc, index := newFakeCluster(t)
	fc.on("DELETE /items/_doc/9", http.StatusOK, `{"result":"deleted"}`)
	fc.on("DELETE /items/_doc/10", http.StatusNotFound, `{"result":"not_found"}`)
	fc.on("DELETE /items/_doc/11", http.StatusInternalServerError, `{"error":"boom"}`)

	assert.NoError(t, index.Remove(context.Background(), 9))
	assert.NoError(t, index.Remove(context.Background(), 10))
	assert.Error(t, index.Remove(context.Background(), 11))
}

func TestElasticItemIndex_Search(t *testing.T) {
	fc, index := newFakeCluster(t)
	fc.on("POST /items/_search", http.StatusOK, `{
		"hits": {"hits": [
			{"_source": {"id": 2}, "sort": ["Cable", 2]},
			{"_source": {"id": 5}, "sort": ["Cable tie", 5]}
		]}
	}`)

	ids, err := index.Search(context.Background(), "cab*")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5}, ids)

	body := fc.last().Body
	assert.Contains(t, body, `"*cab\\**"`)
	assert.Contains(t, body, `"case_insensitive":true`)
	assert.Contains(t, body, `"fuzziness":"AUTO"`)
	assert.Contains(t, body, `"_source":["id"]`)
	assert.NotContains(t, body, "search_after")
}

// searchPage renders a search response holding ids first..first+n-1
func searchPage(first, n int) string {
	var b strings.Builder
	b.WriteString(`{"hits":{"hits":[`)
	for i := range n {
		if i > 0 {
			b.WriteString(",")
		}
		id := first + i
		fmt.Fprintf(&b, `{"_source":{"id":%d},"sort":["item-%06d",%d]}`, id, id, id)
	}
	b.WriteString(`]}}`)
	return b.String()
}

func TestElasticItemIndex_SearchPagesPastOneRequest(t *testing.T) {
	fc, index := newFakeCluster(t)
	fc.onPages("POST /items/_search",
		searchPage(1, searchPageSize),
		searchPage(1+searchPageSize, 3),
	)

	ids, err := index.Search(context.Background(), "item")
	require.NoError(t, err)
	require.Len(t, ids, searchPageSize+3)
	assert.Equal(t, int64(1), ids[0])
	assert.Equal(t, int64(searchPageSize+3), ids[len(ids)-1])

	requests := fc.requestsTo("POST /items/_search")
	require.Len(t, requests, 2)
	assert.NotContains(t, requests[0].Body, "search_after")
	assert.Contains(t, requests[1].Body, fmt.Sprintf(`"search_after":["item-%06d",%d]`, searchPageSize, searchPageSize))
}

func TestElasticItemIndex_Count(t *testing.T) {
	fc, index := newFakeCluster(t)
	fc.on("POST /items/_count", http.StatusOK, `{"count": 42}`)

	n, err := index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	fc.on("POST /items/_count", http.StatusNotFound, `{"error":"index_not_found_exception"}`)
	_, err = index.Count(context.Background())
	assert.ErrorContains(t, err, "index_not_found_exception")
}

func TestElasticItemIndex_IndexAll(t *testing.T) {
	views := []catalog.ItemView{
		{Item: catalog.Item{ID: 1, Name: "Bolt", CategoryID: 1}, CategoryName: "Hardware"},
		{Item: catalog.Item{ID: 2, Name: "Nut", CategoryID: 1}, CategoryName: "Hardware"},
	}

	t.Run("writes action and source lines", func(t *testing.T) {
		fc, index := newFakeCluster(t)
		fc.on("POST /items/_bulk", http.StatusOK, `{"errors":false,"items":[]}`)

		require.NoError(t, index.IndexAll(context.Background(), views))

		lines := strings.Split(strings.TrimSpace(fc.last().Body), "\n")
		require.Len(t, lines, 4)
		assert.JSONEq(t, `{"index":{"_id":"1"}}`, lines[0])
		assert.Contains(t, lines[1], `"name":"Bolt"`)
		assert.JSONEq(t, `{"index":{"_id":"2"}}`, lines[2])
	})

	t.Run("batches large loads", func(t *testing.T) {
		fc, index := newFakeCluster(t)
		fc.on("POST /items/_bulk", http.StatusOK, `{"errors":false,"items":[]}`)
		many := make([]catalog.ItemView, bulkBatchSize+1)
		for i := range many {
			many[i] = catalog.ItemView{Item: catalog.Item{ID: int64(i + 1), Name: "x"}}
		}

		require.NoError(t, index.IndexAll(context.Background(), many))
		assert.Len(t, fc.requestsTo("POST /items/_bulk"), 2)
	})

	t.Run("reports rejected documents", func(t *testing.T) {
		fc, index := newFakeCluster(t)
		fc.on("POST /items/_bulk", http.StatusOK, `{"errors":true,"items":[
			{"index":{"_id":"1","status":201}},
			{"index":{"_id":"2","status":400,"error":{"type":"mapper_parsing_exception","reason":"bad stock"}}}
		]}`)

		err := index.IndexAll(context.Background(), views)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 documents failed")
		assert.Contains(t, err.Error(), "item 2: mapper_parsing_exception: bad stock")
	})
}

func TestElasticItemIndex_EnsureIndex(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		fc, index := newFakeCluster(t)
		fc.on("HEAD /items", http.StatusOK, "")

		require.NoError(t, index.EnsureIndex(context.Background()))
		assert.Equal(t, http.MethodHead, fc.last().Method)
	})

	t.Run("created", func(t *testing.T) {
		fc, index := newFakeCluster(t)
		fc.on("HEAD /items", http.StatusNotFound, "")
		fc.on("PUT /items", http.StatusOK, `{"acknowledged":true}`)

		require.NoError(t, index.EnsureIndex(context.Background()))
		last := fc.last()
		assert.Equal(t, http.MethodPut, last.Method)
		assert.Contains(t, last.Body, `"ignore_above"`)
	})
}

func TestEscapeWildcard(t *testing.T) {
	assert.Equal(t, `a\*b\?c\\`, escapeWildcard(`a*b?c\`))
}
