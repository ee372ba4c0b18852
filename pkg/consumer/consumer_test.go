package consumer_test

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/pactgo/pact/pkg/consumer"
	"github.com/pactgo/pact/pkg/pact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_ExecuteTest_WritesPactOnCleanRun(t *testing.T) {
	dir := t.TempDir()
	b := consumer.New("OrderService", "InventoryService", pact.V3).WithPactDir(dir)
	b.Given("product 42 exists").
		UponReceiving("a request for product 42").
		WithRequest(func(r *consumer.RequestBuilder) {
			r.Method("GET").Path("/products/42")
		}).
		WillRespondWith(func(r *consumer.ResponseBuilder) {
			r.Status(200).JSONBody(map[string]interface{}{
				"id":   consumer.Like(42),
				"name": consumer.Term(`\w+`, "Widget"),
			})
		})

	b.ExecuteTest(t, func(baseURL string) {
		resp, err := http.Get(baseURL + "/products/42")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, "Widget", out["name"])
	})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "orderservice-inventoryservice.json", entries[0].Name())
}

func TestBuilder_ExecuteTest_EachLikeArrayResponse(t *testing.T) {
	dir := t.TempDir()
	b := consumer.New("ReportService", "CatalogService", pact.V3).WithPactDir(dir)
	b.UponReceiving("a request for all products").
		WithRequest(func(r *consumer.RequestBuilder) {
			r.Method("GET").Path("/products").Query("page", "1")
		}).
		WillRespondWith(func(r *consumer.ResponseBuilder) {
			r.Status(200).JSONBody(map[string]interface{}{
				"items": consumer.EachLike(map[string]interface{}{
					"id": consumer.Like(1),
				}, 2),
			})
		})

	b.ExecuteTest(t, func(baseURL string) {
		resp, err := http.Get(baseURL + "/products?page=1")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &out))
		items, ok := out["items"].([]interface{})
		require.True(t, ok)
		assert.Len(t, items, 2)
	})
}

func TestBuilder_ExecuteTest_UnmatchedRequestFailsTest(t *testing.T) {
	dir := t.TempDir()
	b := consumer.New("OrderService", "InventoryService", pact.V3).WithPactDir(dir)
	b.UponReceiving("a request for product 7").
		WithRequest(func(r *consumer.RequestBuilder) {
			r.Method("GET").Path("/products/7")
		}).
		WillRespondWith(func(r *consumer.ResponseBuilder) {
			r.Status(200)
		})

	passed := t.Run("unmatched", func(st *testing.T) {
		b.ExecuteTest(st, func(baseURL string) {
			resp, err := http.Get(baseURL + "/products/999")
			require.NoError(st, err)
			defer resp.Body.Close()
			assert.Equal(st, http.StatusInternalServerError, resp.StatusCode)
		})
	})

	assert.False(t, passed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
