package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const provinceListPayload = `{"success":true,"data":{"items":[{"id":"p1","provinceCode":"01","provinceName":"Hà Nội","isActive":true}],"total":1,"limit":10,"offset":0}}`

func TestQueryCacheServesRepeatReads(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(provinceListPayload))
	}))
	defer server.Close()

	c := New(server.URL, WithQueryCache(time.Minute))
	defer c.Close()

	first, err := c.ListProvinces(context.Background(), ListFilter{})
	require.NoError(t, err)

	second, err := c.ListProvinces(context.Background(), ListFilter{})
	require.NoError(t, err)

	assert.EqualValues(t, 1, hits.Load(), "second read is served from cache")
	assert.Equal(t, first.Items, second.Items)
}

func TestQueryCacheKeysIncludeFilters(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(provinceListPayload))
	}))
	defer server.Close()

	c := New(server.URL, WithQueryCache(time.Minute))
	defer c.Close()

	_, err := c.ListProvinces(context.Background(), ListFilter{})
	require.NoError(t, err)
	_, err = c.ListProvinces(context.Background(), ListFilter{Search: "Hà"})
	require.NoError(t, err)

	assert.EqualValues(t, 2, hits.Load(), "different filters are different cache entries")
}

func TestMutationInvalidatesResourceCache(t *testing.T) {
	var listHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listHits.Add(1)
			_, _ = w.Write([]byte(provinceListPayload))
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":"p2","provinceCode":"79","provinceName":"TP.HCM","isActive":true}}`))
		}
	}))
	defer server.Close()

	c := New(server.URL, WithQueryCache(time.Minute))
	defer c.Close()

	_, err := c.ListProvinces(context.Background(), ListFilter{})
	require.NoError(t, err)

	_, err = c.CreateProvince(context.Background(), ProvinceInput{ProvinceCode: "79", ProvinceName: "TP.HCM"})
	require.NoError(t, err)

	_, err = c.ListProvinces(context.Background(), ListFilter{})
	require.NoError(t, err)

	assert.EqualValues(t, 2, listHits.Load(), "the create flushed the cached listing")
}

func TestMutationFlushesNestedListings(t *testing.T) {
	var nestedHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			nestedHits.Add(1)
			_, _ = w.Write([]byte(`{"success":true,"data":{"items":[],"total":0,"limit":10,"offset":0}}`))
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":"b1","branchCode":"CN01","branchName":"Chi nhánh 1","isActive":true}}`))
		}
	}))
	defer server.Close()

	c := New(server.URL, WithQueryCache(time.Minute))
	defer c.Close()

	_, err := c.ListProvinceBranches(context.Background(), "p1", ListFilter{})
	require.NoError(t, err)

	_, err = c.CreateBranch(context.Background(), BranchInput{BranchCode: "CN01", BranchName: "Chi nhánh 1", ProvinceID: "p1"})
	require.NoError(t, err)

	_, err = c.ListProvinceBranches(context.Background(), "p1", ListFilter{})
	require.NoError(t, err)

	assert.EqualValues(t, 2, nestedHits.Load(), "the branch create flushed the per-province listing")
}

func TestCacheEntriesExpire(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(provinceListPayload))
	}))
	defer server.Close()

	c := New(server.URL, WithQueryCache(30*time.Millisecond))
	defer c.Close()

	_, err := c.ListProvinces(context.Background(), ListFilter{})
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	_, err = c.ListProvinces(context.Background(), ListFilter{})
	require.NoError(t, err)

	assert.EqualValues(t, 2, hits.Load(), "entries die after the TTL")
}

func TestCacheHandsOutIndependentCopies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(provinceListPayload))
	}))
	defer server.Close()

	c := New(server.URL, WithQueryCache(time.Minute))
	defer c.Close()

	first, err := c.ListProvinces(context.Background(), ListFilter{})
	require.NoError(t, err)
	first.Items[0].ProvinceName = "mutated"

	second, err := c.ListProvinces(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Hà Nội", second.Items[0].ProvinceName, "cached reads are not aliased")
}
