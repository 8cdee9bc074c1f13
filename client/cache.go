package client

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultQueryTTL matches the staleness window the console used for
// reference data
const DefaultQueryTTL = 60 * time.Second

// queryCache memoizes GET responses for a short window. Entries are the
// marshalled payloads, so cached reads hand out independent copies.
type queryCache struct {
	entries *ttlcache.Cache[string, []byte]
}

func newQueryCache(ttl time.Duration) *queryCache {
	if ttl <= 0 {
		ttl = DefaultQueryTTL
	}

	entries := ttlcache.New[string, []byte](
		ttlcache.WithTTL[string, []byte](ttl),
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go entries.Start()

	return &queryCache{entries: entries}
}

func cacheKey(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// get loads a cached payload into out, reporting whether it was present
func (q *queryCache) get(key string, out interface{}) bool {
	item := q.entries.Get(key)
	if item == nil {
		return false
	}
	return json.Unmarshal(item.Value(), out) == nil
}

// put stores a payload under the key
func (q *queryCache) put(key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	q.entries.Set(key, raw, ttlcache.DefaultTTL)
}

// invalidateResource drops every entry touching the resource path:
// its own listings and detail reads, plus nested listings keyed under
// a parent (such as /provinces/{id}/branches after a branch mutation).
// Mutations call this so the next read hits the server.
func (q *queryCache) invalidateResource(base string) {
	var stale []string
	q.entries.Range(func(item *ttlcache.Item[string, []byte]) bool {
		if strings.Contains(item.Key(), base) {
			stale = append(stale, item.Key())
		}
		return true
	})
	for _, key := range stale {
		q.entries.Delete(key)
	}
}

// stop shuts down the expiry loop
func (q *queryCache) stop() {
	q.entries.Stop()
}
