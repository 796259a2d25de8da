package server

import (
	"bytes"
	"net/http"
	"sync"
	"time"
)

// responseCache memoizes rendered view payloads per canonical request key.
// Entries expire after the TTL so fresh rows reach clients without a restart.
type responseCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	buf     []byte
	expires time.Time
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{ttl: ttl, entries: map[string]cacheEntry{}}
}

// cacheKey canonicalizes the request: url.Values.Encode sorts by key, so
// parameter order does not fragment the cache.
func cacheKey(r *http.Request) string {
	return r.URL.Path + "?" + r.URL.Query().Encode()
}

func (c *responseCache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expires) {
		return nil, false
	}
	return e.buf, true
}

func (c *responseCache) put(key string, buf []byte) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{buf: buf, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// captureWriter tees the response body so successful payloads can be cached.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *captureWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// cachedView wraps view with the response cache. Only used for pure reads;
// views with publish side effects stay uncached.
func (s *Server) cachedView(name string, h func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	inner := s.view(name, h)
	return func(w http.ResponseWriter, r *http.Request) {
		key := cacheKey(r)
		if buf, ok := s.cache.get(key); ok {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(buf)
			return
		}
		rec := &captureWriter{ResponseWriter: w, status: http.StatusOK}
		inner(rec, r)
		if rec.status == http.StatusOK {
			s.cache.put(key, rec.buf.Bytes())
		}
	}
}
