package server

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestCacheKeyCanonical(t *testing.T) {
	a := httptest.NewRequest("GET", "/api/kpi?lines=1&start=2024-01-01", nil)
	b := httptest.NewRequest("GET", "/api/kpi?start=2024-01-01&lines=1", nil)
	if cacheKey(a) != cacheKey(b) {
		t.Errorf("parameter order fragments the cache: %q vs %q", cacheKey(a), cacheKey(b))
	}
	c := httptest.NewRequest("GET", "/api/heatmap?start=2024-01-01&lines=1", nil)
	if cacheKey(a) == cacheKey(c) {
		t.Error("different paths must not share a key")
	}
}

func TestResponseCacheExpiry(t *testing.T) {
	c := newResponseCache(10 * time.Millisecond)
	c.put("k", []byte("v"))
	if buf, ok := c.get("k"); !ok || string(buf) != "v" {
		t.Fatalf("fresh entry missing: %q %v", buf, ok)
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.get("k"); ok {
		t.Error("expired entry still served")
	}
	if _, ok := c.get("unknown"); ok {
		t.Error("unknown key must miss")
	}
}
