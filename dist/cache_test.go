package dist

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCachePutGet(t *testing.T) {
	c := openTestCache(t)
	a := NewArtifact(1, "Token", buildUnit(t))
	if err := c.Put(a); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := c.Get(a.ContentHash())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Token" || !bytes.Equal(got.Bytecode, a.Bytecode) {
		t.Errorf("cached artifact differs: %+v", got)
	}
}

func TestCacheMiss(t *testing.T) {
	c := openTestCache(t)
	_, err := c.Get([32]byte{1, 2, 3})
	if !errors.Is(err, ErrArtifactNotFound) {
		t.Errorf("err = %v, want ErrArtifactNotFound", err)
	}
}

func TestCachePutIsIdempotent(t *testing.T) {
	c := openTestCache(t)
	a := NewArtifact(1, "Token", buildUnit(t))
	if err := c.Put(a); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put(a); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	store, err := c.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("store holds %d artifacts, want 1", store.Len())
	}
}

func TestCacheLoadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := OpenCache(path)
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	a1 := NewArtifact(1, "Token", buildUnit(t))
	a2 := NewArtifact(2, "Wallet", append(buildUnit(t), 0x00))
	if err := c.Put(a1); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(a2); err != nil {
		t.Fatal(err)
	}
	c.Close()

	// A fresh process sees the cached artifacts.
	c, err = OpenCache(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()

	store, err := c.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("store holds %d artifacts, want 2", store.Len())
	}
	snapshot := store.Snapshot()
	if !bytes.Equal(snapshot[1], a1.Bytecode) || !bytes.Equal(snapshot[2], a2.Bytecode) {
		t.Error("snapshot bytecode differs from cached artifacts")
	}
}
