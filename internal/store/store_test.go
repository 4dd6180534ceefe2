package store

import (
	"sort"
	"testing"
)

// implementations under test; SQLite runs against :memory:
func openStores(t *testing.T) map[string]KV {
	t.Helper()

	sqlite, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]KV{
		"Memory": NewMemory(),
		"SQLite": sqlite,
	}
}

func TestKV(t *testing.T) {
	for name, kv := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("Get Missing Key", func(t *testing.T) {
				_, ok, err := kv.Get("b", "missing")
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if ok {
					t.Error("expected missing key")
				}
			})

			t.Run("Put And Get", func(t *testing.T) {
				if err := kv.Put("b", "k1", []byte("v1")); err != nil {
					t.Fatalf("put failed: %v", err)
				}

				value, ok, err := kv.Get("b", "k1")
				if err != nil {
					t.Fatalf("get failed: %v", err)
				}
				if !ok {
					t.Fatal("expected key to exist")
				}
				if string(value) != "v1" {
					t.Errorf("expected v1, got %s", value)
				}
			})

			t.Run("Put Overwrites", func(t *testing.T) {
				kv.Put("b", "k1", []byte("v1"))
				kv.Put("b", "k1", []byte("v2"))

				value, _, _ := kv.Get("b", "k1")
				if string(value) != "v2" {
					t.Errorf("expected v2, got %s", value)
				}
			})

			t.Run("Buckets Are Isolated", func(t *testing.T) {
				kv.Put("one", "shared", []byte("a"))
				kv.Put("two", "shared", []byte("b"))

				value, _, _ := kv.Get("one", "shared")
				if string(value) != "a" {
					t.Errorf("expected a, got %s", value)
				}
			})

			t.Run("Delete", func(t *testing.T) {
				kv.Put("b", "gone", []byte("x"))
				if err := kv.Delete("b", "gone"); err != nil {
					t.Fatalf("delete failed: %v", err)
				}

				_, ok, _ := kv.Get("b", "gone")
				if ok {
					t.Error("expected key to be deleted")
				}

				if err := kv.Delete("b", "never-existed"); err != nil {
					t.Errorf("deleting missing key should not error, got %v", err)
				}
			})

			t.Run("DeletePrefix", func(t *testing.T) {
				kv.Put("p", "search:a", []byte("1"))
				kv.Put("p", "search:b", []byte("2"))
				kv.Put("p", "browse:a", []byte("3"))

				if err := kv.DeletePrefix("p", "search:"); err != nil {
					t.Fatalf("delete prefix failed: %v", err)
				}

				if _, ok, _ := kv.Get("p", "search:a"); ok {
					t.Error("expected search:a removed")
				}
				if _, ok, _ := kv.Get("p", "browse:a"); !ok {
					t.Error("expected browse:a retained")
				}
			})

			t.Run("Keys", func(t *testing.T) {
				kv.Clear("keys")
				kv.Put("keys", "x:1", []byte("1"))
				kv.Put("keys", "x:2", []byte("2"))
				kv.Put("keys", "y:1", []byte("3"))

				keys, err := kv.Keys("keys", "x:")
				if err != nil {
					t.Fatalf("keys failed: %v", err)
				}
				sort.Strings(keys)
				if len(keys) != 2 || keys[0] != "x:1" || keys[1] != "x:2" {
					t.Errorf("unexpected keys: %v", keys)
				}
			})

			t.Run("Clear", func(t *testing.T) {
				kv.Put("c", "k", []byte("v"))
				if err := kv.Clear("c"); err != nil {
					t.Fatalf("clear failed: %v", err)
				}

				if _, ok, _ := kv.Get("c", "k"); ok {
					t.Error("expected bucket cleared")
				}
			})

			t.Run("Prefix With Wildcard Characters", func(t *testing.T) {
				kv.Put("w", "a%b:1", []byte("1"))
				kv.Put("w", "axb:1", []byte("2"))

				if err := kv.DeletePrefix("w", "a%b:"); err != nil {
					t.Fatalf("delete prefix failed: %v", err)
				}

				if _, ok, _ := kv.Get("w", "a%b:1"); ok {
					t.Error("expected literal-prefix key removed")
				}
				if _, ok, _ := kv.Get("w", "axb:1"); !ok {
					t.Error("expected non-matching key retained")
				}
			})
		})
	}
}
