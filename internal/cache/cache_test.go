package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestDocumentsGetSet(t *testing.T) {
	c := New(time.Minute)

	if _, ok := c.Get("home:1"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("home:1", "<html>1</html>")
	got, ok := c.Get("home:1")
	if !ok {
		t.Fatal("expected hit")
	}
	if got != "<html>1</html>" {
		t.Errorf("Get() = %q", got)
	}

	c.Set("home:1", "<html>2</html>")
	if got, _ := c.Get("home:1"); got != "<html>2</html>" {
		t.Errorf("Set() did not overwrite, got %q", got)
	}
}

func TestDocumentsExpire(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(time.Second)
	c.now = func() time.Time { return now }

	c.Set("k", "doc")
	now = now.Add(500 * time.Millisecond)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired too early")
	}

	now = now.Add(time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry should have expired")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not evicted, Len() = %d", c.Len())
	}
}

func TestDocumentsClear(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear", c.Len())
	}
}

func TestDocumentsConcurrent(t *testing.T) {
	c := New(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("page:%d", i%4)
			c.Set(key, key)
			if got, ok := c.Get(key); ok && got != key {
				t.Errorf("Get(%q) = %q", key, got)
			}
		}(i)
	}
	wg.Wait()
	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
}
