package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "pypi:requests")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expected miss before Set")
	}

	if err := c.Set(ctx, "pypi:requests", []byte(`{"version":"2.31.0"}`), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "pypi:requests")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if string(data) != `{"version":"2.31.0"}` {
		t.Errorf("data = %s", data)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	// Zero TTL entries never expire.
	if err := c.Set(ctx, "forever", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero-TTL entry should not expire")
	}

	if err := c.Set(ctx, "expired", []byte("value"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	_, hit, _ := c.Get(ctx, "expired")
	if hit {
		t.Error("expired entry should be a miss")
	}
}

func TestFileCacheDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "key", []byte("value"), 0)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("deleted entry should be a miss")
	}

	// Deleting a missing key is not an error.
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("non-retryable fails immediately", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return errors.New("permanent")
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("retryable succeeds on second attempt", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls == 1 {
				return Retryable(errors.New("transient"))
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 2 {
			t.Errorf("calls = %d, want 2", calls)
		}
	})
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error should not be retryable")
	}
	if !IsRetryable(Retryable(errors.New("transient"))) {
		t.Error("wrapped error should be retryable")
	}
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}
