package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheHelper(client, "test:"), mr
}

type testPayload struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestCacheHelper_SetGet(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	want := testPayload{ID: 7, Name: "algorithms"}
	if err := helper.Set(ctx, "course:7", want, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got testPayload
	if err := helper.Get(ctx, "course:7", &got); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestCacheHelper_GetMissing(t *testing.T) {
	helper, _ := newTestHelper(t)

	var got testPayload
	err := helper.Get(context.Background(), "absent", &got)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("Get() error = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "")
	ctx := context.Background()

	if err := helper.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("Set() with nil client error = %v, want nil", err)
	}

	var got string
	if err := helper.Get(ctx, "k", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get() with nil client error = %v, want ErrCacheNotAvailable", err)
	}
	if err := helper.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() with nil client error = %v, want nil", err)
	}
}

func TestCacheHelper_Delete(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if err := helper.SetString(ctx, key, "v", time.Minute); err != nil {
			t.Fatalf("SetString() error = %v", err)
		}
	}

	if err := helper.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if exists, _ := helper.Exists(ctx, "a"); exists {
		t.Error("key a still exists after delete")
	}
	if exists, _ := helper.Exists(ctx, "c"); !exists {
		t.Error("key c was deleted but should remain")
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	helper.SetString(ctx, "teacher:t1:page1", "v", time.Minute)
	helper.SetString(ctx, "teacher:t1:page2", "v", time.Minute)
	helper.SetString(ctx, "teacher:t2:page1", "v", time.Minute)

	if err := helper.InvalidatePattern(ctx, "teacher:t1:*"); err != nil {
		t.Fatalf("InvalidatePattern() error = %v", err)
	}

	if exists, _ := helper.Exists(ctx, "teacher:t1:page1"); exists {
		t.Error("t1 entries should be invalidated")
	}
	if exists, _ := helper.Exists(ctx, "teacher:t2:page1"); !exists {
		t.Error("t2 entries should survive")
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return testPayload{ID: 1, Name: "fetched"}, nil
	}

	var got testPayload
	if err := helper.CacheOrExecute(ctx, "k", &got, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("fetch calls = %d, want 1", calls)
	}
	if got.Name != "fetched" {
		t.Errorf("got.Name = %s, want fetched", got.Name)
	}

	// the async cache fill races the second read; write the entry directly
	// so the cache-hit path is deterministic
	if err := helper.Set(ctx, "k", got, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var second testPayload
	if err := helper.CacheOrExecute(ctx, "k", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute() second call error = %v", err)
	}
	if calls != 1 {
		t.Errorf("fetch calls after cache hit = %d, want 1", calls)
	}
}

func TestCacheManager_HealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cm := NewCacheManager(client)
	if err := cm.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	nilCM := NewCacheManager(nil)
	if err := nilCM.HealthCheck(context.Background()); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("HealthCheck() with nil client error = %v, want ErrCacheNotAvailable", err)
	}
}
