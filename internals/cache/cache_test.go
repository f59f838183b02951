package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := New(client)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, mr
}

func TestListKeySortsParams(t *testing.T) {
	a := ListKey("students", 7, map[string]string{"limit": "25", "after_id": "0", "status": "active"})
	b := ListKey("students", 7, map[string]string{"status": "active", "after_id": "0", "limit": "25"})

	assert.Equal(t, a, b)
	assert.Equal(t, "students:s:7:after_id=0&limit=25&status=active", a)
}

func TestListKeySeparatesTenants(t *testing.T) {
	params := map[string]string{"limit": "25"}
	assert.NotEqual(t, ListKey("students", 1, params), ListKey("students", 2, params))
	assert.NotEqual(t, ListKey("students", 1, params), ListKey("teachers", 1, params))
}

func TestSetAndGetPage(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	key := ListKey("students", 1, map[string]string{"limit": "25"})
	payload := map[string]any{"success": true, "students": []int{1, 2, 3}}

	svc.SetPage(ctx, key, payload)

	data, ok := svc.GetPage(ctx, key)
	require.True(t, ok)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["success"])

	// Entries expire on their own even without eager invalidation.
	mr.FastForward(ListTTL * 2)
	_, ok = svc.GetPage(ctx, key)
	assert.False(t, ok)
}

func TestGetPageMiss(t *testing.T) {
	svc, _ := newTestService(t)
	_, ok := svc.GetPage(context.Background(), "students:s:1:limit=25")
	assert.False(t, ok)
}

func TestInvalidateDropsOnlyTheTenantCollection(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.SetPage(ctx, ListKey("students", 1, map[string]string{"limit": "25"}), "a")
	svc.SetPage(ctx, ListKey("students", 1, map[string]string{"limit": "50"}), "b")
	svc.SetPage(ctx, ListKey("students", 2, map[string]string{"limit": "25"}), "c")
	svc.SetPage(ctx, ListKey("teachers", 1, map[string]string{"limit": "25"}), "d")

	svc.Invalidate(ctx, "students", 1)

	_, ok := svc.GetPage(ctx, ListKey("students", 1, map[string]string{"limit": "25"}))
	assert.False(t, ok)
	_, ok = svc.GetPage(ctx, ListKey("students", 1, map[string]string{"limit": "50"}))
	assert.False(t, ok)

	// Other tenants and collections stay.
	_, ok = svc.GetPage(ctx, ListKey("students", 2, map[string]string{"limit": "25"}))
	assert.True(t, ok)
	_, ok = svc.GetPage(ctx, ListKey("teachers", 1, map[string]string{"limit": "25"}))
	assert.True(t, ok)
}

// A nil service is the no-cache configuration: every call is a harmless no-op.
func TestNilServiceIsNoop(t *testing.T) {
	var svc *Service
	ctx := context.Background()

	svc.SetPage(ctx, "k", "v")
	_, ok := svc.GetPage(ctx, "k")
	assert.False(t, ok)
	svc.Invalidate(ctx, "students", 1)
	assert.NoError(t, svc.Close())
}

// Cache failures degrade to misses; they never reach the caller.
func TestServerDownIsSwallowed(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	key := ListKey("students", 1, map[string]string{"limit": "25"})
	svc.SetPage(ctx, key, "v")

	mr.Close()

	_, ok := svc.GetPage(ctx, key)
	assert.False(t, ok)
	svc.SetPage(ctx, key, "v2")
	svc.Invalidate(ctx, "students", 1)
}

func TestNewFromEnvUnreachable(t *testing.T) {
	assert.Nil(t, NewFromEnv("", ""))
	assert.Nil(t, NewFromEnv("127.0.0.1:1", ""))
}
