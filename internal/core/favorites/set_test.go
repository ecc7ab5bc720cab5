package favorites_test

import (
	"context"
	"sync"
	"testing"

	"korx-catalog/internal/contextkeys"
	"korx-catalog/internal/core/favorites"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_ToggleIsItsOwnInverse(t *testing.T) {
	kv := newFakeKVStore()
	set := favorites.NewSet(kv, contextkeys.NoopLogger())
	defer set.Close()

	set.Toggle(3)
	set.Toggle(8)
	before := set.IDs()

	for _, id := range []int64{3, 5, 8, 0, -1} {
		set.Toggle(id)
		set.Toggle(id)
		assert.Equal(t, before, set.IDs(), "id %d", id)
	}
}

func TestSet_TogglePersistsLatestSnapshot(t *testing.T) {
	kv := newFakeKVStore()
	set := favorites.NewSet(kv, contextkeys.NoopLogger())

	assert.True(t, set.Toggle(10))
	assert.True(t, set.Toggle(2))
	assert.False(t, set.Toggle(10))
	assert.True(t, set.Contains(2))
	assert.False(t, set.Contains(10))

	set.Close()

	stored, ok := kv.value(favorites.StorageKey)
	require.True(t, ok)
	assert.JSONEq(t, `[2]`, stored)
}

func TestSet_LoadRestoresStoredIDs(t *testing.T) {
	kv := newFakeKVStore()
	require.NoError(t, kv.Set(context.Background(), favorites.StorageKey, `[5, 1, 5]`, 0))

	set := favorites.NewSet(kv, contextkeys.NoopLogger())
	defer set.Close()

	require.NoError(t, set.Load(context.Background()))
	assert.Equal(t, []int64{1, 5}, set.IDs())
}

func TestSet_LoadToleratesMissingAndGarbage(t *testing.T) {
	kv := newFakeKVStore()
	set := favorites.NewSet(kv, contextkeys.NoopLogger())
	defer set.Close()

	require.NoError(t, set.Load(context.Background()))
	assert.Empty(t, set.IDs())

	require.NoError(t, kv.Set(context.Background(), favorites.StorageKey, `{"oops":1}`, 0))
	require.NoError(t, set.Load(context.Background()))
	assert.Empty(t, set.IDs())
}

func TestSet_PersistFailureDoesNotRollBack(t *testing.T) {
	kv := newFakeKVStore()
	kv.failSet = true
	set := favorites.NewSet(kv, contextkeys.NoopLogger())

	set.Toggle(42)
	set.Close()

	assert.True(t, set.Contains(42))
	_, ok := kv.value(favorites.StorageKey)
	assert.False(t, ok)
}

func TestSet_SubscribeAndUnsubscribe(t *testing.T) {
	set := favorites.NewSet(newFakeKVStore(), contextkeys.NoopLogger())
	defer set.Close()

	var mu sync.Mutex
	var got [][]int64
	unsubscribe := set.Subscribe(func(ids []int64) {
		mu.Lock()
		got = append(got, ids)
		mu.Unlock()
	})

	set.Toggle(1)
	set.Toggle(2)
	unsubscribe()
	unsubscribe()
	set.Toggle(3)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, [][]int64{{1}, {1, 2}}, got)
}

func TestSet_ConcurrentToggles(t *testing.T) {
	kv := newFakeKVStore()
	set := favorites.NewSet(kv, contextkeys.NoopLogger())

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			set.Toggle(id)
		}(i)
	}
	wg.Wait()
	set.Close()

	assert.Len(t, set.IDs(), 50)
	stored, ok := kv.value(favorites.StorageKey)
	require.True(t, ok)
	assert.Contains(t, stored, "49")
}

func TestSet_SubscriberSeesFinalStateLast(t *testing.T) {
	tests := []struct {
		name       string
		goroutines int
		togglesPer int
	}{
		{"few writers", 4, 50},
		{"many writers", 32, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := favorites.NewSet(newFakeKVStore(), contextkeys.NoopLogger())
			defer set.Close()

			var mu sync.Mutex
			var last []int64
			calls := 0
			set.Subscribe(func(ids []int64) {
				mu.Lock()
				last = ids
				calls++
				mu.Unlock()
			})

			var wg sync.WaitGroup
			for g := 0; g < tt.goroutines; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < tt.togglesPer; i++ {
						// пересекающиеся id, чтобы toggle гонялись за одни ключи
						set.Toggle(int64((g + i) % 7))
					}
				}(g)
			}
			wg.Wait()

			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, tt.goroutines*tt.togglesPer, calls)
			assert.Equal(t, set.IDs(), append([]int64{}, last...))
		})
	}
}
