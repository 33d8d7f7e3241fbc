package product

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smaug/internal/infrastructure/cache"
)

type mapCache struct {
	entries map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]string{}}
}

func (c *mapCache) Get(ctx context.Context, key string) (string, error) {
	val, ok := c.entries[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return val, nil
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.entries[key] = string(value.([]byte))
	return nil
}

func (c *mapCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func TestFindByID_CacheHitSkipsDatabase(t *testing.T) {
	mc := newMapCache()
	mc.entries["produto:1"] = `{"id":1,"nome":"Caneta Azul","descricao":"","codigoBarras":"789","preco":10.5,"fornecedorId":2}`

	// nil db: a cache hit must answer without touching the pool.
	repo := NewMySQLRepository(nil, mc, time.Minute, zap.NewNop())

	p, err := repo.FindByID(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Caneta Azul", p.Name)
	assert.Equal(t, "789", p.Barcode)
	assert.InDelta(t, 10.5, p.Price, 0.001)
	assert.Equal(t, int64(2), p.SupplierID)
}

func TestCachePayloadRoundTrip(t *testing.T) {
	original := cachedProduct{
		ID:          7,
		Name:        "Caderno",
		Description: "96 folhas",
		Barcode:     "123",
		Price:       15.90,
		SupplierID:  3,
	}

	assert.Equal(t, original, toCachedProduct(original.toDomain()))
}
