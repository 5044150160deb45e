package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matheusmosca/go-commerce/internal/entity"
)

const (
	productKeyPrefix = "product:"
	productListKey   = "products:all"
)

// ProductCache is a best-effort read cache for catalog lookups. Misses and
// cache errors fall through to the database; writers must Invalidate the
// touched ids.
type ProductCache interface {
	GetProduct(ctx context.Context, id string) (*entity.Product, bool)
	SetProduct(ctx context.Context, product *entity.Product)
	GetList(ctx context.Context) ([]entity.Product, bool)
	SetList(ctx context.Context, products []entity.Product)
	Invalidate(ctx context.Context, ids ...string)
}

// RedisProductCache implements ProductCache using Redis.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache creates a new RedisProductCache.
func NewProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: ttl}
}

func (c *RedisProductCache) GetProduct(ctx context.Context, id string) (*entity.Product, bool) {
	raw, err := c.client.Get(ctx, productKeyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("product cache get %s: %v", id, err)
		}
		return nil, false
	}

	var p entity.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Printf("product cache decode %s: %v", id, err)
		return nil, false
	}
	return &p, true
}

func (c *RedisProductCache) SetProduct(ctx context.Context, product *entity.Product) {
	raw, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productKeyPrefix+product.ID, raw, c.ttl).Err(); err != nil {
		log.Printf("product cache set %s: %v", product.ID, err)
	}
}

func (c *RedisProductCache) GetList(ctx context.Context) ([]entity.Product, bool) {
	raw, err := c.client.Get(ctx, productListKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("product cache get list: %v", err)
		}
		return nil, false
	}

	var products []entity.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		log.Printf("product cache decode list: %v", err)
		return nil, false
	}
	return products, true
}

func (c *RedisProductCache) SetList(ctx context.Context, products []entity.Product) {
	raw, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productListKey, raw, c.ttl).Err(); err != nil {
		log.Printf("product cache set list: %v", err)
	}
}

// Invalidate drops the list key and the given product keys.
func (c *RedisProductCache) Invalidate(ctx context.Context, ids ...string) {
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, productListKey)
	for _, id := range ids {
		keys = append(keys, productKeyPrefix+id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("product cache invalidate: %v", err)
	}
}
