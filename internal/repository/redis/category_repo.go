package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	SubCntTTL       = 24 * time.Hour
	SubCntKeyPrefix = "sub:cnt:category" // 缓存某个分类的订阅者数量
)

// SubscriberCountCache 分类订阅者计数缓存
// 写路径只做失效，读侧未命中回源 MySQL 再回填
type SubscriberCountCache struct {
	ttl time.Duration
}

func NewSubscriberCountCache() *SubscriberCountCache {
	return &SubscriberCountCache{ttl: SubCntTTL}
}

func (r *SubscriberCountCache) key(categoryID uint64) string {
	return fmt.Sprintf("%s:%d", SubCntKeyPrefix, categoryID)
}

// GetCached ok=false 表示缓存未命中
func (r *SubscriberCountCache) GetCached(ctx context.Context, categoryID uint64) (int64, bool, error) {
	val, err := Client.Get(ctx, r.key(categoryID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	return val, true, err
}

// SetCount 回填计数
func (r *SubscriberCountCache) SetCount(ctx context.Context, categoryID uint64, cnt int64) error {
	return Client.Set(ctx, r.key(categoryID), cnt, r.ttl).Err()
}

// DeleteCount 订阅关系变化后失效缓存，交给读侧重建
func (r *SubscriberCountCache) DeleteCount(ctx context.Context, categoryID uint64) error {
	if err := Client.Del(ctx, r.key(categoryID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
