package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable Redis 未启用或连接未初始化
var ErrStoreUnavailable = errors.New("redis store unavailable")

// CartStore 购物车键值存储接口
// 以用户为维度保存 sku -> 数量 的映射，仅保证单键原子性，
// 同一行的并发写入为后写覆盖。
type CartStore interface {
	Set(ctx context.Context, userID, skuID uint, quantity int) error
	Get(ctx context.Context, userID, skuID uint) (int, bool, error)
	GetAll(ctx context.Context, userID uint) (map[uint]int, error)
	Del(ctx context.Context, userID uint, skuIDs ...uint) error
	Count(ctx context.Context, userID uint) (int64, error)
}

// RedisCartStore 基于 Redis Hash 的购物车存储
type RedisCartStore struct {
	client *redis.Client
	prefix string
}

// NewRedisCartStore 创建购物车存储
func NewRedisCartStore(client *redis.Client, prefix string) *RedisCartStore {
	if prefix == "" {
		prefix = "df"
	}
	return &RedisCartStore{client: client, prefix: prefix}
}

// cartKey 统一约定购物车键名
func (s *RedisCartStore) cartKey(userID uint) string {
	return fmt.Sprintf("%s:cart:%d", s.prefix, userID)
}

// Set 写入购物车行（覆盖式）
func (s *RedisCartStore) Set(ctx context.Context, userID, skuID uint, quantity int) error {
	if s == nil || s.client == nil {
		return ErrStoreUnavailable
	}
	return s.client.HSet(ctx, s.cartKey(userID), skuField(skuID), quantity).Err()
}

// Get 读取购物车行数量，第二个返回值表示该行是否存在
func (s *RedisCartStore) Get(ctx context.Context, userID, skuID uint) (int, bool, error) {
	if s == nil || s.client == nil {
		return 0, false, ErrStoreUnavailable
	}
	val, err := s.client.HGet(ctx, s.cartKey(userID), skuField(skuID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	quantity, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, err
	}
	return quantity, true, nil
}

// GetAll 读取用户全部购物车行
func (s *RedisCartStore) GetAll(ctx context.Context, userID uint) (map[uint]int, error) {
	if s == nil || s.client == nil {
		return nil, ErrStoreUnavailable
	}
	raw, err := s.client.HGetAll(ctx, s.cartKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	lines := make(map[uint]int, len(raw))
	for field, val := range raw {
		skuID, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		quantity, err := strconv.Atoi(val)
		if err != nil {
			continue
		}
		lines[uint(skuID)] = quantity
	}
	return lines, nil
}

// Del 删除指定 sku 的购物车行
func (s *RedisCartStore) Del(ctx context.Context, userID uint, skuIDs ...uint) error {
	if s == nil || s.client == nil {
		return ErrStoreUnavailable
	}
	if len(skuIDs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(skuIDs))
	for _, id := range skuIDs {
		fields = append(fields, skuField(id))
	}
	return s.client.HDel(ctx, s.cartKey(userID), fields...).Err()
}

// Count 购物车行数（不同 sku 的数量）
func (s *RedisCartStore) Count(ctx context.Context, userID uint) (int64, error) {
	if s == nil || s.client == nil {
		return 0, ErrStoreUnavailable
	}
	return s.client.HLen(ctx, s.cartKey(userID)).Result()
}

func skuField(skuID uint) string {
	return strconv.FormatUint(uint64(skuID), 10)
}
