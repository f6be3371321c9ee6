package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dailyfresh-next/internal/constants"

	"github.com/redis/go-redis/v9"
)

// HistoryStore 浏览历史存储接口
// 用 Redis List 记录用户最近浏览的 sku，最新的在表头。
type HistoryStore interface {
	Push(ctx context.Context, userID, skuID uint) error
	List(ctx context.Context, userID uint, limit int64) ([]uint, error)
}

// RedisHistoryStore 基于 Redis List 的浏览历史存储
type RedisHistoryStore struct {
	client *redis.Client
	prefix string
}

// NewRedisHistoryStore 创建浏览历史存储
func NewRedisHistoryStore(client *redis.Client, prefix string) *RedisHistoryStore {
	if prefix == "" {
		prefix = "df"
	}
	return &RedisHistoryStore{client: client, prefix: prefix}
}

// historyKey 统一约定浏览历史键名
func (s *RedisHistoryStore) historyKey(userID uint) string {
	return fmt.Sprintf("%s:history:%d", s.prefix, userID)
}

// Push 记录一次浏览：去重后插入表头，并截断到保留上限
func (s *RedisHistoryStore) Push(ctx context.Context, userID, skuID uint) error {
	if s == nil || s.client == nil {
		return ErrStoreUnavailable
	}
	key := s.historyKey(userID)
	member := strconv.FormatUint(uint64(skuID), 10)
	pipe := s.client.TxPipeline()
	pipe.LRem(ctx, key, 0, member)
	pipe.LPush(ctx, key, member)
	pipe.LTrim(ctx, key, 0, int64(constants.BrowseHistoryLimit-1))
	_, err := pipe.Exec(ctx)
	return err
}

// List 按最近浏览顺序返回 sku id
func (s *RedisHistoryStore) List(ctx context.Context, userID uint, limit int64) ([]uint, error) {
	if s == nil || s.client == nil {
		return nil, ErrStoreUnavailable
	}
	if limit <= 0 {
		limit = constants.BrowseHistoryLimit
	}
	raw, err := s.client.LRange(ctx, s.historyKey(userID), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(raw))
	for _, member := range raw {
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
