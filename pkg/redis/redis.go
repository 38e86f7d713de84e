package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"dinehub/backend/config"
)

// Client Redis 客户端封装
// 当前用于 Token 黑名单与角色目录缓存
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Token 已过期，无需加入黑名单
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 角色目录缓存 ──
// 角色目录读多写少，按角色名缓存序列化后的角色记录。
// 角色创建/更新/停用时由 Service 层调用 InvalidateRole 失效。

const (
	roleCachePrefix = "role:name:"
	roleCacheTTL    = 10 * time.Minute
)

// GetCachedRole 按角色名读取缓存的角色 JSON；未命中返回 ("", nil)
func (c *Client) GetCachedRole(ctx context.Context, name string) (string, error) {
	v, err := c.rdb.Get(ctx, roleCachePrefix+name).Result()
	if err == goredis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// CacheRole 写入角色 JSON 缓存
func (c *Client) CacheRole(ctx context.Context, name string, payload string) error {
	return c.rdb.Set(ctx, roleCachePrefix+name, payload, roleCacheTTL).Err()
}

// InvalidateRole 删除角色缓存（角色变更后调用）
func (c *Client) InvalidateRole(ctx context.Context, name string) error {
	return c.rdb.Del(ctx, roleCachePrefix+name).Err()
}

// ── 速率限制 ──

// 窗口修剪、计数与写入在同一脚本内原子执行，
// 并发请求在计数与写入之间不会交错。
var rateLimitScript = goredis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[2]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[3], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

// CheckRateLimit 基于有序集合的滑动窗口限流。
// 返回 true 表示放行；窗口内请求数达到 limit 时返回 false。
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()

	allowed, err := rateLimitScript.Run(ctx, c.rdb, []string{key},
		now.Add(-window).UnixNano(),
		limit,
		now.UnixNano(),
		uuid.New().String(),
		window.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return allowed == 1, nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
