package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"dinehub/backend/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	srv := miniredis.RunT(t)
	c, err := NewClient(&config.RedisConfig{Addr: srv.Addr()}, zap.NewNop())
	if err != nil {
		t.Fatalf("连接测试 Redis 失败: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// ── Token 黑名单 ──

func TestBlacklistToken(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if err := c.BlacklistToken(ctx, "jti-001", time.Minute); err != nil {
		t.Fatalf("加入黑名单失败: %v", err)
	}

	found, err := c.IsBlacklisted(ctx, "jti-001")
	if err != nil {
		t.Fatalf("查询黑名单失败: %v", err)
	}
	if !found {
		t.Error("期望 jti-001 在黑名单中")
	}

	found, err = c.IsBlacklisted(ctx, "jti-unknown")
	if err != nil {
		t.Fatalf("查询黑名单失败: %v", err)
	}
	if found {
		t.Error("未登出的 jti 不应在黑名单中")
	}
}

func TestBlacklistToken_ExpiredTokenSkipped(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	// Token 剩余有效期为负时无需写入
	if err := c.BlacklistToken(ctx, "jti-002", -time.Second); err != nil {
		t.Fatalf("期望静默跳过，实际: %v", err)
	}
	found, _ := c.IsBlacklisted(ctx, "jti-002")
	if found {
		t.Error("已过期 Token 不应写入黑名单")
	}
}

// ── 角色缓存 ──

func TestRoleCache(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	v, err := c.GetCachedRole(ctx, "waiter")
	if err != nil {
		t.Fatalf("读取缓存失败: %v", err)
	}
	if v != "" {
		t.Errorf("未缓存时期望空串，实际=%q", v)
	}

	if err := c.CacheRole(ctx, "waiter", `{"name":"waiter"}`); err != nil {
		t.Fatalf("写入缓存失败: %v", err)
	}
	v, err = c.GetCachedRole(ctx, "waiter")
	if err != nil {
		t.Fatalf("读取缓存失败: %v", err)
	}
	if v != `{"name":"waiter"}` {
		t.Errorf("缓存内容不一致: %q", v)
	}

	if err := c.InvalidateRole(ctx, "waiter"); err != nil {
		t.Fatalf("失效缓存失败: %v", err)
	}
	v, _ = c.GetCachedRole(ctx, "waiter")
	if v != "" {
		t.Errorf("失效后期望空串，实际=%q", v)
	}
}

// ── 速率限制 ──

func TestCheckRateLimit_LimitEnforced(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := c.CheckRateLimit(ctx, "rl:login:1.2.3.4", 3, time.Minute)
		if err != nil {
			t.Fatalf("第 %d 次请求失败: %v", i+1, err)
		}
		if !ok {
			t.Fatalf("第 %d 次请求应放行", i+1)
		}
	}

	ok, err := c.CheckRateLimit(ctx, "rl:login:1.2.3.4", 3, time.Minute)
	if err != nil {
		t.Fatalf("超限请求失败: %v", err)
	}
	if ok {
		t.Error("超过 limit 的请求应被拒绝")
	}
}

func TestCheckRateLimit_KeysIndependent(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		c.CheckRateLimit(ctx, "rl:login:a", 2, time.Minute)
	}
	if ok, _ := c.CheckRateLimit(ctx, "rl:login:a", 2, time.Minute); ok {
		t.Error("key a 已达上限，应被拒绝")
	}
	if ok, _ := c.CheckRateLimit(ctx, "rl:login:b", 2, time.Minute); !ok {
		t.Error("key b 未达上限，应放行")
	}
}

func TestCheckRateLimit_ConcurrentExactLimit(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	// 计数与写入在同一脚本内原子执行：
	// 并发请求下放行数必须恰好等于 limit，不得越限
	const limit = 5
	const requests = 20

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := c.CheckRateLimit(ctx, "rl:login:burst", limit, time.Minute)
			if err != nil {
				t.Errorf("CheckRateLimit 失败: %v", err)
				return
			}
			if ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != limit {
		t.Errorf("期望恰好放行 %d 次，实际=%d", limit, allowed)
	}
}
