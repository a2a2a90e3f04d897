package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	APIRate         rate.Limit    // API全般のレート（req/sec）。120/60 = 2 req/sec
	APIBurst        int           // API全般のバーストサイズ
	SubmitRate      rate.Limit    // 通報投稿のレート（req/sec）。10/60
	SubmitBurst     int           // 通報投稿のバーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
// API全般 120 req/min、通報投稿 10 req/min（クライアント単位）。
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		APIRate:         rate.Limit(120.0 / 60.0), // 2 req/sec
		APIBurst:        120,
		SubmitRate:      rate.Limit(10.0 / 60.0), // ~0.167 req/sec
		SubmitBurst:     10,
		CleanupInterval: 5 * time.Minute,
	}
}

// clientLimiter はクライアントごとのレートリミッターとアクセス時刻を保持する。
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter はクライアントごとのレート制限を管理する。
// API全般のレート制限と通報投稿のレート制限の2種類を提供する。
// 通報投稿は匿名市民からのリクエストであるため、リモートIPをキーとする。
// API全般はセッションIDをキーとし、セッションがなければIPにフォールバックする。
type RateLimiter struct {
	config RateLimiterConfig

	apiMu       sync.RWMutex
	apiLimiters map[string]*clientLimiter

	submitMu       sync.RWMutex
	submitLimiters map[string]*clientLimiter

	stopCh chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:         config,
		apiLimiters:    make(map[string]*clientLimiter),
		submitLimiters: make(map[string]*clientLimiter),
		stopCh:         make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// APIMiddleware はAPI全般のレート制限ミドルウェアを返す。
// SessionMiddlewareの後に配置すると、セッション単位で制限される。
func (rl *RateLimiter) APIMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			limiter := rl.getOrCreateAPILimiter(key)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.APIRate)
				slog.Warn("rate limit exceeded",
					slog.String("client", key),
					slog.String("limit_type", "api"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SubmitMiddleware は通報投稿専用のレート制限ミドルウェアを返す。
// API全般のレート制限とは独立に動作し、リモートIPをキーとする。
func (rl *RateLimiter) SubmitMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := remoteIP(r)

			limiter := rl.getOrCreateSubmitLimiter(key)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.SubmitRate)
				slog.Warn("rate limit exceeded",
					slog.String("client", key),
					slog.String("limit_type", "submit"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// APILimiterCount は現在管理されているAPI全般リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) APILimiterCount() int {
	rl.apiMu.RLock()
	defer rl.apiMu.RUnlock()
	return len(rl.apiLimiters)
}

// SubmitLimiterCount は現在管理されている通報投稿リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) SubmitLimiterCount() int {
	rl.submitMu.RLock()
	defer rl.submitMu.RUnlock()
	return len(rl.submitLimiters)
}

// clientKey はレート制限キーを決定する。セッションがあればセッションID、
// なければリモートIP。
func clientKey(r *http.Request) string {
	if session := SessionFromContext(r.Context()); session != nil {
		return session.ID
	}
	return remoteIP(r)
}

// remoteIP はリクエスト元のIPアドレスを返す。
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// getOrCreateAPILimiter はクライアントのAPI全般リミッターを取得または作成する。
func (rl *RateLimiter) getOrCreateAPILimiter(key string) *rate.Limiter {
	rl.apiMu.RLock()
	cl, exists := rl.apiLimiters[key]
	rl.apiMu.RUnlock()

	if exists {
		rl.apiMu.Lock()
		cl.lastAccess = time.Now()
		rl.apiMu.Unlock()
		return cl.limiter
	}

	rl.apiMu.Lock()
	defer rl.apiMu.Unlock()

	// ダブルチェック
	if cl, exists := rl.apiLimiters[key]; exists {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(rl.config.APIRate, rl.config.APIBurst)
	rl.apiLimiters[key] = &clientLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// getOrCreateSubmitLimiter はクライアントの通報投稿リミッターを取得または作成する。
func (rl *RateLimiter) getOrCreateSubmitLimiter(key string) *rate.Limiter {
	rl.submitMu.RLock()
	cl, exists := rl.submitLimiters[key]
	rl.submitMu.RUnlock()

	if exists {
		rl.submitMu.Lock()
		cl.lastAccess = time.Now()
		rl.submitMu.Unlock()
		return cl.limiter
	}

	rl.submitMu.Lock()
	defer rl.submitMu.Unlock()

	// ダブルチェック
	if cl, exists := rl.submitLimiters[key]; exists {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	limiter := rate.NewLimiter(rl.config.SubmitRate, rl.config.SubmitBurst)
	rl.submitLimiters[key] = &clientLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2

	now := time.Now()

	rl.apiMu.Lock()
	for key, cl := range rl.apiLimiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.apiLimiters, key)
		}
	}
	rl.apiMu.Unlock()

	rl.submitMu.Lock()
	for key, cl := range rl.submitLimiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.submitLimiters, key)
		}
	}
	rl.submitMu.Unlock()
}

// writeRateLimitResponse は429 Too Many Requestsレスポンスを書き込む。
// Retry-Afterヘッダーにはトークンが補充されるまでの推定秒数を設定する。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	// Retry-Afterの算出: 1トークンが補充されるまでの秒数
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(ErrorResponseBody{
		OK:    false,
		Error: "Too many requests. Please try again later.",
		Code:  "RATE_LIMIT_EXCEEDED",
	})
}
