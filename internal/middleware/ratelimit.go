package middleware

import (
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const limiterCleanupInterval = 5 * time.Minute

type principalLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// WriteLimiter throttles vote and report writes per authenticated caller with
// token buckets. It must run after Authenticate.
type WriteLimiter struct {
	rate  rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*principalLimiter

	stopCh chan struct{}
}

// NewWriteLimiter allows perMinute writes per caller with a burst of the same
// size, and starts evicting idle callers in the background.
func NewWriteLimiter(perMinute int) *WriteLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	wl := &WriteLimiter{
		rate:     rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
		limiters: make(map[string]*principalLimiter),
		stopCh:   make(chan struct{}),
	}
	go wl.cleanupLoop()
	return wl
}

func (wl *WriteLimiter) Stop() {
	close(wl.stopCh)
}

func (wl *WriteLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := PrincipalEmail(c)
		if email == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if !wl.get(email).Allow() {
			slog.Warn("rate limit exceeded", "user_email", email, "limit_type", "write", "path", c.Path())
			retryAfter := int(math.Ceil(1.0 / float64(wl.rate)))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: true, Message: "Too many requests. Please try again later.",
			})
		}
		return c.Next()
	}
}

func (wl *WriteLimiter) get(email string) *rate.Limiter {
	wl.mu.Lock()
	defer wl.mu.Unlock()

	if pl, ok := wl.limiters[email]; ok {
		pl.lastAccess = time.Now()
		return pl.limiter
	}
	limiter := rate.NewLimiter(wl.rate, wl.burst)
	wl.limiters[email] = &principalLimiter{limiter: limiter, lastAccess: time.Now()}
	return limiter
}

func (wl *WriteLimiter) cleanupLoop() {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			wl.cleanup(time.Now())
		case <-wl.stopCh:
			return
		}
	}
}

// cleanup drops callers idle for more than two cleanup intervals.
func (wl *WriteLimiter) cleanup(now time.Time) {
	ttl := limiterCleanupInterval * 2

	wl.mu.Lock()
	defer wl.mu.Unlock()
	for email, pl := range wl.limiters {
		if now.Sub(pl.lastAccess) > ttl {
			delete(wl.limiters, email)
		}
	}
}

func (wl *WriteLimiter) count() int {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	return len(wl.limiters)
}
