package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pawhaven/pawhaven-backend/pkg/clientip"
)

// Write-path limit for comments, likes and requests: per-IP token bucket,
// 12/min with burst 6. Keeps one enthusiastic client from flooding a post's
// discussion while leaving normal use untouched.

const (
	writeRPS        = 0.2 // 12/min
	writeBurst      = 6
	writeLimiterTTL = 30 * time.Minute
	writeCleanup    = 5 * time.Minute
)

type writeLimiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

var (
	writeEntries   = make(map[string]*writeLimiterEntry)
	writeEntriesMu sync.Mutex
	cleanupStarted bool
)

func getWriteLimiter(ip string) *rate.Limiter {
	writeEntriesMu.Lock()
	defer writeEntriesMu.Unlock()
	startWriteCleanupOnce()

	e, ok := writeEntries[ip]
	if !ok {
		e = &writeLimiterEntry{
			limiter: rate.NewLimiter(rate.Limit(writeRPS), writeBurst),
			lastUse: time.Now(),
		}
		writeEntries[ip] = e
	}
	e.lastUse = time.Now()
	return e.limiter
}

func startWriteCleanupOnce() {
	if cleanupStarted {
		return
	}
	cleanupStarted = true
	go func() {
		for {
			time.Sleep(writeCleanup)
			writeEntriesMu.Lock()
			for ip, e := range writeEntries {
				if time.Since(e.lastUse) > writeLimiterTTL {
					delete(writeEntries, ip)
				}
			}
			writeEntriesMu.Unlock()
		}
	}()
}

// WriteLimit throttles mutation-heavy social endpoints.
func WriteLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientip.RealClientIP(r)
		if !getWriteLimiter(ip).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"Slow down a little and try again shortly."}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
