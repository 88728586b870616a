package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"schedule-engine/pkg/response"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// limiterEntry содержит rate limiter и время последнего обращения
type limiterEntry struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

// IPRateLimiter ведёт отдельный token bucket на каждый IP-адрес клиента.
// Записи, не использовавшиеся дольше ttl, удаляются фоновой горутиной,
// которую останавливает Stop().
type IPRateLimiter struct {
	ips      map[string]*limiterEntry
	mu       sync.Mutex
	r        rate.Limit
	b        int
	ttl      time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewIPRateLimiter создает rate limiter: r запросов в секунду с burst b
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	limiter := &IPRateLimiter{
		ips:      make(map[string]*limiterEntry),
		r:        r,
		b:        b,
		ttl:      1 * time.Hour,
		stopChan: make(chan struct{}),
	}
	go limiter.cleanupLoop()
	return limiter
}

// GenerateRateLimiter ограничивает запуск генерации расписания: один запуск
// строит и решает модель целиком, поэтому разрешаем 1 запрос в 10 секунд
// с burst 2 на IP
func GenerateRateLimiter() *IPRateLimiter {
	return NewIPRateLimiter(rate.Every(10*time.Second), 2)
}

// GetLimiter возвращает limiter для IP-адреса, создавая его при первом
// обращении, и обновляет время последнего доступа
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	entry, exists := i.ips[ip]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = entry
	}
	entry.lastAccessed = time.Now()
	return entry.limiter
}

// CleanupExpired удаляет записи, не использовавшиеся дольше ttl
func (i *IPRateLimiter) CleanupExpired() {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := time.Now()
	removed := 0
	for ip, entry := range i.ips {
		if now.Sub(entry.lastAccessed) > i.ttl {
			delete(i.ips, ip)
			removed++
		}
	}

	if removed > 0 {
		log.Debug().
			Int("removed_entries", removed).
			Int("remaining_entries", len(i.ips)).
			Msg("Rate limiter cleanup: expired entries removed")
	}
}

// Stop останавливает фоновую горутину очистки
func (i *IPRateLimiter) Stop() {
	i.stopOnce.Do(func() {
		close(i.stopChan)
	})
}

func (i *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-i.stopChan:
			return
		case <-ticker.C:
			i.CleanupExpired()
		}
	}
}

// clientIP извлекает IP клиента из RemoteAddr. Цепочка middleware ставит
// chi RealIP раньше, поэтому RemoteAddr уже учитывает доверенные заголовки.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// RateLimitMiddleware отклоняет запрос со статусом 429, когда bucket IP пуст
func RateLimitMiddleware(limiter *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.GetLimiter(ip).Allow() {
				log.Warn().
					Str("ip", ip).
					Str("path", r.URL.Path).
					Msg("Rate limit exceeded")
				response.TooManyRequests(w, "Слишком много запросов, повторите позже")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
