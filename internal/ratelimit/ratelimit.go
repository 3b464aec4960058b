package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const staleAfter = 3 * time.Minute

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// Limiter keeps one token bucket per client address. The address is the peer of the connection;
// X-Forwarded-For is only read when the peer is one of the trusted proxies.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	burst   int
	trusted map[string]bool
}

func NewLimiter(rps float64, burst int, trustedProxies ...string) *Limiter {
	trusted := make(map[string]bool, len(trustedProxies))
	for _, proxy := range trustedProxies {
		if proxy = strings.TrimSpace(proxy); proxy != "" {
			trusted[proxy] = true
		}
	}
	return &Limiter{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		burst:   burst,
		trusted: trusted,
	}
}

// StartCleanup drops clients not seen for a while, every interval, until stop is closed.
func (l *Limiter) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				l.evict(now)
			}
		}
	}()
}

func (l *Limiter) evict(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for ip, c := range l.clients {
		if now.Sub(c.seen) > staleAfter {
			delete(l.clients, ip)
			removed++
		}
	}
	return removed
}

func (l *Limiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.clients[ip]; ok {
		c.seen = time.Now()
		return c.lim
	}
	lim := rate.NewLimiter(l.r, l.burst)
	l.clients[ip] = &client{lim: lim, seen: time.Now()}
	return lim
}

func (l *Limiter) Allow(ip string) bool {
	return l.get(ip).Allow()
}

// Middleware answers 429 once a client exhausts its bucket.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := l.clientIP(r)
		if !l.Allow(ip) {
			log.Warnf("rate limit exceeded for %s on %s", ip, r.URL.Path)
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the connection peer. Behind a trusted proxy it walks X-Forwarded-For from the
// right and returns the first hop that is not itself a trusted proxy.
func (l *Limiter) clientIP(r *http.Request) string {
	peer := remoteHost(r)
	if !l.trusted[peer] {
		return peer
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" || l.trusted[hop] {
			continue
		}
		if net.ParseIP(hop) == nil {
			return peer
		}
		return hop
	}
	return peer
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
