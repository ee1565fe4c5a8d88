package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type window struct {
	count int
	reset time.Time
}

// RateLimit bounds how many requests one caller may issue per interval. It
// sits behind AdminAuth on the decision and queue routes: each verified admin
// gets their own window, so a review team behind one office NAT never
// throttles each other. Requests without a verified identity fall back to the
// client IP.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	var mu sync.Mutex
	windows := make(map[string]*window)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := callerKey(r)
			now := time.Now()

			mu.Lock()
			if len(windows) > 4096 {
				for k, win := range windows {
					if now.After(win.reset) {
						delete(windows, k)
					}
				}
			}
			win, ok := windows[key]
			if !ok || now.After(win.reset) {
				win = &window{reset: now.Add(per)}
				windows[key] = win
			}
			if win.count >= limit {
				reset := win.reset
				mu.Unlock()
				w.Header().Set("Retry-After", strconv.Itoa(int(time.Until(reset).Seconds())+1))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			win.count++
			mu.Unlock()

			next.ServeHTTP(w, r)
		})
	}
}

// callerKey picks the window identity: the verified admin when AdminAuth ran
// earlier in the chain, otherwise the client IP.
func callerKey(r *http.Request) string {
	if admin := AdminEmailFromContext(r.Context()); admin != "" {
		return "admin:" + admin
	}
	return "ip:" + rateLimitIP(r)
}

func rateLimitIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			if ip := strings.TrimSpace(part); ip != "" && net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
