package middleware

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

// accessLine is one request as written to the access log
type accessLine struct {
	method   string
	path     string
	status   int
	duration time.Duration
	bytes    int
	operator string
	ip       string
}

// RequestLogger writes one access line per request from a background
// goroutine so slow log sinks never hold up a response.
type RequestLogger struct {
	lines  chan accessLine
	logger *log.Logger
	done   sync.WaitGroup

	// mu guards closed; senders hold it for reading so Close never closes
	// lines under a request that outlived shutdown
	mu     sync.RWMutex
	closed bool
}

func NewRequestLogger(logger *log.Logger) *RequestLogger {
	if logger == nil {
		logger = log.Default()
	}
	m := &RequestLogger{
		lines:  make(chan accessLine, 1000),
		logger: logger,
	}
	m.done.Add(1)
	go m.writer()
	return m
}

func (m *RequestLogger) writer() {
	defer m.done.Done()
	for l := range m.lines {
		operator := l.operator
		if operator == "" {
			operator = "-"
		}
		m.logger.Printf("[HTTP] %s %s %d %s %dB op=%s ip=%s",
			l.method, l.path, l.status, l.duration.Round(time.Microsecond), l.bytes, operator, l.ip)
	}
}

// Handler returns the middleware handler
func (m *RequestLogger) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkipLogging(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		// the auth middleware runs inside this one, so read the operator
		// back from the request it saw
		var operator string
		next.ServeHTTP(wrapped, r.WithContext(withOperatorSink(r.Context(), &operator)))

		line := accessLine{
			method:   r.Method,
			path:     sanitizePath(r.URL.Path),
			status:   wrapped.statusCode,
			duration: time.Since(start),
			bytes:    wrapped.bytes,
			operator: operator,
			ip:       getClientIP(r),
		}

		m.send(line)
	})
}

// send queues line for the writer without blocking. Lines arriving after
// Close go straight to the logger.
func (m *RequestLogger) send(line accessLine) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		m.logger.Printf("[HTTP] %s %s %d (after logger close)", line.method, line.path, line.status)
		return
	}
	select {
	case m.lines <- line:
	default:
		log.Printf("[HTTP] Log buffer full, dropping access line for %s", line.path)
	}
}

// Close flushes pending lines and stops the writer. It is safe to call more
// than once.
func (m *RequestLogger) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.lines)
	m.mu.Unlock()

	m.done.Wait()
}

// shouldSkipLogging returns true for paths that shouldn't be logged
func shouldSkipLogging(path string) bool {
	for _, skip := range []string{"/health", "/metrics", "/favicon.ico"} {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}
	return false
}

// sanitizePath truncates very long paths
func sanitizePath(path string) string {
	if len(path) > 500 {
		path = path[:500]
	}
	return path
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header (for proxies/load balancers)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
