package middleware

import (
	"bytes"
	"crypto/sha256"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/forgo/equimind/api/internal/model"
)

// IdempotencyKeyHeader is the request header naming a retry-safe operation
const IdempotencyKeyHeader = "Idempotency-Key"

// Limits on what the idempotency layer will remember
const (
	maxIdempotencyKeyLength = 255
	maxIdempotentBodyBytes  = 1 << 20
)

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	TTL time.Duration // how long a completed response is replayed (default 24h)
	Now func() time.Time
}

// IdempotencyStore remembers responses by (caller, key, method, path).
// Expired entries are swept lazily on access.
type IdempotencyStore struct {
	mu        sync.Mutex
	entries   map[string]*idempotencyEntry
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type idempotencyEntry struct {
	fingerprint [sha256.Size]byte
	inFlight    bool
	status      int
	headers     http.Header
	body        []byte
	expiresAt   time.Time
}

// NewIdempotencyStore creates a new idempotency store
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &IdempotencyStore{
		entries:   make(map[string]*idempotencyEntry),
		ttl:       cfg.TTL,
		now:       cfg.Now,
		lastSweep: cfg.Now(),
	}
}

// Len reports how many keys are remembered
func (s *IdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweep drops expired entries at most once per TTL. Caller holds mu.
func (s *IdempotencyStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.ttl {
		return
	}
	for key, e := range s.entries {
		if !e.inFlight && !now.Before(e.expiresAt) {
			delete(s.entries, key)
		}
	}
	s.lastSweep = now
}

type claimResult int

const (
	claimed claimResult = iota
	replay
	inProgress
	mismatch
)

// claim reserves key for a new request or reports why it cannot be run
func (s *IdempotencyStore) claim(key string, fingerprint [sha256.Size]byte) (claimResult, *idempotencyEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	if e, ok := s.entries[key]; ok && (e.inFlight || now.Before(e.expiresAt)) {
		switch {
		case e.fingerprint != fingerprint:
			return mismatch, nil
		case e.inFlight:
			return inProgress, nil
		default:
			return replay, e
		}
	}

	s.entries[key] = &idempotencyEntry{fingerprint: fingerprint, inFlight: true}
	return claimed, nil
}

// finish records the outcome of a claimed request. Server errors release
// the key so the client can retry it.
func (s *IdempotencyStore) finish(key string, status int, headers http.Header, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status >= http.StatusInternalServerError {
		delete(s.entries, key)
		return
	}
	e, ok := s.entries[key]
	if !ok {
		return
	}
	e.inFlight = false
	e.status = status
	e.headers = headers
	e.body = body
	e.expiresAt = s.now().Add(s.ttl)
}

// scopeKey joins the parts that identify one logical operation
func scopeKey(caller, idempotencyKey, method, path string) string {
	return method + " " + path + "\x00" + caller + "\x00" + idempotencyKey
}

// recordingWriter tees the response so it can be replayed
type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *recordingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays POST and PATCH responses for a repeated Idempotency-Key.
// Keys are scoped to the acting rider, or the client IP without one. Reusing
// a key with a different body is rejected with 422, and a duplicate that
// arrives while the first request is running gets 409.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := r.Header.Get(IdempotencyKeyHeader)
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(idempotencyKey) > maxIdempotencyKeyLength {
				model.NewBadRequestError("Idempotency-Key must be at most 255 characters").WriteJSON(w)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxIdempotentBodyBytes+1))
			if err != nil {
				model.NewBadRequestError("unable to read request body").WriteJSON(w)
				return
			}
			if len(body) > maxIdempotentBodyBytes {
				// Too large to fingerprint; run without replay protection
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			caller := GetRiderID(r.Context())
			if caller == "" {
				caller = ClientIP(r)
			}
			key := scopeKey(caller, idempotencyKey, r.Method, r.URL.Path)

			result, entry := store.claim(key, sha256.Sum256(body))
			switch result {
			case mismatch:
				model.NewValidationError([]model.FieldError{{
					Field:   IdempotencyKeyHeader,
					Message: "key was already used with a different request body",
				}}).WriteJSON(w)
				return
			case inProgress:
				model.NewConflictError("a request with this Idempotency-Key is still being processed").WriteJSON(w)
				return
			case replay:
				for k, v := range entry.headers {
					w.Header()[k] = append([]string(nil), v...)
				}
				w.Header().Set("Idempotency-Replayed", "true")
				w.WriteHeader(entry.status)
				_, _ = w.Write(entry.body)
				return
			}

			rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				if p := recover(); p != nil {
					store.finish(key, http.StatusInternalServerError, nil, nil)
					panic(p)
				}
				store.finish(key, rec.status, rec.Header().Clone(), rec.body.Bytes())
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
