package middlewares

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type memoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
	locks  map[string]bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string][]byte), locks: make(map[string]bool)}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryStore) Save(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryStore) Lock(_ context.Context, key string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[key] {
		return false, nil
	}
	m.locks[key] = true
	return true, nil
}

func (m *memoryStore) Unlock(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

type IdempotencyTestSuite struct {
	suite.Suite
	store  *memoryStore
	router *gin.Engine
	calls  atomic.Int64
	status int
}

func TestIdempotencySuite(t *testing.T) {
	suite.Run(t, new(IdempotencyTestSuite))
}

func (s *IdempotencyTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	l := logrus.New()
	l.SetOutput(io.Discard)

	s.store = newMemoryStore()
	s.calls.Store(0)
	s.status = http.StatusCreated

	s.router = gin.New()
	s.router.POST("/deposits",
		func(c *gin.Context) {
			c.Set(CurrentAccountIDKey, int64(c.GetHeader("X-Test-Account")[0]-'0'))
			c.Next()
		},
		Idempotency(s.store, l),
		func(c *gin.Context) {
			n := s.calls.Add(1)
			c.JSON(s.status, gin.H{"call": n})
		},
	)
}

func (s *IdempotencyTestSuite) do(account, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/deposits", strings.NewReader(`{"amount":"10"}`))
	req.Header.Set("X-Test-Account", account)
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *IdempotencyTestSuite) TestReplaysCachedResponse() {
	first := s.do("1", "key-1")
	s.Equal(http.StatusCreated, first.Code)
	s.Empty(first.Header().Get(IdempotencyHitHeader))

	second := s.do("1", "key-1")
	s.Equal(http.StatusCreated, second.Code)
	s.Equal("true", second.Header().Get(IdempotencyHitHeader))
	s.JSONEq(first.Body.String(), second.Body.String())
	s.Equal(int64(1), s.calls.Load())
}

func (s *IdempotencyTestSuite) TestKeyIsScopedByAccount() {
	s.do("1", "key-1")
	other := s.do("2", "key-1")

	s.Empty(other.Header().Get(IdempotencyHitHeader))
	s.Equal(int64(2), s.calls.Load())
}

func (s *IdempotencyTestSuite) TestWithoutKey() {
	s.do("1", "")
	s.do("1", "")
	s.Equal(int64(2), s.calls.Load())
}

func (s *IdempotencyTestSuite) TestErrorsAreNotCached() {
	s.status = http.StatusUnprocessableEntity
	s.do("1", "key-1")
	s.do("1", "key-1")
	s.Equal(int64(2), s.calls.Load())
}

func (s *IdempotencyTestSuite) TestLockedKeyConflicts() {
	locked, err := s.store.Lock(context.Background(), "1:/deposits:key-1", time.Second)
	s.Require().NoError(err)
	s.Require().True(locked)

	rec := s.do("1", "key-1")
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal(int64(0), s.calls.Load())
}

func (s *IdempotencyTestSuite) TestTooLongKey() {
	rec := s.do("1", strings.Repeat("k", maxIdempotencyKeyLen+1))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal(int64(0), s.calls.Load())
}
