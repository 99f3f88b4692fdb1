package middlewares

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	IdempotencyHeader    = "Idempotency-Key"
	IdempotencyHitHeader = "X-Idempotency-Hit"

	idempotencyCacheTTL   = 24 * time.Hour
	idempotencyLockTTL    = time.Minute // дольше таймаута создания пополнения.
	idempotencyKeyPrefix  = "garant:idempotency:"
	idempotencyLockSuffix = ":lock"
	maxIdempotencyKeyLen  = 128
)

// IdempotencyStore хранилище закешированных ответов и блокировок по ключу идемпотентности.
type IdempotencyStore interface {
	// Get возвращает сохраненный ответ. found=false, если ответа нет.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Save(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Lock захватывает блокировку ключа, false если она уже занята.
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// RedisIdempotencyStore IdempotencyStore поверх redis.
type RedisIdempotencyStore struct {
	rdb *redis.Client
}

func NewRedisIdempotencyStore(rdb *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb}
}

func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.rdb.Get(ctx, idempotencyKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (s *RedisIdempotencyStore) Save(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, idempotencyKeyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisIdempotencyStore) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, idempotencyKeyPrefix+key+idempotencyLockSuffix, "processing", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (s *RedisIdempotencyStore) Unlock(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, idempotencyKeyPrefix+key+idempotencyLockSuffix).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// bodyRecorder дублирует тело ответа в буфер.
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b) //nolint:wrapcheck
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s) //nolint:wrapcheck
}

// Idempotency повторяет закешированный успешный ответ для запроса с тем же Idempotency-Key.
//
// Ключ действует в пределах аккаунта, поэтому middleware ставится после AuthRequired. Пока запрос с ключом
// выполняется, повторы получают 409. Кешируются только ответы 2xx. Без заголовка запрос проходит как есть.
func Idempotency(store IdempotencyStore, l *logrus.Logger) gin.HandlerFunc {
	entry := l.WithFields(logrus.Fields{
		"component": "api",
		"module":    "idempotency",
	})
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "idempotency key is too long"})
			return
		}
		scoped := fmt.Sprintf("%d:%s:%s", c.GetInt64(CurrentAccountIDKey), c.FullPath(), key)
		ctx := context.WithoutCancel(c.Request.Context())
		l := entry.WithField("key", scoped)

		raw, found, err := store.Get(ctx, scoped)
		if err != nil {
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
			return
		}
		if found {
			var cached cachedResponse
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				c.Header(IdempotencyHitHeader, "true")
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
			l.Warn("broken cached response, processing request again")
		}

		acquired, err := store.Lock(ctx, scoped, idempotencyLockTTL)
		if err != nil {
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
			return
		}
		if !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error": "a request with this idempotency key is being processed",
			})
			return
		}
		defer func() {
			if unlockErr := store.Unlock(ctx, scoped); unlockErr != nil {
				l.WithError(unlockErr).Error("release idempotency lock")
			}
		}()

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()
		c.Writer = rec.ResponseWriter

		status := rec.Status()
		if status < 200 || status >= 300 {
			return
		}
		value, err := json.Marshal(cachedResponse{
			Status:      status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		})
		if err != nil {
			l.WithError(err).Error("marshal response")
			return
		}
		if err := store.Save(ctx, scoped, value, idempotencyCacheTTL); err != nil {
			l.WithError(err).Error("cache response")
		}
	}
}
