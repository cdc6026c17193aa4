package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"stock-tracker/internal/cache"
	"stock-tracker/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newMiniSessions(t *testing.T, ttl time.Duration) (*RedisSessions, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisSessions(rdb, "test-secret", ttl), mr
}

var alice = &model.User{ID: 7, Username: "alice", FullName: "Alice Doe"}

func TestRedisSessionsLifecycle(t *testing.T) {
	t.Cleanup(restoreGlobals)
	s, mr := newMiniSessions(t, time.Hour)
	ctx := context.Background()

	token, exp, err := s.Create(ctx, alice)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims := &SessionClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	require.Equal(t, 7, claims.UserID)
	require.Equal(t, "7", claims.Subject)
	raw, err := base64.RawURLEncoding.DecodeString(claims.ID)
	require.NoError(t, err)
	require.Len(t, raw, 32)

	require.True(t, mr.Exists("session:"+claims.ID))
	require.Equal(t, time.Hour, mr.TTL("session:"+claims.ID))
	stored, err := mr.Get("session:" + claims.ID)
	require.NoError(t, err)
	var d sessionData
	require.NoError(t, json.Unmarshal([]byte(stored), &d))
	require.Equal(t, sessionData{UserID: 7, Username: "alice", FullName: "Alice Doe"}, d)

	sess, err := s.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, 7, sess.UserID)
	require.Equal(t, "alice", sess.Username)
	require.Equal(t, "Alice Doe", sess.FullName)
	require.Equal(t, claims.ID, sess.ID)

	require.NoError(t, s.Destroy(ctx, token))
	require.False(t, mr.Exists("session:"+claims.ID))
	_, err = s.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrUnauthenticated)

	// 重複註銷不是錯誤
	require.NoError(t, s.Destroy(ctx, token))
	require.NoError(t, s.Destroy(ctx, ""))
	require.NoError(t, s.Destroy(ctx, "garbage"))
}

func TestRedisSessionsIndependent(t *testing.T) {
	s, _ := newMiniSessions(t, time.Hour)
	ctx := context.Background()

	first, _, err := s.Create(ctx, alice)
	require.NoError(t, err)
	second, _, err := s.Create(ctx, alice)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	require.NoError(t, s.Destroy(ctx, first))
	_, err = s.Resolve(ctx, first)
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, err = s.Resolve(ctx, second)
	require.NoError(t, err)
}

func TestRedisSessionsResolveRejects(t *testing.T) {
	t.Cleanup(restoreGlobals)
	s, mr := newMiniSessions(t, time.Hour)
	ctx := context.Background()

	_, err := s.Resolve(ctx, "")
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, err = s.Resolve(ctx, "not-a-jwt")
	require.ErrorIs(t, err, ErrUnauthenticated)

	token, _, err := s.Create(ctx, alice)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewRedisSessions(s.cache, "other-secret", time.Hour)
		_, err := other.Resolve(ctx, token)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unsigned token", func(t *testing.T) {
		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{UserID: 7, RegisteredClaims: jwt.RegisteredClaims{ID: "x"}}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = s.Resolve(ctx, none)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("expired token", func(t *testing.T) {
		timeNow = func() time.Time { return time.Now().Add(2 * time.Hour) }
		t.Cleanup(func() { timeNow = time.Now })
		_, err := s.Resolve(ctx, token)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("redis key expired", func(t *testing.T) {
		mr.FastForward(2 * time.Hour)
		_, err := s.Resolve(ctx, token)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("user mismatch", func(t *testing.T) {
		tok, _, err := s.Create(ctx, alice)
		require.NoError(t, err)
		claims := &SessionClaims{}
		_, err = jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) { return []byte("test-secret"), nil })
		require.NoError(t, err)
		require.NoError(t, mr.Set("session:"+claims.ID, `{"user_id":8,"username":"bob"}`))
		_, err = s.Resolve(ctx, tok)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("parser returns invalid token", func(t *testing.T) {
		parseWithClaims = func(string, jwt.Claims, jwt.Keyfunc, ...jwt.ParserOption) (*jwt.Token, error) {
			return &jwt.Token{Claims: &SessionClaims{}, Valid: false}, nil
		}
		t.Cleanup(func() { parseWithClaims = jwt.ParseWithClaims })
		_, err := s.Resolve(ctx, "whatever")
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestRedisSessionsDestroyExpiredToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	s, mr := newMiniSessions(t, time.Hour)
	ctx := context.Background()

	token, _, err := s.Create(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mr.Keys(), 1)

	timeNow = func() time.Time { return time.Now().Add(3 * time.Hour) }
	require.NoError(t, s.Destroy(ctx, token))
	require.Empty(t, mr.Keys())
}

func TestRedisSessionsFailures(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		t.Cleanup(restoreGlobals)
		c := &cache.FakeCache{}
		s := NewRedisSessions(c, "k", time.Minute)

		randRead = func([]byte) (int, error) { return 0, errors.New("rand") }
		_, _, err := s.Create(ctx, alice)
		require.ErrorContains(t, err, "generate session id")

		restoreGlobals()
		jsonMarshal = func(any) ([]byte, error) { return nil, errors.New("json") }
		_, _, err = s.Create(ctx, alice)
		require.ErrorContains(t, err, "marshal session")

		restoreGlobals()
		c.SetFn = func(context.Context, string, any, time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("", errors.New("set"))
		}
		_, _, err = s.Create(ctx, alice)
		require.ErrorContains(t, err, "store session")

		var storedKey string
		c.SetFn = func(_ context.Context, key string, _ any, ttl time.Duration) *redis.StatusCmd {
			storedKey = key
			require.Equal(t, time.Minute, ttl)
			return redis.NewStatusResult("OK", nil)
		}
		_, _, err = s.Create(ctx, alice)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(storedKey, "session:"))
	})

	t.Run("resolve", func(t *testing.T) {
		t.Cleanup(restoreGlobals)
		c := &cache.FakeCache{SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("OK", nil)
		}}
		s := NewRedisSessions(c, "k", time.Minute)
		token, _, err := s.Create(ctx, alice)
		require.NoError(t, err)

		c.GetFn = func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("", errors.New("get"))
		}
		_, err = s.Resolve(ctx, token)
		require.ErrorContains(t, err, "load session")
		require.NotErrorIs(t, err, ErrUnauthenticated)

		c.GetFn = func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("{", nil)
		}
		_, err = s.Resolve(ctx, token)
		require.ErrorContains(t, err, "decode session")
	})

	t.Run("destroy", func(t *testing.T) {
		c := &cache.FakeCache{SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("OK", nil)
		}}
		s := NewRedisSessions(c, "k", time.Minute)
		token, _, err := s.Create(ctx, alice)
		require.NoError(t, err)

		c.DelFn = func(context.Context, ...string) *redis.IntCmd {
			return redis.NewIntResult(0, errors.New("del"))
		}
		require.ErrorContains(t, s.Destroy(ctx, token), "delete session")
	})
}
