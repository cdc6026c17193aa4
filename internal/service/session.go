package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"stock-tracker/internal/cache"
	"stock-tracker/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// Session 為解析成功的登入狀態
type Session struct {
	ID        string
	UserID    int
	Username  string
	FullName  string
	ExpiresAt time.Time
}

// SessionAuthority 管理 session 的建立、解析與註銷
type SessionAuthority interface {
	Create(ctx context.Context, user *model.User) (token string, expiresAt time.Time, err error)
	Resolve(ctx context.Context, token string) (*Session, error)
	Destroy(ctx context.Context, token string) error
}

// SessionClaims 定義 session JWT 負載內容，jti 即 Redis 中的 session id
type SessionClaims struct {
	UserID int `json:"uid"`
	jwt.RegisteredClaims
}

// sessionData 存放於 Redis 的內容
type sessionData struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// 以下變數便於測試時替換
var (
	randRead        = rand.Read
	jsonMarshal     = json.Marshal
	jsonUnmarshal   = json.Unmarshal
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims
)

// RedisSessions 以 Redis 保存 session，並以簽章後的 JWT 交給 client
// 刪除 Redis key 即可立即註銷，不必等 JWT 過期
type RedisSessions struct {
	cache  cache.Cache
	secret []byte
	ttl    time.Duration
}

func NewRedisSessions(c cache.Cache, secret string, ttl time.Duration) *RedisSessions {
	return &RedisSessions{cache: c, secret: []byte(secret), ttl: ttl}
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create 產生 32 bytes 隨機 session id，寫入 Redis 並簽發 JWT
func (s *RedisSessions) Create(ctx context.Context, user *model.User) (string, time.Time, error) {
	b := make([]byte, 32)
	if _, err := randRead(b); err != nil {
		return "", time.Time{}, fmt.Errorf("generate session id: %w", err)
	}
	id := base64.RawURLEncoding.EncodeToString(b)

	data, err := jsonMarshal(sessionData{
		UserID:   user.ID,
		Username: user.Username,
		FullName: user.FullName,
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("marshal session: %w", err)
	}
	if err := s.cache.Set(ctx, sessionKey(id), data, s.ttl).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("store session: %w", err)
	}

	now := timeNow()
	expiresAt := now.Add(s.ttl)
	claims := SessionClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expiresAt, nil
}

func (s *RedisSessions) parse(token string, opts ...jwt.ParserOption) (*SessionClaims, error) {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(timeNow),
	)
	t, err := parseWithClaims(token, &SessionClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := t.Claims.(*SessionClaims)
	if !ok || !t.Valid || claims.ID == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Resolve 驗證 JWT 並確認 Redis 中的 session 仍存在
func (s *RedisSessions) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	raw, err := s.cache.Get(ctx, sessionKey(claims.ID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var d sessionData
	if err := jsonUnmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if d.UserID != claims.UserID {
		return nil, ErrUnauthenticated
	}

	sess := &Session{
		ID:       claims.ID,
		UserID:   d.UserID,
		Username: d.Username,
		FullName: d.FullName,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// Destroy 刪除 session，無效或已註銷的 token 不視為錯誤
func (s *RedisSessions) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	// 過期的 token 仍要能清掉殘留的 key，只驗簽章
	claims, err := s.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	if err := s.cache.Del(ctx, sessionKey(claims.ID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
