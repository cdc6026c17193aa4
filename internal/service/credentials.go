package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stock-tracker/internal/database"
	"stock-tracker/internal/model"
	"stock-tracker/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Registration 為註冊輸入，Phone 可為空
type Registration struct {
	FullName string `validate:"required"`
	Email    string `validate:"required,email_address"`
	Phone    string
	Username string `validate:"required,username"`
	Password string `validate:"required,min=6,password_bytes"`
}

var registrationMessages = map[string]string{
	"required":       "all required fields must be filled in",
	"min":            "password must be at least 6 characters",
	"password_bytes": "password must be at most 72 bytes",
	"email_address":  "invalid email",
	"username":       "invalid username: use only letters, numbers and underscore (at least 3 characters)",
}

const (
	msgUsernameTaken = "username already exists"
	msgEmailTaken    = "email already registered"
	uniqueViolation  = "23505"
)

// Register 驗證輸入後在單一交易內檢查唯一性並建立使用者
func Register(ctx context.Context, db database.DB, r Registration) (*model.User, error) {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Username = strings.TrimSpace(r.Username)
	r.Password = strings.TrimSpace(r.Password)

	if err := ValidateStruct(r, registrationMessages); err != nil {
		return nil, err
	}

	hash, err := HashPassword(r.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var created *model.User
	err = pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		taken, err := store.UsernameExists(ctx, tx, r.Username)
		if err != nil {
			return err
		}
		if taken {
			return &ConflictError{Message: msgUsernameTaken}
		}
		taken, err = store.EmailExists(ctx, tx, r.Email)
		if err != nil {
			return err
		}
		if taken {
			return &ConflictError{Message: msgEmailTaken}
		}
		created, err = store.CreateUser(ctx, tx, &model.User{
			FullName:     r.FullName,
			Email:        r.Email,
			Phone:        r.Phone,
			Username:     r.Username,
			PasswordHash: hash,
		})
		return err
	})
	if err != nil {
		return nil, classifyUserWrite(err)
	}
	return created, nil
}

// classifyUserWrite 把並發註冊造成的 unique violation 轉成 ConflictError
func classifyUserWrite(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return &ConflictError{Message: msgEmailTaken}
		}
		return &ConflictError{Message: msgUsernameTaken}
	}
	return err
}

// Authenticate 以 username 與密碼驗證身分
// 帳號不存在與密碼錯誤回傳同一個 ErrInvalidCredentials
func Authenticate(ctx context.Context, db database.Querier, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, invalid("username and password are required")
	}
	// 超過上限的密碼不可能被註冊，bcrypt 比對時又只看前 72 bytes
	if len(password) > maxPasswordBytes {
		return nil, ErrInvalidCredentials
	}

	u, err := store.GetUserByUsername(ctx, db, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := ComparePassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetUser 取得目前登入者的資料，帳號已不存在時回傳 ErrUserNotFound
func GetUser(ctx context.Context, db database.Querier, userID int) (*model.User, error) {
	u, err := store.GetUserByID(ctx, db, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
