package service

import (
	"errors"
	"fmt"
)

// ValidationError 表示輸入缺漏、格式或範圍錯誤
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError 表示 username 或 email 已被使用
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

var (
	// ErrInvalidCredentials 不區分帳號不存在或密碼錯誤
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrNotFound           = errors.New("not found")

	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	ErrItemNotFound = fmt.Errorf("item %w", ErrNotFound)
)

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
