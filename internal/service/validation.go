package service

import (
	"errors"
	"regexp"
	"sort"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,}$`)
)

// validate 為全域共用的 validator，額外註冊 email_address、username 與 password_bytes
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 內建的 email 規則比帳號註冊允許的格式寬鬆，改用固定的正則
	_ = v.RegisterValidation("email_address", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	// max 以字元計算，bcrypt 限制的是位元組
	_ = v.RegisterValidation("password_bytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	return v
}

// 多個欄位同時失敗時依此順序挑出要回報的規則
var tagRank = map[string]int{
	"required":       0,
	"min":            1,
	"password_bytes": 2,
	"email_address":  3,
	"username":       4,
	"gt":             5,
	"gte":            6,
}

// messages 以 tag 為 key，可再以 "Field.tag" 覆寫
type messages map[string]string

func (m messages) lookup(fe validator.FieldError) string {
	if msg, ok := m[fe.StructField()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := m[fe.Tag()]; ok {
		return msg
	}
	return "invalid " + fe.Field()
}

// ValidateStruct 以共用 validator 檢查 s，並把第一個錯誤轉成 *ValidationError
// 非 validator.ValidationErrors 的錯誤原樣回傳
func ValidateStruct(s any, msgs map[string]string) error {
	return toValidationError(validate.Struct(s), msgs)
}

func validatePartial(s any, msgs map[string]string, fields ...string) error {
	return toValidationError(validate.StructPartial(s, fields...), msgs)
}

func toValidationError(err error, msgs map[string]string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	sorted := append(validator.ValidationErrors(nil), verrs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rankOf(sorted[i].Tag()) < rankOf(sorted[j].Tag())
	})
	return invalid(messages(msgs).lookup(sorted[0]))
}

func rankOf(tag string) int {
	if r, ok := tagRank[tag]; ok {
		return r
	}
	return len(tagRank)
}
