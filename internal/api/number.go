package api

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Number 接受 JSON 數字或以字串表示的數字，保留原文交由 service 解析
type Number string

func (n *Number) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(b, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(strings.TrimSpace(s))
		return nil
	}
	*n = Number(b)
	return nil
}

func (n *Number) jsonNumber() *json.Number {
	if n == nil {
		return nil
	}
	v := json.Number(*n)
	return &v
}
