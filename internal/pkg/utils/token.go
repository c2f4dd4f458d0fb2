package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateShareToken 生成联系人外链令牌
// 32 字节随机数的 URL-safe base64，不可猜测，同一输入重复调用也不相同
func GenerateShareToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("生成分享令牌失败: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
