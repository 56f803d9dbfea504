package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultCodeLength 验证码长度
const DefaultCodeLength = 6

const digits = "0123456789"

var digitCount = big.NewInt(int64(len(digits)))

// GenerateCode 生成随机数字验证码，每一位独立均匀地取自 0-9
func GenerateCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid code length %d", length)
	}
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, digitCount)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		code[i] = digits[n.Int64()]
	}
	return string(code), nil
}
