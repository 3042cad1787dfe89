package safe_random

import (
	"crypto/rand"
	"fmt"
	"io"
)

// Reader 是一个全局共享的加密安全随机数生成器实例。
// 默认为 crypto/rand.Reader，测试中可替换为固定字节流。
var Reader io.Reader = rand.Reader

// GenerateRandomBytes 从 Reader 读取指定长度的安全随机字节切片。
// 读取不足 n 字节时返回错误。
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(Reader, b); err != nil {
		return nil, fmt.Errorf("生成随机字节失败: %w", err)
	}
	return b, nil
}
