package backup

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/hashicorp/vault/shamir"

	"xrpl-signer/pkg/address"
)

// SplitSeed 将种子切分为 parts 份，至少 threshold 份才能恢复。
// 切分的是种子字符串本身，恢复时可以用 base58 校验和发现错误的份额组合。
func SplitSeed(seed string, parts, threshold int) ([]string, error) {
	if _, _, err := address.DecodeSeed(seed); err != nil {
		return nil, err
	}

	sharesBytes, err := shamir.Split([]byte(seed), parts, threshold)
	if err != nil {
		return nil, fmt.Errorf("split seed: %w", err)
	}

	// Share 的最后一个字节是 X 坐标
	shares := make([]string, 0, len(sharesBytes))
	for _, share := range sharesBytes {
		shares = append(shares, hex.EncodeToString(share))
	}
	return shares, nil
}

// CombineSeed 从份额恢复种子
func CombineSeed(sharesHex []string) (string, error) {
	sharesBytes := make([][]byte, 0, len(sharesHex))
	for _, s := range sharesHex {
		b, err := hex.DecodeString(strings.TrimSpace(s))
		if err != nil {
			return "", fmt.Errorf("invalid share hex: %v", err)
		}
		sharesBytes = append(sharesBytes, b)
	}

	secret, err := shamir.Combine(sharesBytes)
	if err != nil {
		return "", fmt.Errorf("combine shares: %w", err)
	}

	// 份额不足或来自不同的种子时得到的是随机字节
	seed := string(secret)
	if _, _, err := address.DecodeSeed(seed); err != nil {
		return "", err
	}
	return seed, nil
}
