package bip39

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"xrpl-signer/pkg/address"
)

// MnemonicService 把 16 字节种子熵转换为 12 个 BIP-39 单词作为纸质备份。
// 这里只用 BIP-39 的词表编码，不做 PBKDF2 种子扩展，
// 单词和种子之间是一一对应的。
type MnemonicService struct{}

// NewMnemonicService 创建一个新的助记词服务实例
func NewMnemonicService() *MnemonicService {
	return &MnemonicService{}
}

// EntropyToMnemonic 16 字节熵 → 12 个单词
func (s *MnemonicService) EntropyToMnemonic(entropy []byte) (string, error) {
	if len(entropy) != address.SeedLength {
		return "", fmt.Errorf("熵长度必须为 %d 字节, 实际 %d", address.SeedLength, len(entropy))
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("生成助记词失败: %w", err)
	}
	return mnemonic, nil
}

// MnemonicToEntropy 校验单词和校验位并还原熵
func (s *MnemonicService) MnemonicToEntropy(mnemonic string) ([]byte, error) {
	entropy, err := bip39.EntropyFromMnemonic(normalize(mnemonic))
	if err != nil {
		return nil, fmt.Errorf("助记词无效: %w", err)
	}
	if len(entropy) != address.SeedLength {
		return nil, fmt.Errorf("助记词必须是 12 个单词")
	}
	return entropy, nil
}

// SeedToMnemonic 种子字符串 → 助记词
func (s *MnemonicService) SeedToMnemonic(seed string) (string, error) {
	entropy, _, err := address.DecodeSeed(seed)
	if err != nil {
		return "", err
	}
	return s.EntropyToMnemonic(entropy)
}

// MnemonicToSeed 助记词 → 指定算法的种子字符串。
// 算法不在助记词里，恢复时需要调用方给出。
func (s *MnemonicService) MnemonicToSeed(mnemonic string, alg address.KeyAlgorithm) (string, error) {
	entropy, err := s.MnemonicToEntropy(mnemonic)
	if err != nil {
		return "", err
	}
	return address.EncodeSeed(entropy, alg)
}

// ValidateMnemonic 验证助记词是否有效
func (s *MnemonicService) ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(normalize(mnemonic))
}

func normalize(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}
