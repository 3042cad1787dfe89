package keypair

import (
	"fmt"

	"xrpl-signer/pkg/address"
	"xrpl-signer/pkg/errno"
	"xrpl-signer/pkg/safe_random"
)

// Derive 解析种子字符串并派生密钥对与经典地址
func Derive(seed string) (KeyPair, string, error) {
	entropy, alg, err := address.DecodeSeed(seed)
	if err != nil {
		return nil, "", err
	}
	kp, err := DeriveFromEntropy(entropy, alg)
	if err != nil {
		return nil, "", err
	}
	return kp, kp.Address(), nil
}

// DeriveFromEntropy 从 16 字节熵按指定算法派生密钥对
func DeriveFromEntropy(entropy []byte, alg address.KeyAlgorithm) (KeyPair, error) {
	if len(entropy) != address.SeedLength {
		return nil, errno.ErrInvalidSeedEncoding.WithField("entropy")
	}

	switch alg {
	case address.AlgorithmSecp256k1:
		return deriveSecp256k1(entropy)
	case address.AlgorithmEd25519:
		return deriveEd25519(entropy)
	default:
		return nil, fmt.Errorf("不支持的密钥算法: %s", alg)
	}
}

// GenerateSeed 生成一个新的随机种子
func GenerateSeed(alg address.KeyAlgorithm) (string, error) {
	entropy, err := safe_random.GenerateRandomBytes(address.SeedLength)
	if err != nil {
		return "", err
	}
	return address.EncodeSeed(entropy, alg)
}

// Verify 使用 33 字节公钥验证签名，曲线由公钥前缀决定
func Verify(publicKey, message, signature []byte) error {
	alg, err := AlgorithmOf(publicKey)
	if err != nil {
		return err
	}
	if alg == address.AlgorithmEd25519 {
		return verifyEd25519(publicKey, message, signature)
	}
	return verifySecp256k1(publicKey, message, signature)
}
