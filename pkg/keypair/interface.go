package keypair

import (
	"xrpl-signer/pkg/address"
	"xrpl-signer/pkg/errno"
)

// KeyPair 由种子确定性派生的密钥对，曲线算法是它的固有属性
type KeyPair interface {
	// Algorithm 返回曲线算法
	Algorithm() address.KeyAlgorithm
	// PublicKey 返回 33 字节公钥 (压缩 secp256k1 点或 0xED 前缀的 ed25519 公钥)
	PublicKey() []byte
	// PrivateKeyHex 返回带 00 / ED 前缀的大写十六进制私钥
	PrivateKeyHex() string
	// AccountID 返回公钥对应的 20 字节账户 ID
	AccountID() address.AccountID
	// Address 返回经典地址 (r...)
	Address() string
	// Sign 对签名数据签名。secp256k1 先做 SHA512Half 再做确定性 ECDSA，
	// ed25519 直接对数据签名。
	Sign(message []byte) ([]byte, error)
}

const ed25519PublicKeyPrefix = 0xed

// CheckCurve 校验公钥格式与声明的算法是否一致
func CheckCurve(kp KeyPair) error {
	pub := kp.PublicKey()
	if len(pub) != address.PublicKeyLength {
		return errno.ErrCurveMismatch.WithField("PublicKey")
	}
	return checkPublicKeyCurve(pub, kp.Algorithm())
}

// AlgorithmOf 根据公钥前缀判断曲线算法
func AlgorithmOf(pub []byte) (address.KeyAlgorithm, error) {
	if len(pub) != address.PublicKeyLength {
		return "", errno.ErrCurveMismatch.WithField("PublicKey")
	}
	switch pub[0] {
	case ed25519PublicKeyPrefix:
		return address.AlgorithmEd25519, nil
	case 0x02, 0x03:
		return address.AlgorithmSecp256k1, nil
	default:
		return "", errno.ErrCurveMismatch.WithField("PublicKey")
	}
}

func checkPublicKeyCurve(pub []byte, alg address.KeyAlgorithm) error {
	actual, err := AlgorithmOf(pub)
	if err != nil {
		return err
	}
	if actual != alg {
		return errno.ErrCurveMismatch.WithField(string(alg))
	}
	return nil
}
