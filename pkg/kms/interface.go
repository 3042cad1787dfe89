package kms

import (
	"xrpl-signer/pkg/address"
	"xrpl-signer/pkg/signer"
	"xrpl-signer/pkg/transaction"
)

// KeyMetadata 密钥的元数据，不包含私钥和种子
type KeyMetadata struct {
	KeyID     string               `json:"key_id"` // 经典地址
	Algorithm address.KeyAlgorithm `json:"algorithm"`
	PublicKey string               `json:"public_key"` // 大写十六进制
	CreatedAt int64                `json:"created_at"`
	Enabled   bool                 `json:"enabled"`
}

// KeyManager 密钥管理服务。私钥只在内部使用，不离开 KMS 边界；
// 以后可以换成 HSM 或远程签名服务。
type KeyManager interface {
	// CreateKey 生成新种子并返回 KeyID (账户地址)
	CreateKey(alg address.KeyAlgorithm) (string, error)

	// ImportSeed 导入已有种子，重复导入返回同一个 KeyID
	ImportSeed(seed string) (string, error)

	// GetPublicKey 返回 33 字节公钥
	GetPublicKey(keyID string) ([]byte, error)

	// Sign 用 KeyID 对应的密钥签名交易
	Sign(keyID string, tx *transaction.Transaction) (*signer.SignedTransaction, error)

	// Verify 验证 KeyID 对应公钥对数据的签名
	Verify(keyID string, data, signature []byte) error

	// Disable 停用密钥，之后的签名请求返回 ErrKeyDisabled
	Disable(keyID string) error

	// ListKeys 按 KeyID 排序返回所有密钥的元数据
	ListKeys() []KeyMetadata
}
