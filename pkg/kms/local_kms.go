package kms

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"xrpl-signer/pkg/address"
	"xrpl-signer/pkg/errno"
	"xrpl-signer/pkg/keypair"
	"xrpl-signer/pkg/signer"
	"xrpl-signer/pkg/transaction"
)

// keyEntry 内部存储结构，包含密钥对 (敏感数据) 和元数据
type keyEntry struct {
	Metadata KeyMetadata
	KeyPair  keypair.KeyPair
}

// LocalKMS 是 KeyManager 接口的本地内存实现
type LocalKMS struct {
	mu   sync.RWMutex
	keys map[string]*keyEntry
	now  func() time.Time
}

// NewLocalKMS 创建一个新的 LocalKMS 实例
func NewLocalKMS() *LocalKMS {
	return &LocalKMS{
		keys: make(map[string]*keyEntry),
		now:  time.Now,
	}
}

// CreateKey 生成新的随机种子并托管派生出的密钥
func (kms *LocalKMS) CreateKey(alg address.KeyAlgorithm) (string, error) {
	seed, err := keypair.GenerateSeed(alg)
	if err != nil {
		return "", fmt.Errorf("生成种子失败: %w", err)
	}
	return kms.ImportSeed(seed)
}

// ImportSeed 从种子派生密钥对并托管，KeyID 即经典地址
func (kms *LocalKMS) ImportSeed(seed string) (string, error) {
	kp, addr, err := keypair.Derive(seed)
	if err != nil {
		return "", err
	}
	return kms.importKeyPair(kp, addr), nil
}

// ImportKeyPair 托管已派生好的密钥对
func (kms *LocalKMS) ImportKeyPair(kp keypair.KeyPair) (string, error) {
	if err := keypair.CheckCurve(kp); err != nil {
		return "", err
	}
	return kms.importKeyPair(kp, kp.Address()), nil
}

func (kms *LocalKMS) importKeyPair(kp keypair.KeyPair, keyID string) string {
	kms.mu.Lock()
	defer kms.mu.Unlock()

	if _, exists := kms.keys[keyID]; exists {
		return keyID
	}
	kms.keys[keyID] = &keyEntry{
		Metadata: KeyMetadata{
			KeyID:     keyID,
			Algorithm: kp.Algorithm(),
			PublicKey: strings.ToUpper(hex.EncodeToString(kp.PublicKey())),
			CreatedAt: kms.now().Unix(),
			Enabled:   true,
		},
		KeyPair: kp,
	}
	return keyID
}

// lookup 调用方需持有读锁
func (kms *LocalKMS) lookup(keyID string) (*keyEntry, error) {
	entry, exists := kms.keys[keyID]
	if !exists {
		return nil, errno.ErrKeyNotFound.WithField(keyID)
	}
	if !entry.Metadata.Enabled {
		return nil, errno.ErrKeyDisabled.WithField(keyID)
	}
	return entry, nil
}

// GetPublicKey 获取指定密钥 ID 的公钥
func (kms *LocalKMS) GetPublicKey(keyID string) ([]byte, error) {
	kms.mu.RLock()
	defer kms.mu.RUnlock()

	entry, err := kms.lookup(keyID)
	if err != nil {
		return nil, err
	}
	return entry.KeyPair.PublicKey(), nil
}

// Sign 签名交易。签名是纯计算，持读锁即可并发执行
func (kms *LocalKMS) Sign(keyID string, tx *transaction.Transaction) (*signer.SignedTransaction, error) {
	kms.mu.RLock()
	entry, err := kms.lookup(keyID)
	kms.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	return signer.Sign(tx, entry.KeyPair)
}

// Verify 验证签名是否有效
func (kms *LocalKMS) Verify(keyID string, data, signature []byte) error {
	pub, err := kms.GetPublicKey(keyID)
	if err != nil {
		return err
	}
	return keypair.Verify(pub, data, signature)
}

// Disable 停用密钥
func (kms *LocalKMS) Disable(keyID string) error {
	kms.mu.Lock()
	defer kms.mu.Unlock()

	entry, exists := kms.keys[keyID]
	if !exists {
		return errno.ErrKeyNotFound.WithField(keyID)
	}
	entry.Metadata.Enabled = false
	return nil
}

// ListKeys 返回所有密钥的元数据
func (kms *LocalKMS) ListKeys() []KeyMetadata {
	kms.mu.RLock()
	defer kms.mu.RUnlock()

	out := make([]KeyMetadata, 0, len(kms.keys))
	for _, entry := range kms.keys {
		out = append(out, entry.Metadata)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KeyID < out[j].KeyID })
	return out
}

var _ KeyManager = (*LocalKMS)(nil)
