package keypair

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"xrpl-signer/pkg/address"
	"xrpl-signer/pkg/crypto_util"
	"xrpl-signer/pkg/errno"
)

// Ed25519KeyPair 实现 KeyPair 接口
type Ed25519KeyPair struct {
	priv ed25519.PrivateKey
	pub  []byte
}

// NewEd25519KeyPair 由 32 字节原始私钥构造密钥对
func NewEd25519KeyPair(rawPrivKey []byte) (*Ed25519KeyPair, error) {
	if len(rawPrivKey) != ed25519.SeedSize {
		return nil, fmt.Errorf("私钥长度必须为 %d 字节, 实际 %d", ed25519.SeedSize, len(rawPrivKey))
	}
	priv := ed25519.NewKeyFromSeed(rawPrivKey)
	pub := make([]byte, 0, address.PublicKeyLength)
	pub = append(pub, ed25519PublicKeyPrefix)
	pub = append(pub, priv.Public().(ed25519.PublicKey)...)
	return &Ed25519KeyPair{priv: priv, pub: pub}, nil
}

// deriveEd25519 私钥 = SHA512Half(entropy)
func deriveEd25519(entropy []byte) (*Ed25519KeyPair, error) {
	raw := crypto_util.SHA512Half(entropy)
	return NewEd25519KeyPair(raw[:])
}

func (k *Ed25519KeyPair) Algorithm() address.KeyAlgorithm {
	return address.AlgorithmEd25519
}

func (k *Ed25519KeyPair) PublicKey() []byte {
	return append([]byte(nil), k.pub...)
}

func (k *Ed25519KeyPair) PrivateKeyHex() string {
	return "ED" + strings.ToUpper(hex.EncodeToString(k.priv.Seed()))
}

func (k *Ed25519KeyPair) AccountID() address.AccountID {
	var id address.AccountID
	copy(id[:], crypto_util.Hash160(k.pub))
	return id
}

func (k *Ed25519KeyPair) Address() string {
	return address.EncodeClassicAddress(k.AccountID())
}

// Sign 纯 Ed25519 签名，本身即是确定性的
func (k *Ed25519KeyPair) Sign(message []byte) ([]byte, error) {
	if err := checkPublicKeyCurve(k.pub, address.AlgorithmEd25519); err != nil {
		return nil, err
	}
	return ed25519.Sign(k.priv, message), nil
}

func verifyEd25519(pub, message, signature []byte) error {
	if !ed25519.Verify(ed25519.PublicKey(pub[1:]), message, signature) {
		return errno.ErrInvalidSignature
	}
	return nil
}
