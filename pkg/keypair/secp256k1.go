package keypair

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"xrpl-signer/pkg/address"
	"xrpl-signer/pkg/crypto_util"
	"xrpl-signer/pkg/errno"
)

const (
	// 账户族中的第 0 个账户
	accountIndex uint32 = 0

	privateKeyLength = 32
)

// Secp256k1KeyPair 实现 KeyPair 接口，封装 btcec 私钥
type Secp256k1KeyPair struct {
	priv *btcec.PrivateKey
	pub  []byte
}

// NewSecp256k1KeyPair 由 32 字节私钥标量构造密钥对
func NewSecp256k1KeyPair(privKey []byte) (*Secp256k1KeyPair, error) {
	if len(privKey) != privateKeyLength {
		return nil, fmt.Errorf("私钥长度必须为 %d 字节, 实际 %d", privateKeyLength, len(privKey))
	}
	priv, pub := btcec.PrivKeyFromBytes(privKey)
	return &Secp256k1KeyPair{priv: priv, pub: pub.SerializeCompressed()}, nil
}

// deriveSecp256k1 按账户族规则从 16 字节熵派生第 0 个账户的密钥:
// root = 首个合法的 SHA512Half(entropy ‖ seq)，
// tweak = 首个合法的 SHA512Half(rootPub ‖ accountIndex ‖ sub)，
// 账户私钥 = (root + tweak) mod n
func deriveSecp256k1(entropy []byte) (*Secp256k1KeyPair, error) {
	root, err := deriveScalar(entropy, nil)
	if err != nil {
		return nil, err
	}
	rootBytes := root.Bytes()
	_, rootPub := btcec.PrivKeyFromBytes(rootBytes[:])

	index := accountIndex
	tweak, err := deriveScalar(rootPub.SerializeCompressed(), &index)
	if err != nil {
		return nil, err
	}

	var account btcec.ModNScalar
	account.Set(root).Add(tweak)
	accountBytes := account.Bytes()
	return NewSecp256k1KeyPair(accountBytes[:])
}

// deriveScalar 对 data ‖ [discriminator] ‖ counter 重复哈希，
// 直到结果是 (0, n) 范围内的标量
func deriveScalar(data []byte, discriminator *uint32) (*btcec.ModNScalar, error) {
	buf := make([]byte, 0, len(data)+8)
	buf = append(buf, data...)
	if discriminator != nil {
		buf = binary.BigEndian.AppendUint32(buf, *discriminator)
	}
	prefixLen := len(buf)

	for i := uint32(0); i < math.MaxUint32; i++ {
		buf = binary.BigEndian.AppendUint32(buf[:prefixLen], i)
		hash := crypto_util.SHA512Half(buf)

		var scalar btcec.ModNScalar
		overflow := scalar.SetByteSlice(hash[:])
		if !overflow && !scalar.IsZero() {
			return &scalar, nil
		}
	}
	return nil, fmt.Errorf("无法派生合法的私钥标量")
}

func (k *Secp256k1KeyPair) Algorithm() address.KeyAlgorithm {
	return address.AlgorithmSecp256k1
}

func (k *Secp256k1KeyPair) PublicKey() []byte {
	return append([]byte(nil), k.pub...)
}

func (k *Secp256k1KeyPair) PrivateKeyHex() string {
	return "00" + strings.ToUpper(hex.EncodeToString(k.priv.Serialize()))
}

func (k *Secp256k1KeyPair) AccountID() address.AccountID {
	var id address.AccountID
	copy(id[:], crypto_util.Hash160(k.pub))
	return id
}

func (k *Secp256k1KeyPair) Address() string {
	return address.EncodeClassicAddress(k.AccountID())
}

// Sign 对 SHA512Half(message) 做 RFC 6979 确定性 ECDSA 签名，返回 DER 编码 (low-S)
func (k *Secp256k1KeyPair) Sign(message []byte) ([]byte, error) {
	if err := checkPublicKeyCurve(k.pub, address.AlgorithmSecp256k1); err != nil {
		return nil, err
	}
	hash := crypto_util.SHA512Half(message)
	return signHash(k.priv, hash[:]), nil
}

func signHash(priv *btcec.PrivateKey, hash []byte) []byte {
	return ecdsa.Sign(priv, hash).Serialize()
}

func verifySecp256k1(pub, message, signature []byte) error {
	pubKey, err := btcec.ParsePubKey(pub)
	if err != nil {
		return fmt.Errorf("%w: %v", errno.ErrInvalidSignature, err)
	}
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", errno.ErrInvalidSignature, err)
	}
	hash := crypto_util.SHA512Half(message)
	if !sig.Verify(hash[:], pubKey) {
		return errno.ErrInvalidSignature
	}
	return nil
}
