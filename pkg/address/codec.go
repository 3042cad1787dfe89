package address

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"

	"xrpl-signer/pkg/crypto_util"
	"xrpl-signer/pkg/errno"
)

// XRP Ledger 使用自己的 base58 字母表 (以 'r' 代表 0)
const alphabet = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"

var xrplAlphabet = base58.NewAlphabet(alphabet)

// KeyAlgorithm 种子对应的曲线算法
type KeyAlgorithm string

const (
	AlgorithmSecp256k1 KeyAlgorithm = "secp256k1"
	AlgorithmEd25519   KeyAlgorithm = "ed25519"
)

const (
	// SeedLength 种子熵长度 (字节)
	SeedLength = 16
	// AccountIDLength 账户 ID 长度 (字节)
	AccountIDLength = 20
	// PublicKeyLength 压缩公钥 / 0xED 前缀公钥的长度
	PublicKeyLength = 33
)

// 版本前缀
var (
	accountIDPrefix     = []byte{0x00}
	accountPublicPrefix = []byte{0x23}
	familySeedPrefix    = []byte{0x21}
	ed25519SeedPrefix   = []byte{0x01, 0xe1, 0x4b}
)

// AccountID 公钥 Hash160 得到的 20 字节账户标识
type AccountID [AccountIDLength]byte

// String 返回经典地址 (r...)
func (id AccountID) String() string {
	return EncodeClassicAddress(id)
}

// ParseAlgorithm 解析算法名称
func ParseAlgorithm(name string) (KeyAlgorithm, error) {
	switch KeyAlgorithm(name) {
	case AlgorithmSecp256k1, AlgorithmEd25519:
		return KeyAlgorithm(name), nil
	default:
		return "", fmt.Errorf("不支持的密钥算法: %s", name)
	}
}

// encodeWithChecksum 版本前缀 + 负载 + 4 字节校验和，再做 base58 编码
func encodeWithChecksum(prefix, payload []byte) string {
	buf := make([]byte, 0, len(prefix)+len(payload)+crypto_util.ChecksumLength)
	buf = append(buf, prefix...)
	buf = append(buf, payload...)
	buf = append(buf, crypto_util.Checksum(buf)...)
	return base58.EncodeAlphabet(buf, xrplAlphabet)
}

// decodeWithChecksum 解码并校验，返回去掉校验和的字节
func decodeWithChecksum(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("空字符串")
	}
	raw, err := base58.DecodeAlphabet(s, xrplAlphabet)
	if err != nil {
		return nil, err
	}
	if len(raw) <= crypto_util.ChecksumLength {
		return nil, fmt.Errorf("长度不足: %d", len(raw))
	}
	body := raw[:len(raw)-crypto_util.ChecksumLength]
	if !bytes.Equal(crypto_util.Checksum(body), raw[len(body):]) {
		return nil, fmt.Errorf("校验和不匹配")
	}
	return body, nil
}

// EncodeSeed 将 16 字节熵编码为种子字符串 (s... / sEd...)
func EncodeSeed(entropy []byte, algorithm KeyAlgorithm) (string, error) {
	if len(entropy) != SeedLength {
		return "", errno.ErrInvalidSeedEncoding.WithField("entropy")
	}
	switch algorithm {
	case AlgorithmSecp256k1:
		return encodeWithChecksum(familySeedPrefix, entropy), nil
	case AlgorithmEd25519:
		return encodeWithChecksum(ed25519SeedPrefix, entropy), nil
	default:
		return "", fmt.Errorf("不支持的密钥算法: %s", algorithm)
	}
}

// DecodeSeed 解码种子字符串，返回熵和算法
func DecodeSeed(seed string) ([]byte, KeyAlgorithm, error) {
	body, err := decodeWithChecksum(seed)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", errno.ErrInvalidSeedEncoding, err)
	}

	switch {
	case len(body) == len(ed25519SeedPrefix)+SeedLength && bytes.HasPrefix(body, ed25519SeedPrefix):
		return body[len(ed25519SeedPrefix):], AlgorithmEd25519, nil
	case len(body) == len(familySeedPrefix)+SeedLength && bytes.HasPrefix(body, familySeedPrefix):
		return body[len(familySeedPrefix):], AlgorithmSecp256k1, nil
	default:
		return nil, "", errno.ErrInvalidSeedEncoding
	}
}

// EncodeClassicAddress 将账户 ID 编码为经典地址
func EncodeClassicAddress(id AccountID) string {
	return encodeWithChecksum(accountIDPrefix, id[:])
}

// DecodeClassicAddress 解析经典地址
func DecodeClassicAddress(addr string) (AccountID, error) {
	var id AccountID
	body, err := decodeWithChecksum(addr)
	if err != nil {
		return id, fmt.Errorf("%w: %v", errno.ErrInvalidAddress, err)
	}
	if len(body) != len(accountIDPrefix)+AccountIDLength || body[0] != accountIDPrefix[0] {
		return id, errno.ErrInvalidAddress
	}
	copy(id[:], body[1:])
	return id, nil
}

// IsValidClassicAddress 检查经典地址格式与校验和
func IsValidClassicAddress(addr string) bool {
	_, err := DecodeClassicAddress(addr)
	return err == nil
}

// EncodeAccountPublicKey 将 33 字节公钥编码为 aB... 形式
func EncodeAccountPublicKey(pubKey []byte) (string, error) {
	if len(pubKey) != PublicKeyLength {
		return "", fmt.Errorf("公钥长度必须为 %d 字节, 实际 %d", PublicKeyLength, len(pubKey))
	}
	return encodeWithChecksum(accountPublicPrefix, pubKey), nil
}
