package crypto_util

import (
	"crypto/sha512"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ChecksumLength base58check 校验和长度
const ChecksumLength = 4

// SHA512Half 计算 SHA-512 并截取前 32 字节。
// XRP Ledger 中几乎所有哈希 (签名哈希、交易 ID、密钥派生) 都使用它。
func SHA512Half(data ...[]byte) [32]byte {
	h := sha512.New()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil)[:32])
	return out
}

// Hash160 计算 RIPEMD160(SHA256(data))，用于从公钥得到账户 ID
func Hash160(data []byte) []byte {
	return btcutil.Hash160(data)
}

// Checksum 返回 SHA256(SHA256(payload)) 的前 4 字节
func Checksum(payload []byte) []byte {
	return chainhash.DoubleHashB(payload)[:ChecksumLength]
}
