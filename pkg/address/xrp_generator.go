package address

import (
	"fmt"

	"xrpl-signer/pkg/crypto_util"
)

// XRPGenerator XRP Ledger 经典地址生成器
type XRPGenerator struct{}

func NewXRPGenerator() *XRPGenerator {
	return &XRPGenerator{}
}

// AccountID 计算公钥对应的账户 ID: RIPEMD160(SHA256(pubKey))
func (g *XRPGenerator) AccountID(pubKeyBytes []byte) (AccountID, error) {
	var id AccountID
	if len(pubKeyBytes) != PublicKeyLength {
		return id, fmt.Errorf("公钥长度必须为 %d 字节, 实际 %d", PublicKeyLength, len(pubKeyBytes))
	}
	copy(id[:], crypto_util.Hash160(pubKeyBytes))
	return id, nil
}
