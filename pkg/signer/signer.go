package signer

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"xrpl-signer/pkg/address"
	"xrpl-signer/pkg/binarycodec"
	"xrpl-signer/pkg/crypto_util"
	"xrpl-signer/pkg/definitions"
	"xrpl-signer/pkg/errno"
	"xrpl-signer/pkg/keypair"
	"xrpl-signer/pkg/transaction"
)

// 哈希前缀
var (
	// "STX\0" 单签交易的签名数据
	transactionSigPrefix = []byte{0x53, 0x54, 0x58, 0x00}
	// "TXN\0" 交易 ID
	transactionIDPrefix = []byte{0x54, 0x58, 0x4e, 0x00}
)

// SignedTransaction 已签名、可直接提交的交易
type SignedTransaction struct {
	Transaction *transaction.Transaction
	Encoded     binarycodec.EncodedTransaction
	Signature   []byte
	// Hash 交易 ID (大写十六进制)
	Hash string
}

// Blob 小写十六进制的签名交易
func (s *SignedTransaction) Blob() string {
	return s.Encoded.Hex()
}

// SigningData 签名前缀 + 不含签名字段的规范编码
func SigningData(tx *transaction.Transaction) ([]byte, error) {
	encoded, err := binarycodec.Encode(tx, false)
	if err != nil {
		return nil, err
	}
	data := make([]byte, 0, len(transactionSigPrefix)+len(encoded))
	data = append(data, transactionSigPrefix...)
	return append(data, encoded...), nil
}

// SigningHash SHA512Half(签名数据)
func SigningHash(tx *transaction.Transaction) ([32]byte, error) {
	data, err := SigningData(tx)
	if err != nil {
		return [32]byte{}, err
	}
	return crypto_util.SHA512Half(data), nil
}

// TxHash 交易 ID = SHA512Half("TXN\0" ‖ 签名后的 blob)
func TxHash(signed []byte) string {
	hash := crypto_util.SHA512Half(transactionIDPrefix, signed)
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}

// Sign 用密钥对签名交易，不修改传入的 tx。
//  1. 校验曲线、必填字段以及 Account 与密钥对应
//  2. 写入 SigningPubKey，对签名数据签名
//  3. 写入 TxnSignature，重新编码得到 blob 和交易 ID
func Sign(tx *transaction.Transaction, kp keypair.KeyPair) (*SignedTransaction, error) {
	if err := keypair.CheckCurve(kp); err != nil {
		return nil, err
	}
	if err := checkPresetSigningKey(tx, kp); err != nil {
		return nil, err
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	account, ok := tx.Account()
	if !ok {
		return nil, errno.ErrMissingRequiredField.WithField(definitions.Account.Name)
	}
	if account != kp.AccountID() {
		return nil, errno.ErrSigningKeyMismatch.WithField(definitions.Account.Name)
	}

	signed := tx.Clone()
	signed.Put(definitions.SigningPubKey, kp.PublicKey())
	signed.Delete(definitions.TxnSignature)

	data, err := SigningData(signed)
	if err != nil {
		return nil, err
	}
	signature, err := kp.Sign(data)
	if err != nil {
		return nil, fmt.Errorf("签名失败: %w", err)
	}
	signed.Put(definitions.TxnSignature, signature)

	encoded, err := binarycodec.Encode(signed, true)
	if err != nil {
		return nil, err
	}
	return &SignedTransaction{
		Transaction: signed,
		Encoded:     encoded,
		Signature:   signature,
		Hash:        TxHash(encoded),
	}, nil
}

// checkPresetSigningKey 调用方预先填了 SigningPubKey 时，曲线和公钥都必须与密钥对一致
func checkPresetSigningKey(tx *transaction.Transaction, kp keypair.KeyPair) error {
	preset, ok := tx.Bytes(definitions.SigningPubKey)
	if !ok || len(preset) == 0 {
		return nil
	}
	alg, err := keypair.AlgorithmOf(preset)
	if err != nil || alg != kp.Algorithm() {
		return errno.ErrCurveMismatch.WithField(definitions.SigningPubKey.Name)
	}
	if !bytes.Equal(preset, kp.PublicKey()) {
		return errno.ErrSigningKeyMismatch.WithField(definitions.SigningPubKey.Name)
	}
	return nil
}

// Verify 用交易内嵌的 SigningPubKey 验证 TxnSignature，
// 并确认公钥对应的账户就是 Account
func Verify(tx *transaction.Transaction) error {
	pub, ok := tx.Bytes(definitions.SigningPubKey)
	if !ok || len(pub) == 0 {
		return errno.ErrMissingRequiredField.WithField(definitions.SigningPubKey.Name)
	}
	sig, ok := tx.Bytes(definitions.TxnSignature)
	if !ok || len(sig) == 0 {
		return errno.ErrMissingRequiredField.WithField(definitions.TxnSignature.Name)
	}

	data, err := SigningData(tx)
	if err != nil {
		return err
	}
	if err := keypair.Verify(pub, data, sig); err != nil {
		return err
	}

	account, ok := tx.Account()
	if !ok {
		return errno.ErrMissingRequiredField.WithField(definitions.Account.Name)
	}
	signer, err := address.NewXRPGenerator().AccountID(pub)
	if err != nil {
		return err
	}
	if signer != account {
		return errno.ErrSigningKeyMismatch.WithField(definitions.Account.Name)
	}
	return nil
}

// VerifyBlob 解码十六进制 blob 并验证签名
func VerifyBlob(blob string) (*transaction.Transaction, error) {
	tx, err := binarycodec.DecodeHex(blob)
	if err != nil {
		return nil, err
	}
	if err := Verify(tx); err != nil {
		return tx, err
	}
	return tx, nil
}
