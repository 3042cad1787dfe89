package signer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xrpl-signer/pkg/address"
	"xrpl-signer/pkg/binarycodec"
	"xrpl-signer/pkg/definitions"
	"xrpl-signer/pkg/errno"
	"xrpl-signer/pkg/keypair"
	"xrpl-signer/pkg/transaction"
)

const (
	secpSeed    = "snoPBrXtMeMyMHUVTgbuqAfg1SUTb"
	secpAddress = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	edSeed      = "sEd7gsxCwikqZ9C81bjKMFNM9xoReYU"
	edAddress   = "rfhWbXmBpxqjUWfqVv34t4pHJHs6YDFKCN"
)

// 固定输入下的签名结果，用于回归确定性签名
var signVectors = []struct {
	name        string
	seed        string
	account     string
	destination string
	signature   string
	blob        string
	hash        string
}{
	{
		name:        "secp256k1",
		seed:        secpSeed,
		account:     secpAddress,
		destination: edAddress,
		signature: "3045022100D920390B0CD3C805CC1BFA11568D9F2901827D51480B04D1AAAB769CBA39D50C" +
			"02206B5DE54342891097F63780C69EA4A48229F9DEBC3203A004B3880D5BAF93F69F",
		blob: "12000024000000016140000000014fb18068400000000000000a" +
			"73210330e7fc9d56bb25d6893ba3f317ae5bcf33b3291bd63db32654a313222f7fd020" +
			"74473045022100d920390b0cd3c805cc1bfa11568d9f2901827d51480b04d1aaab769cba39d50c" +
			"02206b5de54342891097f63780c69ea4a48229f9debc3203a004b3880d5baf93f69f" +
			"8114b5f762798a53d543a014caf8b297cff8f2f937e8" +
			"8314427ab5218bd14ae6b74253ba42b2fc1614d6b642",
		hash: "473E2CA21C884CEA0E9383ACED484667EDF5B0367A03EAE3D69B9575CB1E4690",
	},
	{
		name:        "ed25519",
		seed:        edSeed,
		account:     edAddress,
		destination: secpAddress,
		signature: "7D99F9EE6D47A669F24CF2D1C42FB64A39BCC1BD74E0A0109D0B012837C35811" +
			"5489024ADF5C343404AFB4D9CD8472F75BE8B6B3D7B5D8A0779791400B401C0F",
		blob: "12000024000000016140000000014fb18068400000000000000a" +
			"7321ed5768f8b94aa0eb43bdf91d75e03fef9205d44456cc6a6bcef9e276f0c491e342" +
			"74407d99f9ee6d47a669f24cf2d1c42fb64a39bcc1bd74e0a0109d0b012837c358115489024adf5c343404afb4d9cd8472f75be8b6b3d7b5d8a0779791400b401c0f" +
			"8114427ab5218bd14ae6b74253ba42b2fc1614d6b642" +
			"8314b5f762798a53d543a014caf8b297cff8f2f937e8",
		hash: "5D0BCFA42F2BB03057AEA08CC039908462D5A09DC22A5BB2B07F534EEF106167",
	},
}

func payment(t *testing.T, account, destination string) *transaction.Transaction {
	t.Helper()
	tx, err := transaction.Build(map[string]any{
		"TransactionType": "Payment",
		"Account":         account,
		"Destination":     destination,
		"Amount":          22_000_000,
		"Sequence":        1,
		"Fee":             "10",
	})
	require.NoError(t, err)
	return tx
}

func TestSign_PinnedVectors(t *testing.T) {
	for _, v := range signVectors {
		t.Run(v.name, func(t *testing.T) {
			kp, addr, err := keypair.Derive(v.seed)
			require.NoError(t, err)
			require.Equal(t, v.account, addr)

			signed, err := Sign(payment(t, v.account, v.destination), kp)
			require.NoError(t, err)

			assert.Equal(t, v.signature, strings.ToUpper(binarycodec.EncodedTransaction(signed.Signature).Hex()))
			assert.Equal(t, v.blob, signed.Blob())
			assert.Equal(t, v.hash, signed.Hash)
		})
	}
}

// 种子 → 地址 → 转账 → 签名 → blob 解码回来仍能验证
func TestSign_EndToEnd(t *testing.T) {
	for _, v := range signVectors {
		t.Run(v.name, func(t *testing.T) {
			kp, addr, err := keypair.Derive(v.seed)
			require.NoError(t, err)

			signed, err := Sign(payment(t, addr, v.destination), kp)
			require.NoError(t, err)

			decoded, err := VerifyBlob(signed.Blob())
			require.NoError(t, err)

			account, _ := decoded.Account()
			assert.Equal(t, addr, account.String())
			dest, _ := decoded.AccountID(definitions.Destination)
			assert.Equal(t, v.destination, dest.String())
			amount, _ := decoded.Drops(definitions.Amount)
			assert.Equal(t, uint64(22_000_000), amount)
			seq, _ := decoded.Uint32(definitions.Sequence)
			assert.Equal(t, uint32(1), seq)
			fee, _ := decoded.Drops(definitions.Fee)
			assert.Equal(t, uint64(10), fee)

			pub, _ := decoded.Bytes(definitions.SigningPubKey)
			assert.Equal(t, kp.PublicKey(), pub)
		})
	}
}

func TestSign_Deterministic(t *testing.T) {
	for _, v := range signVectors {
		kp, _, err := keypair.Derive(v.seed)
		require.NoError(t, err)
		tx := payment(t, v.account, v.destination)

		first, err := Sign(tx, kp)
		require.NoError(t, err)
		second, err := Sign(tx, kp)
		require.NoError(t, err)
		assert.Equal(t, first.Signature, second.Signature)
		assert.Equal(t, first.Blob(), second.Blob())
	}
}

func TestSign_DoesNotMutateInput(t *testing.T) {
	kp, _, err := keypair.Derive(secpSeed)
	require.NoError(t, err)
	tx := payment(t, secpAddress, edAddress)

	_, err = Sign(tx, kp)
	require.NoError(t, err)
	assert.False(t, tx.Has(definitions.SigningPubKey))
	assert.False(t, tx.Has(definitions.TxnSignature))
}

// 签名数据的任意单字节被改动后验证都必须失败
func TestVerify_SingleByteTamper(t *testing.T) {
	for _, v := range signVectors {
		t.Run(v.name, func(t *testing.T) {
			kp, _, err := keypair.Derive(v.seed)
			require.NoError(t, err)
			signed, err := Sign(payment(t, v.account, v.destination), kp)
			require.NoError(t, err)

			data, err := SigningData(signed.Transaction)
			require.NoError(t, err)
			require.NoError(t, keypair.Verify(kp.PublicKey(), data, signed.Signature))

			for i := range data {
				tampered := append([]byte(nil), data...)
				tampered[i] ^= 0x80
				err := keypair.Verify(kp.PublicKey(), tampered, signed.Signature)
				assert.True(t, errors.Is(err, errno.ErrInvalidSignature), "byte %d", i)
			}
		})
	}
}

func TestVerify_TamperedTransaction(t *testing.T) {
	kp, _, err := keypair.Derive(secpSeed)
	require.NoError(t, err)
	signed, err := Sign(payment(t, secpAddress, edAddress), kp)
	require.NoError(t, err)

	tampered := signed.Transaction.Clone()
	tampered.Put(definitions.Amount, uint64(22_000_001))
	assert.True(t, errors.Is(Verify(tampered), errno.ErrInvalidSignature))

	unsigned := signed.Transaction.Clone()
	unsigned.Delete(definitions.TxnSignature)
	assert.True(t, errors.Is(Verify(unsigned), errno.ErrMissingRequiredField))
}

func TestVerify_ForeignAccount(t *testing.T) {
	kp, _, err := keypair.Derive(secpSeed)
	require.NoError(t, err)
	signed, err := Sign(payment(t, secpAddress, edAddress), kp)
	require.NoError(t, err)

	// 签名本身有效，但签名公钥不属于 Account
	other := signed.Transaction.Clone()
	edID, err := address.DecodeClassicAddress(edAddress)
	require.NoError(t, err)
	other.Put(definitions.Account, edID)
	other.Delete(definitions.TxnSignature)
	data, err := SigningData(other)
	require.NoError(t, err)
	sig, err := kp.Sign(data)
	require.NoError(t, err)
	other.Put(definitions.TxnSignature, sig)

	assert.True(t, errors.Is(Verify(other), errno.ErrSigningKeyMismatch))
}

func TestSign_SigningKeyMismatch(t *testing.T) {
	kp, _, err := keypair.Derive(secpSeed)
	require.NoError(t, err)

	_, err = Sign(payment(t, edAddress, secpAddress), kp)
	assert.True(t, errors.Is(err, errno.ErrSigningKeyMismatch))
}

func TestSign_MissingRequiredField(t *testing.T) {
	kp, _, err := keypair.Derive(secpSeed)
	require.NoError(t, err)

	tx := payment(t, secpAddress, edAddress)
	tx.Delete(definitions.Fee)
	_, err = Sign(tx, kp)
	assert.True(t, errors.Is(err, errno.ErrMissingRequiredField))
}

func TestSign_Unencodable(t *testing.T) {
	kp, _, err := keypair.Derive(secpSeed)
	require.NoError(t, err)

	tx := payment(t, secpAddress, edAddress)
	tx.Put(definitions.Amount, transaction.MaxDrops+1)
	_, err = Sign(tx, kp)
	assert.True(t, errors.Is(err, errno.ErrUnencodableValue))
}

type mislabeledKeyPair struct {
	keypair.KeyPair
}

func (m mislabeledKeyPair) Algorithm() address.KeyAlgorithm {
	return address.AlgorithmSecp256k1
}

func TestSign_CurveMismatch(t *testing.T) {
	ed, _, err := keypair.Derive(edSeed)
	require.NoError(t, err)
	secp, _, err := keypair.Derive(secpSeed)
	require.NoError(t, err)

	// 密钥材料与声明的曲线不一致
	_, err = Sign(payment(t, edAddress, secpAddress), mislabeledKeyPair{ed})
	assert.True(t, errors.Is(err, errno.ErrCurveMismatch))

	// 预置的 SigningPubKey 属于另一条曲线
	tx := payment(t, secpAddress, edAddress)
	tx.Put(definitions.SigningPubKey, ed.PublicKey())
	_, err = Sign(tx, secp)
	assert.True(t, errors.Is(err, errno.ErrCurveMismatch))
}

func TestTxHash(t *testing.T) {
	signed, err := binarycodec.DecodeHex(signVectors[0].blob)
	require.NoError(t, err)
	encoded, err := binarycodec.Encode(signed, true)
	require.NoError(t, err)
	assert.Equal(t, signVectors[0].hash, TxHash(encoded))
}
