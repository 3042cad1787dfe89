package keypair

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xrpl-signer/pkg/address"
	"xrpl-signer/pkg/errno"
	"xrpl-signer/pkg/safe_random"
)

// 已知种子 → 地址测试向量
var deriveVectors = []struct {
	name      string
	seed      string
	algorithm address.KeyAlgorithm
	address   string
	publicKey string
	private   string
}{
	{
		name:      "genesis secp256k1",
		seed:      "snoPBrXtMeMyMHUVTgbuqAfg1SUTb",
		algorithm: address.AlgorithmSecp256k1,
		address:   "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh",
		publicKey: "0330E7FC9D56BB25D6893BA3F317AE5BCF33B3291BD63DB32654A313222F7FD020",
		private:   "001ACAAEDECE405B2A958212629E16F2EB46B153EEE94CDD350FDEFF52795525B7",
	},
	{
		name:      "ed25519",
		seed:      "sEd7gsxCwikqZ9C81bjKMFNM9xoReYU",
		algorithm: address.AlgorithmEd25519,
		address:   "rfhWbXmBpxqjUWfqVv34t4pHJHs6YDFKCN",
		publicKey: "ED5768F8B94AA0EB43BDF91D75E03FEF9205D44456CC6A6BCEF9E276F0C491E342",
		private:   "ED553F7599E3A15B9C10F87283E05606035DD62FAC72293F823BF6ADAE39A58EE7",
	},
}

func TestDerive_Vectors(t *testing.T) {
	for _, v := range deriveVectors {
		t.Run(v.name, func(t *testing.T) {
			kp, addr, err := Derive(v.seed)
			require.NoError(t, err)

			assert.Equal(t, v.address, addr)
			assert.Equal(t, v.address, kp.Address())
			assert.Equal(t, v.algorithm, kp.Algorithm())
			assert.Len(t, kp.PublicKey(), address.PublicKeyLength)
			assert.Equal(t, v.publicKey, strings.ToUpper(hex.EncodeToString(kp.PublicKey())))
			assert.Equal(t, v.private, kp.PrivateKeyHex())
			assert.NoError(t, CheckCurve(kp))
		})
	}
}

func TestAccountID(t *testing.T) {
	accountIDs := map[string]string{
		"snoPBrXtMeMyMHUVTgbuqAfg1SUTb":   "b5f762798a53d543a014caf8b297cff8f2f937e8",
		"sEd7gsxCwikqZ9C81bjKMFNM9xoReYU": "427ab5218bd14ae6b74253ba42b2fc1614d6b642",
	}
	for _, v := range deriveVectors {
		kp, _, err := Derive(v.seed)
		require.NoError(t, err)

		id := kp.AccountID()
		assert.Equal(t, accountIDs[v.seed], hex.EncodeToString(id[:]), v.name)

		fromPub, err := address.NewXRPGenerator().AccountID(kp.PublicKey())
		require.NoError(t, err)
		assert.Equal(t, fromPub, id)
		assert.Equal(t, v.address, id.String())
	}
}

func TestDerive_Deterministic(t *testing.T) {
	for _, v := range deriveVectors {
		first, addr1, err := Derive(v.seed)
		require.NoError(t, err)
		second, addr2, err := Derive(v.seed)
		require.NoError(t, err)

		assert.Equal(t, addr1, addr2)
		assert.Equal(t, first.PublicKey(), second.PublicKey())
		assert.Equal(t, first.PrivateKeyHex(), second.PrivateKeyHex())
	}
}

func TestDerive_Distinct(t *testing.T) {
	seen := map[string]bool{}
	for i := byte(0); i < 8; i++ {
		entropy := bytes.Repeat([]byte{i}, address.SeedLength)
		for _, alg := range []address.KeyAlgorithm{address.AlgorithmSecp256k1, address.AlgorithmEd25519} {
			kp, err := DeriveFromEntropy(entropy, alg)
			require.NoError(t, err)
			assert.False(t, seen[kp.Address()], "重复地址 %s", kp.Address())
			seen[kp.Address()] = true
		}
	}
}

func TestDerive_InvalidSeed(t *testing.T) {
	_, _, err := Derive("snoPBrXtMeMyMHUVTgbuqAfg1SUTc")
	assert.True(t, errors.Is(err, errno.ErrInvalidSeedEncoding))

	_, err = DeriveFromEntropy(make([]byte, 32), address.AlgorithmEd25519)
	assert.True(t, errors.Is(err, errno.ErrInvalidSeedEncoding))
}

func TestPrivateKeyHexPrefix(t *testing.T) {
	secp, _, err := Derive(deriveVectors[0].seed)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(secp.PrivateKeyHex(), "00"))
	assert.Len(t, secp.PrivateKeyHex(), 66)

	ed, _, err := Derive(deriveVectors[1].seed)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ed.PrivateKeyHex(), "ED"))
	assert.Len(t, ed.PrivateKeyHex(), 66)
}

func TestSignVerify(t *testing.T) {
	msg := []byte("payment from alice to bob")

	for _, v := range deriveVectors {
		t.Run(v.name, func(t *testing.T) {
			kp, _, err := Derive(v.seed)
			require.NoError(t, err)

			sig, err := kp.Sign(msg)
			require.NoError(t, err)
			assert.NoError(t, Verify(kp.PublicKey(), msg, sig))

			// 确定性：同一消息两次签名完全一致
			again, err := kp.Sign(msg)
			require.NoError(t, err)
			assert.Equal(t, sig, again)

			// 篡改任意一个字节都应验证失败
			for i := range msg {
				tampered := append([]byte(nil), msg...)
				tampered[i] ^= 0x01
				err := Verify(kp.PublicKey(), tampered, sig)
				assert.True(t, errors.Is(err, errno.ErrInvalidSignature), "byte %d", i)
			}
		})
	}
}

// RFC 6979 测试向量: 私钥 = 1, 消息 = SHA256("Satoshi Nakamoto")
func TestSecp256k1_DeterministicNonceVector(t *testing.T) {
	priv := make([]byte, 32)
	priv[31] = 1
	kp, err := NewSecp256k1KeyPair(priv)
	require.NoError(t, err)

	hash := sha256.Sum256([]byte("Satoshi Nakamoto"))
	sig := signHash(kp.priv, hash[:])

	expected := "3045022100" +
		"934b1ea10a4b3c1757e2b0c017d0b6143ce3c9a7e6a4a49860d7a6ab210ee3d8" +
		"0220" +
		"2442ce9d2b916064108014783e923ec36b49743e2ffa1c4496f01a512aafd9e5"
	assert.Equal(t, expected, hex.EncodeToString(sig))
}

// RFC 8032 7.1 TEST 1: 空消息
func TestEd25519_RFC8032Vector(t *testing.T) {
	raw, _ := hex.DecodeString("9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60")
	kp, err := NewEd25519KeyPair(raw)
	require.NoError(t, err)

	assert.Equal(t,
		"edd75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a",
		hex.EncodeToString(kp.PublicKey()))

	sig, err := kp.Sign(nil)
	require.NoError(t, err)
	assert.Equal(t,
		"e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b",
		hex.EncodeToString(sig))
}

type mislabeledKeyPair struct {
	KeyPair
}

func (m mislabeledKeyPair) Algorithm() address.KeyAlgorithm {
	return address.AlgorithmSecp256k1
}

func TestCheckCurve_Mismatch(t *testing.T) {
	ed, _, err := Derive(deriveVectors[1].seed)
	require.NoError(t, err)

	err = CheckCurve(mislabeledKeyPair{ed})
	assert.True(t, errors.Is(err, errno.ErrCurveMismatch))

	_, err = AlgorithmOf([]byte{0x04})
	assert.True(t, errors.Is(err, errno.ErrCurveMismatch))
}

func TestGenerateSeed(t *testing.T) {
	orig := safe_random.Reader
	defer func() { safe_random.Reader = orig }()

	safe_random.Reader = bytes.NewReader(make([]byte, address.SeedLength))
	seed, err := GenerateSeed(address.AlgorithmSecp256k1)
	require.NoError(t, err)

	entropy, alg, err := address.DecodeSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, address.AlgorithmSecp256k1, alg)
	assert.Equal(t, make([]byte, address.SeedLength), entropy)

	safe_random.Reader = orig
	a, err := GenerateSeed(address.AlgorithmEd25519)
	require.NoError(t, err)
	b, err := GenerateSeed(address.AlgorithmEd25519)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "sEd"))
}
