package keystore

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xrpl-signer/pkg/errno"
	"xrpl-signer/pkg/safe_random"
)

const (
	testSeed    = "snoPBrXtMeMyMHUVTgbuqAfg1SUTb"
	testAddress = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
)

func TestEncryptDecryptSeed(t *testing.T) {
	password := "secure-password"

	// 1. Encrypt
	keyJSON, err := EncryptSeedWithN(testSeed, password, LightScryptN)
	require.NoError(t, err)
	assert.Equal(t, "aes-256-gcm", keyJSON.Crypto.Cipher)
	assert.Equal(t, testAddress, keyJSON.Address)
	assert.Equal(t, LightScryptN, keyJSON.Crypto.KDFParams.N)
	assert.NotContains(t, keyJSON.Crypto.CipherText, testSeed)

	// 2. Decrypt with correct password
	seed, err := DecryptSeed(keyJSON, password)
	require.NoError(t, err)
	assert.Equal(t, testSeed, seed)

	// 3. Decrypt with wrong password
	_, err = DecryptSeed(keyJSON, "wrong-password")
	assert.True(t, errors.Is(err, errno.ErrKeystoreDecrypt))
}

func TestDecryptSeed_AddressTampered(t *testing.T) {
	keyJSON, err := EncryptSeedWithN(testSeed, "pw", LightScryptN)
	require.NoError(t, err)

	// 地址是附加认证数据，被改动后 GCM 认证失败
	keyJSON.Address = "rfhWbXmBpxqjUWfqVv34t4pHJHs6YDFKCN"
	_, err = DecryptSeed(keyJSON, "pw")
	assert.True(t, errors.Is(err, errno.ErrKeystoreDecrypt))
}

func TestEncryptSeed_InvalidSeed(t *testing.T) {
	_, err := EncryptSeedWithN("not-a-seed", "pw", LightScryptN)
	assert.True(t, errors.Is(err, errno.ErrInvalidSeedEncoding))
}

func TestFileSaveLoad(t *testing.T) {
	password := "123456"
	filename := filepath.Join(t.TempDir(), "wallet.json")

	keyJSON, err := EncryptSeedWithN(testSeed, password, LightScryptN)
	require.NoError(t, err)
	require.NoError(t, keyJSON.SaveToFile(filename))

	loaded, err := LoadFromFile(filename)
	require.NoError(t, err)
	assert.Equal(t, keyJSON.Id, loaded.Id)
	assert.Equal(t, keyJSON.Address, loaded.Address)

	seed, err := DecryptSeed(loaded, password)
	require.NoError(t, err)
	assert.Equal(t, testSeed, seed)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestGenerateUUID(t *testing.T) {
	a, err := generateUUID()
	require.NoError(t, err)
	b, err := generateUUID()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
	assert.Equal(t, byte('4'), a[14])

	// 使用 safe_random.Reader 作为随机源
	orig := safe_random.Reader
	defer func() { safe_random.Reader = orig }()
	safe_random.Reader = bytes.NewReader([]byte{
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	})
	fixed, err := generateUUID()
	require.NoError(t, err)
	assert.Equal(t, "00010203-0405-4607-8809-0a0b0c0d0e0f", fixed)

	_, err = generateUUID()
	assert.Error(t, err)
}

func TestDecryptSeed_RejectsKDFParams(t *testing.T) {
	keyJSON, err := EncryptSeedWithN(testSeed, "pw", LightScryptN)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(p *KDFParams)
	}{
		{"huge n", func(p *KDFParams) { p.N = 1 << 30 }},
		{"n not power of two", func(p *KDFParams) { p.N = LightScryptN + 1 }},
		{"n too small", func(p *KDFParams) { p.N = 1 }},
		{"r", func(p *KDFParams) { p.R = 1 << 20 }},
		{"p", func(p *KDFParams) { p.P = 64 }},
		{"dklen", func(p *KDFParams) { p.DKLen = 1 << 30 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crafted := *keyJSON
			tt.mutate(&crafted.Crypto.KDFParams)
			_, err := DecryptSeed(&crafted, "pw")
			assert.True(t, errors.Is(err, errno.ErrKeystoreDecrypt))
		})
	}

	// 合法范围内的 N 通过参数检查，之后由 MAC 发现派生密钥不对
	crafted := *keyJSON
	crafted.Crypto.KDFParams.N = LightScryptN * 2
	_, err = DecryptSeed(&crafted, "pw")
	var e errno.Errno
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "mac", e.Field)
}
