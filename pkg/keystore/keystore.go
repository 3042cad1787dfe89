package keystore

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/scrypt"

	"xrpl-signer/pkg/crypto_util"
	"xrpl-signer/pkg/errno"
	"xrpl-signer/pkg/keypair"
	"xrpl-signer/pkg/safe_random"
)

// EncryptedKeyJSON 沿用 Keystore V3 的结构风格，加密的内容是种子字符串 (s... / sEd...)。
// Address 明文保存，便于在不解密的情况下确认是哪个账户。
type EncryptedKeyJSON struct {
	Address string     `json:"address"`
	Crypto  CryptoJSON `json:"crypto"`
	Id      string     `json:"id"`      // UUID
	Version int        `json:"version"` // 3
}

type CryptoJSON struct {
	Cipher       string       `json:"cipher"`       // "aes-256-gcm"
	CipherText   string       `json:"ciphertext"`   // Hex string
	CipherParams CipherParams `json:"cipherparams"` // IV
	KDF          string       `json:"kdf"`          // "scrypt"
	KDFParams    KDFParams    `json:"kdfparams"`
	MAC          string       `json:"mac"` // Hex string
}

type CipherParams struct {
	IV string `json:"iv"` // Hex string
}

type KDFParams struct {
	DKLen int    `json:"dklen"` // Derived Key Length (32)
	N     int    `json:"n"`     // Scrypt N
	R     int    `json:"r"`     // Scrypt r (8)
	P     int    `json:"p"`     // Scrypt p (1)
	Salt  string `json:"salt"`  // Hex string
}

const (
	StandardScryptN = 1 << 18
	LightScryptN    = 1 << 12

	// MaxScryptN 解密时允许的最大 N，超过的文件视为损坏或恶意构造
	MaxScryptN = 1 << 20

	scryptR     = 8
	scryptP     = 1
	scryptDKLen = 32
)

// EncryptSeed 使用密码加密种子，KDF 强度为 StandardScryptN
func EncryptSeed(seed, password string) (*EncryptedKeyJSON, error) {
	return EncryptSeedWithN(seed, password, StandardScryptN)
}

// EncryptSeedWithN 同 EncryptSeed，可指定 scrypt N (测试或低配设备用 LightScryptN)
func EncryptSeedWithN(seed, password string, scryptN int) (*EncryptedKeyJSON, error) {
	addr, err := seedAddress(seed)
	if err != nil {
		return nil, err
	}

	// 1. 随机 Salt
	salt, err := safe_random.GenerateRandomBytes(32)
	if err != nil {
		return nil, err
	}

	// 2. Scrypt 派生 AES-256 密钥
	derivedKey, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, err
	}

	// 3. AES-256-GCM 加密，地址作为附加认证数据
	sealed, err := crypto_util.EncryptAESGCM(derivedKey, []byte(seed), []byte(addr))
	if err != nil {
		return nil, err
	}
	nonce, ciphertext := sealed[:crypto_util.GCMNonceSize], sealed[crypto_util.GCMNonceSize:]

	// 4. MAC = SHA256(derivedKey + ciphertext)，用于快速判断密码是否正确
	mac := computeMAC(derivedKey, ciphertext)

	id, err := generateUUID()
	if err != nil {
		return nil, err
	}

	return &EncryptedKeyJSON{
		Address: addr,
		Version: 3,
		Id:      id,
		Crypto: CryptoJSON{
			Cipher:     "aes-256-gcm",
			CipherText: hex.EncodeToString(ciphertext),
			CipherParams: CipherParams{
				IV: hex.EncodeToString(nonce),
			},
			KDF: "scrypt",
			KDFParams: KDFParams{
				DKLen: scryptDKLen,
				N:     scryptN,
				R:     scryptR,
				P:     scryptP,
				Salt:  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(mac),
		},
	}, nil
}

// DecryptSeed 解密 Keystore 得到种子，并确认种子派生出的地址与记录一致
func DecryptSeed(keyJSON *EncryptedKeyJSON, password string) (string, error) {
	if keyJSON.Crypto.KDF != "scrypt" || keyJSON.Crypto.Cipher != "aes-256-gcm" {
		return "", fmt.Errorf("不支持的 keystore 参数: %s / %s", keyJSON.Crypto.KDF, keyJSON.Crypto.Cipher)
	}

	salt, err := hex.DecodeString(keyJSON.Crypto.KDFParams.Salt)
	if err != nil {
		return "", fmt.Errorf("invalid salt: %w", err)
	}
	nonce, err := hex.DecodeString(keyJSON.Crypto.CipherParams.IV)
	if err != nil {
		return "", fmt.Errorf("invalid iv: %w", err)
	}
	ciphertext, err := hex.DecodeString(keyJSON.Crypto.CipherText)
	if err != nil {
		return "", fmt.Errorf("invalid ciphertext: %w", err)
	}
	mac, err := hex.DecodeString(keyJSON.Crypto.MAC)
	if err != nil {
		return "", fmt.Errorf("invalid mac: %w", err)
	}

	params := keyJSON.Crypto.KDFParams
	if err := checkKDFParams(params); err != nil {
		return "", err
	}
	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return "", err
	}

	if subtle.ConstantTimeCompare(mac, computeMAC(derivedKey, ciphertext)) != 1 {
		return "", errno.ErrKeystoreDecrypt.WithField("mac")
	}

	sealed := append(append([]byte(nil), nonce...), ciphertext...)
	plaintext, err := crypto_util.DecryptAESGCM(derivedKey, sealed, []byte(keyJSON.Address))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errno.ErrKeystoreDecrypt, err)
	}

	seed := string(plaintext)
	addr, err := seedAddress(seed)
	if err != nil {
		return "", err
	}
	if addr != keyJSON.Address {
		return "", errno.ErrKeystoreDecrypt.WithField("address")
	}
	return seed, nil
}

// SaveToFile 保存到文件
func (k *EncryptedKeyJSON) SaveToFile(filename string) error {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600) // 0600 is important
}

// LoadFromFile 从文件加载
func LoadFromFile(filename string) (*EncryptedKeyJSON, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var k EncryptedKeyJSON
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("解析 keystore 失败: %w", err)
	}
	return &k, nil
}

// --- Helpers ---

func seedAddress(seed string) (string, error) {
	_, addr, err := keypair.Derive(seed)
	return addr, err
}

func computeMAC(derivedKey, ciphertext []byte) []byte {
	h := sha256.New()
	h.Write(derivedKey)
	h.Write(ciphertext)
	return h.Sum(nil)
}

// checkKDFParams 只接受本包写出的 r / p / dklen，N 必须是 2 的幂且不超过 MaxScryptN
func checkKDFParams(p KDFParams) error {
	switch {
	case p.DKLen != scryptDKLen:
		return errno.ErrKeystoreDecrypt.WithField("kdfparams.dklen")
	case p.R != scryptR:
		return errno.ErrKeystoreDecrypt.WithField("kdfparams.r")
	case p.P != scryptP:
		return errno.ErrKeystoreDecrypt.WithField("kdfparams.p")
	case p.N <= 1 || p.N > MaxScryptN || p.N&(p.N-1) != 0:
		return errno.ErrKeystoreDecrypt.WithField("kdfparams.n")
	}
	return nil
}

func generateUUID() (string, error) {
	id, err := uuid.NewRandomFromReader(safe_random.Reader)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
