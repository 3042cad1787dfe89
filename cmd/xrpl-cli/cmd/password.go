package cmd

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"xrpl-signer/pkg/config"
	"xrpl-signer/pkg/keystore"
)

const minPasswordLength = 6

// readPassword 优先使用配置 (XRPL_KEYSTORE_PASSWORD)，否则从终端读取
func readPassword(prompt string) (string, error) {
	if pw := config.Global.Keystore.Password; pw != "" {
		return pw, nil
	}
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	return string(b), nil
}

// readNewPassword 设置新密码，需要输入两次
func readNewPassword() (string, error) {
	if pw := config.Global.Keystore.Password; pw != "" {
		return pw, nil
	}
	password, err := readPassword("输入密码: ")
	if err != nil {
		return "", err
	}
	confirm, err := readPassword("确认密码: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("两次输入的密码不一致")
	}
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("密码长度至少需要 %d 位", minPasswordLength)
	}
	return password, nil
}

// seedFromKeystore 加载并解密 Keystore 文件
func seedFromKeystore(path string) (string, error) {
	encrypted, err := keystore.LoadFromFile(path)
	if err != nil {
		return "", fmt.Errorf("加载 Keystore 失败: %w", err)
	}
	fmt.Printf("Keystore 地址: %s\n", encrypted.Address)
	password, err := readPassword("请输入 Keystore 密码: ")
	if err != nil {
		return "", err
	}
	return keystore.DecryptSeed(encrypted, password)
}
