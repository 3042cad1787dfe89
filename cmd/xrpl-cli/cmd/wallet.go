package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"xrpl-signer/pkg/address"
	"xrpl-signer/pkg/bip39"
	"xrpl-signer/pkg/config"
	"xrpl-signer/pkg/keypair"
	"xrpl-signer/pkg/keystore"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "钱包管理 (生成 / 派生)",
}

var walletNewCmd = &cobra.Command{
	Use:   "new",
	Short: "创建一个新的钱包",
	Long:  `随机生成种子，显示地址、公钥和 BIP-39 备份助记词 (12 词)。指定 --keystore 时同时加密保存种子。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		algName, _ := cmd.Flags().GetString("algorithm")
		keystoreFile, _ := cmd.Flags().GetString("keystore")
		if algName == "" {
			algName = config.Global.Signer.Algorithm
		}
		alg, err := address.ParseAlgorithm(algName)
		if err != nil {
			return err
		}
		if keystoreFile != "" {
			if _, err := os.Stat(keystoreFile); err == nil {
				return fmt.Errorf("文件 %s 已存在，请先删除或指定其他文件名", keystoreFile)
			}
		}

		fmt.Println("正在生成新钱包...")
		seed, err := keypair.GenerateSeed(alg)
		if err != nil {
			return fmt.Errorf("生成种子失败: %w", err)
		}
		if err := printWallet(seed, true); err != nil {
			return err
		}

		if keystoreFile == "" {
			fmt.Println("请妥善保管您的种子和助记词！任何拥有它们的人都可以控制该账户。")
			return nil
		}

		fmt.Println("请设置一个强密码来保护您的种子。")
		password, err := readNewPassword()
		if err != nil {
			return err
		}
		fmt.Println("正在加密保存...")
		encrypted, err := keystore.EncryptSeedWithN(seed, password, config.Global.Keystore.ScryptN)
		if err != nil {
			return fmt.Errorf("加密失败: %w", err)
		}
		if err := encrypted.SaveToFile(keystoreFile); err != nil {
			return fmt.Errorf("保存文件失败: %w", err)
		}
		fmt.Printf("✅ Keystore 已保存到: %s\n", keystoreFile)
		return nil
	},
}

var walletDeriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "从种子、助记词或 Keystore 恢复账户",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetString("seed")
		mnemonic, _ := cmd.Flags().GetString("mnemonic")
		algName, _ := cmd.Flags().GetString("algorithm")
		keystoreFile, _ := cmd.Flags().GetString("keystore")
		showPrivate, _ := cmd.Flags().GetBool("show-private")

		var err error
		switch {
		case seed != "":
		case mnemonic != "":
			if algName == "" {
				algName = config.Global.Signer.Algorithm
			}
			alg, perr := address.ParseAlgorithm(algName)
			if perr != nil {
				return perr
			}
			seed, err = bip39.NewMnemonicService().MnemonicToSeed(mnemonic, alg)
		case keystoreFile != "":
			seed, err = seedFromKeystore(keystoreFile)
		default:
			return errors.New("需要指定 --seed、--mnemonic 或 --keystore 之一")
		}
		if err != nil {
			return err
		}
		return printWallet(seed, showPrivate)
	},
}

// printWallet 打印种子派生出的账户信息
func printWallet(seed string, showSecret bool) error {
	kp, addr, err := keypair.Derive(seed)
	if err != nil {
		return err
	}
	accountPub, err := address.EncodeAccountPublicKey(kp.PublicKey())
	if err != nil {
		return err
	}

	fmt.Println("---------------------------------------------------")
	fmt.Printf("算法 (Algorithm):  %s\n", kp.Algorithm())
	fmt.Printf("地址 (Address):    %s\n", addr)
	fmt.Printf("公钥 (Public Key): %s\n", strings.ToUpper(hex.EncodeToString(kp.PublicKey())))
	fmt.Printf("公钥 (Base58):     %s\n", accountPub)
	if showSecret {
		words, err := bip39.NewMnemonicService().SeedToMnemonic(seed)
		if err != nil {
			return err
		}
		fmt.Println("---------------------------------------------------")
		fmt.Printf("种子 (Seed):       %s\n", seed)
		fmt.Printf("私钥 (Private Key): %s\n", kp.PrivateKeyHex())
		fmt.Printf("助记词 (Mnemonic):\n%s\n", words)
	}
	fmt.Println("---------------------------------------------------")
	return nil
}

func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletNewCmd, walletDeriveCmd)

	walletNewCmd.Flags().StringP("algorithm", "a", "", "密钥算法: secp256k1 | ed25519 (默认取配置)")
	walletNewCmd.Flags().StringP("keystore", "k", "", "加密保存种子的 Keystore 文件路径")

	walletDeriveCmd.Flags().StringP("seed", "s", "", "种子 (s... / sEd...)")
	walletDeriveCmd.Flags().StringP("mnemonic", "m", "", "BIP-39 备份助记词")
	walletDeriveCmd.Flags().StringP("algorithm", "a", "", "助记词对应的密钥算法")
	walletDeriveCmd.Flags().StringP("keystore", "k", "", "Keystore 文件路径")
	walletDeriveCmd.Flags().Bool("show-private", false, "显示种子、私钥和助记词")
	walletDeriveCmd.MarkFlagsMutuallyExclusive("seed", "mnemonic", "keystore")
}
