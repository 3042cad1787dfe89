package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"xrpl-signer/pkg/config"
	"xrpl-signer/pkg/definitions"
	"xrpl-signer/pkg/transaction"
	"xrpl-signer/pkg/wallet/types"
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "离线签名交易 (Offline Signing)",
	Long:  `读取未签名的交易 JSON 文件 (tx_json)，使用种子或 Keystore 签名，输出 tx_blob 和交易哈希。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile, _ := cmd.Flags().GetString("input")
		outputFile, _ := cmd.Flags().GetString("output")
		seed, _ := cmd.Flags().GetString("seed")
		keystoreFile, _ := cmd.Flags().GetString("keystore")
		amountXRP, _ := cmd.Flags().GetString("amount-xrp")

		// 1. 读取未签名交易
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("读取输入文件失败: %w", err)
		}
		var unsignedTx types.UnsignedTransaction
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&unsignedTx); err != nil {
			return fmt.Errorf("解析交易文件失败: %w", err)
		}

		if amountXRP != "" {
			if err := applyAmountXRP(&unsignedTx, amountXRP); err != nil {
				return fmt.Errorf("无效的 XRP 数额 %q: %w", amountXRP, err)
			}
		}

		// 显示交易详情供用户确认 (Verify on Screen)
		fmt.Println("\n================ 待签名交易 ================")
		for _, name := range []string{"TransactionType", "Account", "Destination", "Amount", "Fee", "Sequence", "LastLedgerSequence"} {
			if v, ok := unsignedTx.TxJSON[name]; ok {
				fmt.Printf("%-19s %s\n", name+":", describeField(name, v))
			}
		}
		fmt.Println("============================================")

		// 2. 加载密钥
		if seed == "" {
			if keystoreFile == "" {
				keystoreFile = config.Global.Keystore.Path
			}
			fmt.Printf("\n正在从 %s 加载 Keystore...\n", keystoreFile)
			if seed, err = seedFromKeystore(keystoreFile); err != nil {
				return fmt.Errorf("解密失败 (密码错误?): %w", err)
			}
		}

		svc, reg := newSignerService()
		defer writeMetrics(reg)

		keyID, err := svc.ImportSeed(seed)
		if err != nil {
			return err
		}
		if unsignedTx.KeyID == "" {
			unsignedTx.KeyID = keyID
		}

		// 3. 签名
		signed, err := svc.Sign(context.Background(), &unsignedTx)
		if err != nil {
			return fmt.Errorf("签名失败: %w", err)
		}

		// 4. 输出结果
		outputData, err := json.MarshalIndent(signed, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(outputFile, outputData, 0644); err != nil {
			return fmt.Errorf("保存结果失败: %w", err)
		}

		fmt.Printf("\n✅ 签名成功!\n")
		fmt.Printf("TxHash: %s\n", signed.TxHash)
		fmt.Printf("已保存到: %s\n", outputFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signCmd)
	signCmd.Flags().StringP("input", "i", "unsigned.json", "未签名的交易文件路径")
	signCmd.Flags().StringP("output", "o", "signed.json", "签名后的输出文件路径")
	signCmd.Flags().StringP("seed", "s", "", "种子 (不指定时使用 Keystore)")
	signCmd.Flags().StringP("keystore", "k", "", "Keystore 文件路径 (默认取配置 keystore.path)")
	signCmd.Flags().String("amount-xrp", "", "以 XRP 为单位的转账金额 (如 22.5)，覆盖 tx_json.Amount")
	signCmd.MarkFlagsMutuallyExclusive("seed", "keystore")
}

// applyAmountXRP 把 XRP 数额换算为 drops 写入 Amount
func applyAmountXRP(utx *types.UnsignedTransaction, xrp string) error {
	drops, err := transaction.XRPToDrops(strings.TrimSpace(xrp))
	if err != nil {
		return err
	}
	if utx.TxJSON == nil {
		utx.TxJSON = make(map[string]any)
	}
	utx.TxJSON[definitions.Amount.Name] = strconv.FormatUint(drops, 10)
	return nil
}

// describeField 金额字段同时显示 drops 和 XRP
func describeField(name string, v any) string {
	raw := fmt.Sprint(v)
	if name != definitions.Amount.Name && name != definitions.Fee.Name {
		return raw
	}
	drops, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return raw
	}
	return fmt.Sprintf("%s drops (%s XRP)", raw, transaction.DropsToXRP(drops))
}
