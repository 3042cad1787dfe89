package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"xrpl-signer/pkg/backup"
)

var walletSplitCmd = &cobra.Command{
	Use:   "split",
	Short: "把种子切分为 Shamir 份额 (M-of-N 备份)",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetString("seed")
		keystoreFile, _ := cmd.Flags().GetString("keystore")
		parts, _ := cmd.Flags().GetInt("parts")
		threshold, _ := cmd.Flags().GetInt("threshold")

		var err error
		if seed == "" {
			if keystoreFile == "" {
				return errors.New("需要指定 --seed 或 --keystore")
			}
			if seed, err = seedFromKeystore(keystoreFile); err != nil {
				return err
			}
		}

		shares, err := backup.SplitSeed(seed, parts, threshold)
		if err != nil {
			return err
		}
		fmt.Printf("已切分为 %d 份，任意 %d 份可恢复种子:\n", parts, threshold)
		for i, s := range shares {
			fmt.Printf("  [%d] %s\n", i+1, s)
		}
		fmt.Println("请把每一份分别保存在不同的地方。")
		return nil
	},
}

var walletCombineCmd = &cobra.Command{
	Use:   "combine [share...]",
	Short: "用 Shamir 份额恢复种子",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := backup.CombineSeed(args)
		if err != nil {
			return fmt.Errorf("恢复失败 (份额不足或不匹配?): %w", err)
		}
		return printWallet(seed, true)
	},
}

func init() {
	walletCmd.AddCommand(walletSplitCmd, walletCombineCmd)

	walletSplitCmd.Flags().StringP("seed", "s", "", "种子 (s... / sEd...)")
	walletSplitCmd.Flags().StringP("keystore", "k", "", "Keystore 文件路径")
	walletSplitCmd.Flags().IntP("parts", "n", 5, "切分总数 N")
	walletSplitCmd.Flags().IntP("threshold", "m", 3, "恢复阈值 M")
	walletSplitCmd.MarkFlagsMutuallyExclusive("seed", "keystore")
}
