package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "把十六进制 tx_blob 解码为 JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		blob, _ := cmd.Flags().GetString("blob")
		svc, _ := newSignerService()

		txJSON, err := svc.Decode(blob)
		if err != nil {
			return err
		}
		return printJSON(txJSON)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "校验已签名 tx_blob 的签名",
	RunE: func(cmd *cobra.Command, args []string) error {
		blob, _ := cmd.Flags().GetString("blob")
		svc, reg := newSignerService()
		defer writeMetrics(reg)

		result, err := svc.Verify(blob)
		if err != nil {
			return err
		}
		if err := printJSON(result); err != nil {
			return err
		}
		if !result.Valid {
			return errors.New("签名无效: " + result.Error)
		}
		fmt.Println("✅ 签名有效")
		return nil
	},
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func init() {
	rootCmd.AddCommand(decodeCmd, verifyCmd)
	for _, c := range []*cobra.Command{decodeCmd, verifyCmd} {
		c.Flags().StringP("blob", "b", "", "十六进制 tx_blob")
		_ = c.MarkFlagRequired("blob")
	}
}
