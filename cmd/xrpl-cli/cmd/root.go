package cmd

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"xrpl-signer/internal/service"
	"xrpl-signer/pkg/config"
	"xrpl-signer/pkg/kms"
	"xrpl-signer/pkg/logger"
	"xrpl-signer/pkg/monitor"
)

var cfgFile string

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "xrpl-cli",
	Short: "XRP Ledger 离线签名工具",
	Long: `XRP Ledger 冷钱包命令行工具 (不联网)。
支持生成种子和地址、加密 Keystore、离线签名交易以及解码/校验已签名的 blob。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(cfgFile); err != nil {
			return err
		}
		return logger.Init(config.Global.App.Env)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径 (默认 ./config.yaml)")
}

// newSignerService 每次命令调用创建一个独立的 KMS 和指标注册表
func newSignerService() (*service.SignerService, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	svc := service.NewSignerService(
		kms.NewLocalKMS(),
		monitor.NewSignerMetrics(reg),
		config.Global.Signer,
		logger.Log.WithOptions(zap.AddCallerSkip(-1)),
	)
	return svc, reg
}

// writeMetrics 配置了 textfile 路径时输出本次运行的指标
func writeMetrics(reg *prometheus.Registry) {
	path := config.Global.Metrics.TextfilePath
	if path == "" {
		return
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		logger.Warn("write metrics textfile failed", zap.String("path", path), zap.Error(err))
	}
}
