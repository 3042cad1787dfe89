package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"xrpl-signer/pkg/errno"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Signer   SignerConfig   `mapstructure:"signer"`
	Keystore KeystoreConfig `mapstructure:"keystore"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type SignerConfig struct {
	// NetworkID 大于 1024 的网络要求交易携带 NetworkID
	NetworkID uint32 `mapstructure:"network_id"`
	// DefaultFee 未指定 Fee 时使用 (drops)
	DefaultFee string `mapstructure:"default_fee"`
	// Algorithm 新建钱包的默认曲线
	Algorithm string `mapstructure:"algorithm"`
}

type KeystoreConfig struct {
	Path    string `mapstructure:"path"`
	ScryptN int    `mapstructure:"scrypt_n"`
	// Password 通常通过环境变量 XRPL_KEYSTORE_PASSWORD 传入
	Password string `mapstructure:"password"`
}

type MetricsConfig struct {
	// TextfilePath 非空时把指标写成 node_exporter textfile 格式
	TextfilePath string `mapstructure:"textfile_path"`
}

var Global Config

// Init 读取配置文件 (cfgFile 为空时在 . 和 ./config 下找 config.yaml)、
// XRPL_ 前缀的环境变量和默认值
func Init(cfgFile string) error {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// 环境变量: signer.network_id -> XRPL_SIGNER_NETWORK_ID
	v.SetEnvPrefix("XRPL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return fmt.Errorf("%w: %v", errno.ErrConfig, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("%w: %v", errno.ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	Global = cfg
	return nil
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	switch c.Signer.Algorithm {
	case "secp256k1", "ed25519":
	default:
		return errno.ErrConfig.WithField("signer.algorithm")
	}
	if c.Keystore.ScryptN <= 1 || c.Keystore.ScryptN&(c.Keystore.ScryptN-1) != 0 {
		return errno.ErrConfig.WithField("keystore.scrypt_n")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")

	v.SetDefault("signer.network_id", 0)
	v.SetDefault("signer.default_fee", "12")
	v.SetDefault("signer.algorithm", "secp256k1")

	v.SetDefault("keystore.path", "wallet.json")
	v.SetDefault("keystore.scrypt_n", 1<<18)
	v.SetDefault("keystore.password", "")

	v.SetDefault("metrics.textfile_path", "")
}
