package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"xrpl-signer/pkg/binarycodec"
	"xrpl-signer/pkg/config"
	"xrpl-signer/pkg/definitions"
	"xrpl-signer/pkg/errno"
	"xrpl-signer/pkg/kms"
	"xrpl-signer/pkg/monitor"
	"xrpl-signer/pkg/signer"
	"xrpl-signer/pkg/transaction"
	"xrpl-signer/pkg/wallet/types"
)

// 低于该值的网络 (主网、测试网) 不允许携带 NetworkID
const networkIDRequiredAbove = 1024

// SignerService 离线签名服务: 补全默认字段、构造交易、通过 KMS 签名并记录指标
type SignerService struct {
	keys    kms.KeyManager
	metrics *monitor.SignerMetrics
	cfg     config.SignerConfig
	log     *zap.Logger
}

func NewSignerService(keys kms.KeyManager, metrics *monitor.SignerMetrics, cfg config.SignerConfig, log *zap.Logger) *SignerService {
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = monitor.NewSignerMetrics(nil)
	}
	return &SignerService{
		keys:    keys,
		metrics: metrics,
		cfg:     cfg,
		log:     log.Named("signer"),
	}
}

// ImportSeed 把种子导入 KMS，返回 KeyID
func (s *SignerService) ImportSeed(seed string) (string, error) {
	keyID, err := s.keys.ImportSeed(seed)
	if err != nil {
		return "", err
	}
	s.metrics.KeysLoaded.Set(float64(len(s.keys.ListKeys())))
	s.log.Info("key loaded", zap.String("key_id", keyID))
	return keyID, nil
}

// Sign 签名一笔交易
func (s *SignerService) Sign(ctx context.Context, req *types.UnsignedTransaction) (*types.SignedTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	fields, keyID := s.withDefaults(req)
	tx, err := transaction.Build(fields)
	if err != nil {
		s.fail("build", keyID, err)
		return nil, err
	}

	signed, err := s.keys.Sign(keyID, tx)
	if err != nil {
		s.fail("sign", keyID, err)
		return nil, err
	}

	tt, _ := tx.TxType()
	s.metrics.SignDuration.Observe(time.Since(start).Seconds())
	s.metrics.SignedTotal.WithLabelValues(tt.String(), s.algorithmOf(keyID)).Inc()
	if tt == definitions.Payment {
		if drops, ok := tx.Drops(definitions.Amount); ok {
			s.metrics.SignedAmountDrops.Add(float64(drops))
		}
	}

	s.log.Info("transaction signed",
		zap.String("key_id", keyID),
		zap.String("tx_type", tt.String()),
		zap.String("hash", signed.Hash),
		zap.Duration("elapsed", time.Since(start)),
	)

	txJSON := signed.Transaction.ToJSON()
	txJSON["hash"] = signed.Hash
	return &types.SignedTransaction{
		TxHash: signed.Hash,
		TxBlob: signed.Blob(),
		TxJSON: txJSON,
	}, nil
}

// withDefaults 复制请求字段并补全 Fee / NetworkID，返回签名用的 KeyID
func (s *SignerService) withDefaults(req *types.UnsignedTransaction) (map[string]any, string) {
	fields := make(map[string]any, len(req.TxJSON)+2)
	for k, v := range req.TxJSON {
		fields[k] = v
	}

	keyID := req.KeyID
	if keyID == "" {
		keyID, _ = fields[definitions.Account.Name].(string)
	}
	if _, ok := fields[definitions.Account.Name]; !ok && keyID != "" {
		fields[definitions.Account.Name] = keyID
	}
	if _, ok := fields[definitions.Fee.Name]; !ok && s.cfg.DefaultFee != "" {
		s.log.Debug("using default fee", zap.String("fee", s.cfg.DefaultFee))
		fields[definitions.Fee.Name] = s.cfg.DefaultFee
	}
	if _, ok := fields[definitions.NetworkID.Name]; !ok && s.cfg.NetworkID > networkIDRequiredAbove {
		fields[definitions.NetworkID.Name] = s.cfg.NetworkID
	}
	return fields, keyID
}

func (s *SignerService) algorithmOf(keyID string) string {
	for _, meta := range s.keys.ListKeys() {
		if meta.KeyID == keyID {
			return string(meta.Algorithm)
		}
	}
	return "unknown"
}

func (s *SignerService) fail(stage, keyID string, err error) {
	code, msg := errno.Decode(unwrapErrno(err))
	s.metrics.SignFailuresTotal.WithLabelValues(strconv.Itoa(code)).Inc()
	s.log.Warn("signing failed",
		zap.String("stage", stage),
		zap.String("key_id", keyID),
		zap.Int("code", code),
		zap.String("reason", msg),
		zap.Error(err),
	)
}

// Decode 把 blob 解码为 tx_json
func (s *SignerService) Decode(blob string) (map[string]any, error) {
	tx, err := binarycodec.DecodeHex(blob)
	if err != nil {
		return nil, err
	}
	return tx.ToJSON(), nil
}

// Verify 校验已签名 blob 的签名与账户
func (s *SignerService) Verify(blob string) (*types.VerifyResult, error) {
	tx, verifyErr := signer.VerifyBlob(blob)
	if tx == nil {
		s.metrics.VerificationsTotal.WithLabelValues("malformed").Inc()
		return nil, verifyErr
	}

	raw, err := binarycodec.Encode(tx, true)
	if err != nil {
		s.metrics.VerificationsTotal.WithLabelValues("malformed").Inc()
		return nil, err
	}
	result := &types.VerifyResult{
		Valid:  verifyErr == nil,
		TxHash: signer.TxHash(raw),
		TxJSON: tx.ToJSON(),
	}
	if verifyErr != nil {
		result.Error = verifyErr.Error()
		s.metrics.VerificationsTotal.WithLabelValues("invalid").Inc()
		s.log.Warn("signature verification failed", zap.String("hash", result.TxHash), zap.Error(verifyErr))
		return result, nil
	}
	s.metrics.VerificationsTotal.WithLabelValues("valid").Inc()
	return result, nil
}

// unwrapErrno 找到错误链中的 Errno，便于按错误码统计
func unwrapErrno(err error) error {
	var e errno.Errno
	if errors.As(err, &e) {
		return e
	}
	return err
}
