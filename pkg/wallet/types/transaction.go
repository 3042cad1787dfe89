package types

// UnsignedTransaction 待签名的交易，沿用 rippled sign 请求的 tx_json 形态。
// 冷钱包签名前会把这些字段展示给用户确认。
type UnsignedTransaction struct {
	TxJSON map[string]any `json:"tx_json"`

	// KeyID 签名使用的密钥 (账户地址)。为空时使用 tx_json.Account
	KeyID string `json:"key_id,omitempty"`
}

// SignedTransaction 签名结果，字段名与 rippled sign 响应一致
type SignedTransaction struct {
	TxHash string         `json:"hash"`    // 交易 ID
	TxBlob string         `json:"tx_blob"` // 十六进制 blob，可直接提交
	TxJSON map[string]any `json:"tx_json"` // 含 SigningPubKey / TxnSignature
}

// VerifyResult 校验 blob 的结果
type VerifyResult struct {
	Valid  bool           `json:"valid"`
	TxHash string         `json:"hash"`
	TxJSON map[string]any `json:"tx_json"`
	Error  string         `json:"error,omitempty"`
}
