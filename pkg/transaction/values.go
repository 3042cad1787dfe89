package transaction

import (
	"encoding/hex"
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"xrpl-signer/pkg/address"
	"xrpl-signer/pkg/definitions"
	"xrpl-signer/pkg/errno"
)

// parseValue 把 JSON 形态的值 (rippled tx_json 的写法) 转为字段类型对应的 Go 值
func parseValue(f definitions.Field, v any) (any, error) {
	switch f.Type {
	case definitions.TypeUInt16:
		return parseUInt16(f, v)
	case definitions.TypeUInt32:
		n, err := parseUint(f, v, math.MaxUint32)
		if err != nil {
			return nil, err
		}
		return uint32(n), nil
	case definitions.TypeAmount:
		return parseDrops(f, v)
	case definitions.TypeBlob:
		return parseBlob(f, v)
	case definitions.TypeAccountID:
		return parseAccount(f, v)
	case definitions.TypeObject:
		m, ok := asMap(v)
		if !ok {
			return nil, errno.ErrUnencodableValue.WithField(f.Name)
		}
		return parseObject(m)
	case definitions.TypeArray:
		return parseArray(f, v)
	default:
		return nil, errno.ErrUnencodableValue.WithField(f.Name)
	}
}

func parseUInt16(f definitions.Field, v any) (uint16, error) {
	if f.FieldID == definitions.TransactionType.FieldID {
		if name, ok := v.(string); ok {
			tt, known := definitions.TxTypeByName(name)
			if !known {
				return 0, errno.ErrFieldOutOfRange.WithField(f.Name)
			}
			return uint16(tt), nil
		}
		if tt, ok := v.(definitions.TxType); ok {
			return uint16(tt), nil
		}
	}
	n, err := parseUint(f, v, math.MaxUint16)
	if err != nil {
		return 0, err
	}
	return uint16(n), nil
}

// MaxDrops 原生金额上限 (1000 亿 XRP)
const MaxDrops uint64 = 100_000_000_000_000_000

func parseDrops(f definitions.Field, v any) (uint64, error) {
	if _, isObject := asMap(v); isObject {
		// 非原生 (IOU) 金额不支持
		return 0, errno.ErrUnencodableValue.WithField(f.Name)
	}
	return parseUint(f, v, MaxDrops)
}

// parseUint 接受 Go 整数、JSON 数字和十进制字符串。
// 负数、小数或超过 max 均返回 FieldOutOfRange。
func parseUint(f definitions.Field, v any, max uint64) (uint64, error) {
	var d decimal.Decimal
	switch val := v.(type) {
	case int:
		d = decimal.NewFromInt(int64(val))
	case int32:
		d = decimal.NewFromInt(int64(val))
	case int64:
		d = decimal.NewFromInt(val)
	case uint16:
		d = decimal.NewFromInt(int64(val))
	case uint32:
		d = decimal.NewFromInt(int64(val))
	case uint:
		d = decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(val)), 0)
	case uint64:
		d = decimal.NewFromBigInt(new(big.Int).SetUint64(val), 0)
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, errno.ErrFieldOutOfRange.WithField(f.Name)
		}
		d = decimal.NewFromFloat(val)
	case json.Number:
		parsed, err := decimal.NewFromString(val.String())
		if err != nil {
			return 0, errno.ErrUnencodableValue.WithField(f.Name)
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return 0, errno.ErrUnencodableValue.WithField(f.Name)
		}
		d = parsed
	default:
		return 0, errno.ErrUnencodableValue.WithField(f.Name)
	}

	limit := decimal.NewFromBigInt(new(big.Int).SetUint64(max), 0)
	if d.IsNegative() || !d.IsInteger() || d.GreaterThan(limit) {
		return 0, errno.ErrFieldOutOfRange.WithField(f.Name)
	}
	return d.BigInt().Uint64(), nil
}

func parseBlob(f definitions.Field, v any) ([]byte, error) {
	switch val := v.(type) {
	case []byte:
		return append([]byte(nil), val...), nil
	case string:
		b, err := hex.DecodeString(val)
		if err != nil {
			return nil, errno.ErrUnencodableValue.WithField(f.Name)
		}
		return b, nil
	default:
		return nil, errno.ErrUnencodableValue.WithField(f.Name)
	}
}

func parseAccount(f definitions.Field, v any) (address.AccountID, error) {
	switch val := v.(type) {
	case address.AccountID:
		return val, nil
	case string:
		id, err := address.DecodeClassicAddress(val)
		if err != nil {
			return address.AccountID{}, errno.ErrInvalidAddress.WithField(f.Name)
		}
		return id, nil
	default:
		return address.AccountID{}, errno.ErrInvalidAddress.WithField(f.Name)
	}
}

func parseObject(m map[string]any) (Object, error) {
	obj := make(Object, len(m))
	for name, raw := range m {
		f, ok := definitions.FieldByName(name)
		if !ok || f.IsMarker() {
			return nil, errno.ErrUnknownField.WithField(name)
		}
		v, err := parseValue(f, raw)
		if err != nil {
			return nil, err
		}
		obj[f.FieldID] = v
	}
	return obj, nil
}

// parseArray 元素形如 {"Memo": {"MemoData": "..."}}
func parseArray(f definitions.Field, v any) ([]Object, error) {
	if objs, ok := v.([]Object); ok {
		out := make([]Object, len(objs))
		for i, o := range objs {
			out[i] = cloneObject(o)
		}
		return out, nil
	}

	var items []any
	switch val := v.(type) {
	case []any:
		items = val
	case []map[string]any:
		for _, m := range val {
			items = append(items, m)
		}
	default:
		return nil, errno.ErrUnencodableValue.WithField(f.Name)
	}

	out := make([]Object, 0, len(items))
	for _, item := range items {
		wrapper, ok := asMap(item)
		if !ok || len(wrapper) != 1 {
			return nil, errno.ErrUnencodableValue.WithField(f.Name)
		}
		for name, inner := range wrapper {
			wf, known := definitions.FieldByName(name)
			if !known || wf.Type != definitions.TypeObject || wf.IsMarker() {
				return nil, errno.ErrUnknownField.WithField(name)
			}
			innerMap, isMap := asMap(inner)
			if !isMap {
				return nil, errno.ErrUnencodableValue.WithField(name)
			}
			obj, err := parseObject(innerMap)
			if err != nil {
				return nil, err
			}
			out = append(out, Object{wf.FieldID: obj})
		}
	}
	return out, nil
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}
