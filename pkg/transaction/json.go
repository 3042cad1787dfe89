package transaction

import (
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"xrpl-signer/pkg/address"
	"xrpl-signer/pkg/definitions"
)

// ToJSON 转为 rippled tx_json 形态: 金额为 drops 字符串，Blob 为大写十六进制，
// 账户为经典地址，TransactionType 为名称
func (tx *Transaction) ToJSON() map[string]any {
	return objectToJSON(tx.fields)
}

func (tx *Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(tx.ToJSON())
}

func objectToJSON(obj Object) map[string]any {
	out := make(map[string]any, len(obj))
	for id, v := range obj {
		f, ok := definitions.FieldByID(id)
		if !ok {
			continue
		}
		out[f.Name] = valueToJSON(f, v)
	}
	return out
}

func valueToJSON(f definitions.Field, v any) any {
	switch val := v.(type) {
	case uint16:
		if f.FieldID == definitions.TransactionType.FieldID {
			return definitions.TxType(val).String()
		}
		return val
	case uint64:
		return strconv.FormatUint(val, 10)
	case []byte:
		return strings.ToUpper(hex.EncodeToString(val))
	case address.AccountID:
		return val.String()
	case Object:
		return objectToJSON(val)
	case []Object:
		items := make([]any, len(val))
		for i, o := range val {
			items[i] = objectToJSON(o)
		}
		return items
	default:
		return v
	}
}
