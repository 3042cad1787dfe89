package definitions

import "fmt"

// TxType 交易类型编码 (UInt16)
type TxType uint16

const (
	Payment       TxType = 0
	AccountSet    TxType = 3
	SetRegularKey TxType = 5
)

var txTypeNames = map[TxType]string{
	Payment:       "Payment",
	AccountSet:    "AccountSet",
	SetRegularKey: "SetRegularKey",
}

func (t TxType) String() string {
	if name, ok := txTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TxType(%d)", uint16(t))
}

// TxTypeByName 按名称查找交易类型
func TxTypeByName(name string) (TxType, bool) {
	for t, n := range txTypeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// IsKnownTxType 是否为支持的交易类型
func IsKnownTxType(t TxType) bool {
	_, ok := txTypeNames[t]
	return ok
}

// 所有交易共有的必填字段
var commonRequired = []Field{TransactionType, Account, Sequence, Fee}

var requiredByType = map[TxType][]Field{
	Payment:       {Destination, Amount},
	AccountSet:    {},
	SetRegularKey: {},
}

// RequiredFields 返回指定交易类型的全部必填字段
func RequiredFields(t TxType) []Field {
	out := make([]Field, 0, len(commonRequired)+len(requiredByType[t]))
	out = append(out, commonRequired...)
	return append(out, requiredByType[t]...)
}
