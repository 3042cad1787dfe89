package transaction

import (
	"sort"

	"xrpl-signer/pkg/address"
	"xrpl-signer/pkg/definitions"
	"xrpl-signer/pkg/errno"
)

// Object 字段编码 → 已类型化的值。
// 值的 Go 类型由字段类型决定:
//
//	UInt16    uint16
//	UInt32    uint32
//	Amount    uint64 (drops)
//	Blob      []byte
//	AccountID address.AccountID
//	STObject  Object
//	STArray   []Object (每个元素只有一个包装字段, 如 Memo)
//
// 输出顺序完全由编码器按 (类型, 字段编码) 排序决定，与插入顺序无关。
type Object map[definitions.FieldID]any

// Transaction 交易模型
type Transaction struct {
	fields Object
}

// New 直接由已类型化的字段构造交易，不做任何校验。
// 值是否可编码由编码器检查。
func New(fields Object) *Transaction {
	tx := &Transaction{fields: make(Object, len(fields))}
	for id, v := range fields {
		tx.fields[id] = v
	}
	return tx
}

// Build 由 JSON 形态的字段集合构造并校验交易。
// 字段名未知返回 UnknownField，缺少必填字段返回 MissingRequiredField。
func Build(fields map[string]any) (*Transaction, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	tx := &Transaction{fields: make(Object, len(fields))}
	for _, name := range names {
		if err := tx.Set(name, fields[name]); err != nil {
			return nil, err
		}
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

// Validate 检查交易类型合法且该类型的必填字段齐全
func (tx *Transaction) Validate() error {
	tt, ok := tx.TxType()
	if !ok {
		return errno.ErrMissingRequiredField.WithField(definitions.TransactionType.Name)
	}
	if !definitions.IsKnownTxType(tt) {
		return errno.ErrFieldOutOfRange.WithField(definitions.TransactionType.Name)
	}
	for _, f := range definitions.RequiredFields(tt) {
		if !tx.Has(f) {
			return errno.ErrMissingRequiredField.WithField(f.Name)
		}
	}
	return nil
}

// Set 按字段名解析并设置 JSON 形态的值
func (tx *Transaction) Set(name string, value any) error {
	f, ok := definitions.FieldByName(name)
	if !ok || f.IsMarker() {
		return errno.ErrUnknownField.WithField(name)
	}
	v, err := parseValue(f, value)
	if err != nil {
		return err
	}
	tx.fields[f.FieldID] = v
	return nil
}

// Put 直接设置已类型化的值
func (tx *Transaction) Put(f definitions.Field, value any) {
	tx.fields[f.FieldID] = value
}

func (tx *Transaction) Get(f definitions.Field) (any, bool) {
	v, ok := tx.fields[f.FieldID]
	return v, ok
}

func (tx *Transaction) Has(f definitions.Field) bool {
	_, ok := tx.fields[f.FieldID]
	return ok
}

func (tx *Transaction) Delete(f definitions.Field) {
	delete(tx.fields, f.FieldID)
}

// Fields 返回字段集合的浅拷贝
func (tx *Transaction) Fields() Object {
	out := make(Object, len(tx.fields))
	for id, v := range tx.fields {
		out[id] = v
	}
	return out
}

// Clone 深拷贝，签名时不修改调用方的交易
func (tx *Transaction) Clone() *Transaction {
	return &Transaction{fields: cloneObject(tx.fields)}
}

func (tx *Transaction) TxType() (definitions.TxType, bool) {
	v, ok := tx.fields[definitions.TransactionType.FieldID].(uint16)
	return definitions.TxType(v), ok
}

func (tx *Transaction) Account() (address.AccountID, bool) {
	return tx.AccountID(definitions.Account)
}

func (tx *Transaction) AccountID(f definitions.Field) (address.AccountID, bool) {
	v, ok := tx.fields[f.FieldID].(address.AccountID)
	return v, ok
}

func (tx *Transaction) Uint32(f definitions.Field) (uint32, bool) {
	v, ok := tx.fields[f.FieldID].(uint32)
	return v, ok
}

// Drops 原生 XRP 金额 (drops)
func (tx *Transaction) Drops(f definitions.Field) (uint64, bool) {
	v, ok := tx.fields[f.FieldID].(uint64)
	return v, ok
}

func (tx *Transaction) Bytes(f definitions.Field) ([]byte, bool) {
	v, ok := tx.fields[f.FieldID].([]byte)
	return v, ok
}

func cloneObject(obj Object) Object {
	out := make(Object, len(obj))
	for id, v := range obj {
		out[id] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return append([]byte(nil), val...)
	case Object:
		return cloneObject(val)
	case []Object:
		out := make([]Object, len(val))
		for i, o := range val {
			out[i] = cloneObject(o)
		}
		return out
	default:
		return v
	}
}
