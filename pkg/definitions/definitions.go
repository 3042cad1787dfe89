package definitions

import "fmt"

// TypeCode 序列化类型编码，决定字段的排序和值的编码方式
type TypeCode int

const (
	TypeUInt16    TypeCode = 1
	TypeUInt32    TypeCode = 2
	TypeUInt64    TypeCode = 3
	TypeHash128   TypeCode = 4
	TypeHash256   TypeCode = 5
	TypeAmount    TypeCode = 6
	TypeBlob      TypeCode = 7
	TypeAccountID TypeCode = 8
	TypeObject    TypeCode = 14
	TypeArray     TypeCode = 15
)

var typeNames = map[TypeCode]string{
	TypeUInt16:    "UInt16",
	TypeUInt32:    "UInt32",
	TypeUInt64:    "UInt64",
	TypeHash128:   "Hash128",
	TypeHash256:   "Hash256",
	TypeAmount:    "Amount",
	TypeBlob:      "Blob",
	TypeAccountID: "AccountID",
	TypeObject:    "STObject",
	TypeArray:     "STArray",
}

func (t TypeCode) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// FieldID (类型编码, 字段编码) 二元组，也是排序键
type FieldID struct {
	Type TypeCode
	Nth  int
}

// Less 规范排序：先按类型编码，再按字段编码
func (id FieldID) Less(other FieldID) bool {
	if id.Type != other.Type {
		return id.Type < other.Type
	}
	return id.Nth < other.Nth
}

// Field 字段定义
type Field struct {
	Name string
	FieldID
	// VLEncoded 值前带变长长度前缀
	VLEncoded bool
	// Signing 是否参与签名数据
	Signing bool
}

var (
	TransactionType    = Field{Name: "TransactionType", FieldID: FieldID{TypeUInt16, 2}, Signing: true}
	NetworkID          = Field{Name: "NetworkID", FieldID: FieldID{TypeUInt32, 1}, Signing: true}
	Flags              = Field{Name: "Flags", FieldID: FieldID{TypeUInt32, 2}, Signing: true}
	SourceTag          = Field{Name: "SourceTag", FieldID: FieldID{TypeUInt32, 3}, Signing: true}
	Sequence           = Field{Name: "Sequence", FieldID: FieldID{TypeUInt32, 4}, Signing: true}
	DestinationTag     = Field{Name: "DestinationTag", FieldID: FieldID{TypeUInt32, 14}, Signing: true}
	LastLedgerSequence = Field{Name: "LastLedgerSequence", FieldID: FieldID{TypeUInt32, 27}, Signing: true}
	SetFlag            = Field{Name: "SetFlag", FieldID: FieldID{TypeUInt32, 33}, Signing: true}
	ClearFlag          = Field{Name: "ClearFlag", FieldID: FieldID{TypeUInt32, 34}, Signing: true}
	TicketSequence     = Field{Name: "TicketSequence", FieldID: FieldID{TypeUInt32, 41}, Signing: true}
	Amount             = Field{Name: "Amount", FieldID: FieldID{TypeAmount, 1}, Signing: true}
	Fee                = Field{Name: "Fee", FieldID: FieldID{TypeAmount, 8}, Signing: true}
	SigningPubKey      = Field{Name: "SigningPubKey", FieldID: FieldID{TypeBlob, 3}, VLEncoded: true, Signing: true}
	TxnSignature       = Field{Name: "TxnSignature", FieldID: FieldID{TypeBlob, 4}, VLEncoded: true, Signing: false}
	Domain             = Field{Name: "Domain", FieldID: FieldID{TypeBlob, 7}, VLEncoded: true, Signing: true}
	MemoType           = Field{Name: "MemoType", FieldID: FieldID{TypeBlob, 12}, VLEncoded: true, Signing: true}
	MemoData           = Field{Name: "MemoData", FieldID: FieldID{TypeBlob, 13}, VLEncoded: true, Signing: true}
	MemoFormat         = Field{Name: "MemoFormat", FieldID: FieldID{TypeBlob, 14}, VLEncoded: true, Signing: true}
	Account            = Field{Name: "Account", FieldID: FieldID{TypeAccountID, 1}, VLEncoded: true, Signing: true}
	Destination        = Field{Name: "Destination", FieldID: FieldID{TypeAccountID, 3}, VLEncoded: true, Signing: true}
	RegularKey         = Field{Name: "RegularKey", FieldID: FieldID{TypeAccountID, 8}, VLEncoded: true, Signing: true}
	ObjectEndMarker    = Field{Name: "ObjectEndMarker", FieldID: FieldID{TypeObject, 1}, Signing: true}
	Memo               = Field{Name: "Memo", FieldID: FieldID{TypeObject, 10}, Signing: true}
	ArrayEndMarker     = Field{Name: "ArrayEndMarker", FieldID: FieldID{TypeArray, 1}, Signing: true}
	Memos              = Field{Name: "Memos", FieldID: FieldID{TypeArray, 9}, Signing: true}
)

var allFields = []Field{
	TransactionType,
	NetworkID, Flags, SourceTag, Sequence, DestinationTag, LastLedgerSequence,
	SetFlag, ClearFlag, TicketSequence,
	Amount, Fee,
	SigningPubKey, TxnSignature, Domain, MemoType, MemoData, MemoFormat,
	Account, Destination, RegularKey,
	ObjectEndMarker, Memo,
	ArrayEndMarker, Memos,
}

var (
	fieldsByName = make(map[string]Field, len(allFields))
	fieldsByID   = make(map[FieldID]Field, len(allFields))
)

func init() {
	for _, f := range allFields {
		fieldsByName[f.Name] = f
		fieldsByID[f.FieldID] = f
	}
}

// FieldByName 按 JSON 字段名查找定义
func FieldByName(name string) (Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// FieldByID 按 (类型, 字段编码) 查找定义
func FieldByID(id FieldID) (Field, bool) {
	f, ok := fieldsByID[id]
	return f, ok
}

// IsMarker 对象 / 数组结束标记不能作为普通字段出现
func (f Field) IsMarker() bool {
	return f.FieldID == ObjectEndMarker.FieldID || f.FieldID == ArrayEndMarker.FieldID
}
