package binarycodec

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"

	"xrpl-signer/pkg/address"
	"xrpl-signer/pkg/definitions"
	"xrpl-signer/pkg/errno"
	"xrpl-signer/pkg/transaction"
)

const (
	objectEndMarker byte = 0xe1
	arrayEndMarker  byte = 0xf1

	// 原生金额: 最高位 0 表示 XRP，次高位 1 表示正数
	nativePositiveBit uint64 = 0x4000000000000000
)

// EncodedTransaction 规范编码后的交易字节
type EncodedTransaction []byte

// Hex 小写十六进制形式 (即提交给节点的 blob)
func (e EncodedTransaction) Hex() string {
	return hex.EncodeToString(e)
}

// Encode 按 (类型编码, 字段编码) 排序序列化交易。
// includeSignature 为 false 时跳过不参与签名的字段 (TxnSignature)。
func Encode(tx *transaction.Transaction, includeSignature bool) (EncodedTransaction, error) {
	var buf bytes.Buffer
	if err := encodeObject(&buf, tx.Fields(), !includeSignature); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedFieldIDs(obj transaction.Object) []definitions.FieldID {
	ids := make([]definitions.FieldID, 0, len(obj))
	for id := range obj {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

func encodeObject(buf *bytes.Buffer, obj transaction.Object, signingOnly bool) error {
	for _, id := range sortedFieldIDs(obj) {
		f, ok := definitions.FieldByID(id)
		if !ok || f.IsMarker() {
			return errno.ErrUnencodableValue.WithField(fmt.Sprintf("%s#%d", id.Type, id.Nth))
		}
		if signingOnly && !f.Signing {
			continue
		}
		buf.Write(encodeFieldHeader(id))
		if err := encodeValue(buf, f, obj[id], signingOnly); err != nil {
			return err
		}
	}
	return nil
}

func encodeValue(buf *bytes.Buffer, f definitions.Field, v any, signingOnly bool) error {
	unencodable := errno.ErrUnencodableValue.WithField(f.Name)

	switch f.Type {
	case definitions.TypeUInt16:
		n, ok := v.(uint16)
		if !ok {
			return unencodable
		}
		buf.Write(binary.BigEndian.AppendUint16(nil, n))

	case definitions.TypeUInt32:
		n, ok := v.(uint32)
		if !ok {
			return unencodable
		}
		buf.Write(binary.BigEndian.AppendUint32(nil, n))

	case definitions.TypeAmount:
		drops, ok := v.(uint64)
		if !ok || drops > transaction.MaxDrops {
			return unencodable
		}
		buf.Write(binary.BigEndian.AppendUint64(nil, drops|nativePositiveBit))

	case definitions.TypeBlob:
		b, ok := v.([]byte)
		if !ok {
			return unencodable
		}
		return writeVL(buf, f, b)

	case definitions.TypeAccountID:
		id, ok := v.(address.AccountID)
		if !ok {
			return unencodable
		}
		return writeVL(buf, f, id[:])

	case definitions.TypeObject:
		obj, ok := v.(transaction.Object)
		if !ok {
			return unencodable
		}
		if err := encodeObject(buf, obj, signingOnly); err != nil {
			return err
		}
		buf.WriteByte(objectEndMarker)

	case definitions.TypeArray:
		items, ok := v.([]transaction.Object)
		if !ok {
			return unencodable
		}
		for _, item := range items {
			// 数组元素是只含一个包装字段的对象
			if len(item) != 1 {
				return unencodable
			}
			for id := range item {
				if id.Type != definitions.TypeObject {
					return unencodable
				}
			}
			if err := encodeObject(buf, item, signingOnly); err != nil {
				return err
			}
		}
		buf.WriteByte(arrayEndMarker)

	default:
		return unencodable
	}
	return nil
}

func writeVL(buf *bytes.Buffer, f definitions.Field, b []byte) error {
	prefix, err := encodeVLLength(len(b))
	if err != nil {
		return errno.ErrUnencodableValue.WithField(f.Name)
	}
	buf.Write(prefix)
	buf.Write(b)
	return nil
}
