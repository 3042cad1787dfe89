package binarycodec

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"xrpl-signer/pkg/address"
	"xrpl-signer/pkg/definitions"
	"xrpl-signer/pkg/errno"
	"xrpl-signer/pkg/transaction"
)

// 嵌套深度上限，防止恶意 blob 无限递归
const maxDepth = 10

type reader struct {
	data []byte
	pos  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.pos
}

func (r *reader) readByte() (byte, error) {
	if r.remaining() < 1 {
		return 0, io.ErrUnexpectedEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) readUint8() (int, error) {
	b, err := r.readByte()
	return int(b), err
}

func (r *reader) read(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, io.ErrUnexpectedEOF
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

func (r *reader) peek() (byte, bool) {
	if r.remaining() < 1 {
		return 0, false
	}
	return r.data[r.pos], true
}

// Decode 把规范编码还原为交易模型，不校验必填字段
func Decode(blob []byte) (*transaction.Transaction, error) {
	r := &reader{data: blob}
	obj, err := decodeObject(r, 0, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrMalformedBlob, err)
	}
	return transaction.New(obj), nil
}

// DecodeHex 解码十六进制 blob
func DecodeHex(blob string) (*transaction.Transaction, error) {
	raw, err := hex.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrMalformedBlob, err)
	}
	return Decode(raw)
}

// decodeObject 读取字段直到对象结束标记 (nested) 或数据末尾 (顶层)
func decodeObject(r *reader, depth int, nested bool) (transaction.Object, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("嵌套层数超过 %d", maxDepth)
	}
	obj := make(transaction.Object)
	var prev *definitions.FieldID

	for {
		if !nested && r.remaining() == 0 {
			return obj, nil
		}
		if nested {
			if b, ok := r.peek(); ok && b == objectEndMarker {
				r.pos++
				return obj, nil
			}
		}

		id, err := decodeFieldHeader(r)
		if err != nil {
			return nil, err
		}
		f, ok := definitions.FieldByID(id)
		if !ok || f.IsMarker() {
			return nil, fmt.Errorf("未知字段 %s#%d", id.Type, id.Nth)
		}
		if prev != nil && !prev.Less(id) {
			return nil, fmt.Errorf("字段 %s 顺序不规范或重复", f.Name)
		}
		v, err := decodeValue(r, f, depth)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		obj[id] = v
		prev = &id
	}
}

func decodeValue(r *reader, f definitions.Field, depth int) (any, error) {
	switch f.Type {
	case definitions.TypeUInt16:
		b, err := r.read(2)
		if err != nil {
			return nil, err
		}
		return binary.BigEndian.Uint16(b), nil

	case definitions.TypeUInt32:
		b, err := r.read(4)
		if err != nil {
			return nil, err
		}
		return binary.BigEndian.Uint32(b), nil

	case definitions.TypeAmount:
		b, err := r.read(8)
		if err != nil {
			return nil, err
		}
		raw := binary.BigEndian.Uint64(b)
		if raw&(1<<63) != 0 {
			return nil, fmt.Errorf("不支持非原生金额")
		}
		if raw&nativePositiveBit == 0 {
			return nil, fmt.Errorf("不支持负数金额")
		}
		drops := raw &^ nativePositiveBit
		if drops > transaction.MaxDrops {
			return nil, fmt.Errorf("金额超出上限")
		}
		return drops, nil

	case definitions.TypeBlob:
		n, err := decodeVLLength(r)
		if err != nil {
			return nil, err
		}
		return r.read(n)

	case definitions.TypeAccountID:
		n, err := decodeVLLength(r)
		if err != nil {
			return nil, err
		}
		if n != address.AccountIDLength {
			return nil, fmt.Errorf("账户 ID 长度 %d", n)
		}
		b, err := r.read(n)
		if err != nil {
			return nil, err
		}
		var id address.AccountID
		copy(id[:], b)
		return id, nil

	case definitions.TypeObject:
		return decodeObject(r, depth+1, true)

	case definitions.TypeArray:
		return decodeArray(r, depth+1)

	default:
		return nil, fmt.Errorf("不支持的类型 %s", f.Type)
	}
}

func decodeArray(r *reader, depth int) ([]transaction.Object, error) {
	var items []transaction.Object
	for {
		b, ok := r.peek()
		if !ok {
			return nil, io.ErrUnexpectedEOF
		}
		if b == arrayEndMarker {
			r.pos++
			return items, nil
		}

		id, err := decodeFieldHeader(r)
		if err != nil {
			return nil, err
		}
		f, known := definitions.FieldByID(id)
		if !known || f.Type != definitions.TypeObject || f.IsMarker() {
			return nil, fmt.Errorf("数组元素必须是对象字段")
		}
		inner, err := decodeObject(r, depth+1, true)
		if err != nil {
			return nil, err
		}
		items = append(items, transaction.Object{id: inner})
	}
}
