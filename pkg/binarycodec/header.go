package binarycodec

import (
	"fmt"

	"xrpl-signer/pkg/definitions"
)

// 变长长度前缀的分段上限
const (
	maxSingleByteLength = 192
	maxDoubleByteLength = 12480
	maxTripleByteLength = 918744
)

// encodeFieldHeader 类型编码和字段编码都小于 16 时压缩为 1 字节，
// 否则用 0 占位并在后续字节给出完整编码
func encodeFieldHeader(id definitions.FieldID) []byte {
	t, n := byte(id.Type), byte(id.Nth)
	switch {
	case t < 16 && n < 16:
		return []byte{t<<4 | n}
	case t < 16:
		return []byte{t << 4, n}
	case n < 16:
		return []byte{n, t}
	default:
		return []byte{0, t, n}
	}
}

func decodeFieldHeader(r *reader) (definitions.FieldID, error) {
	b, err := r.readByte()
	if err != nil {
		return definitions.FieldID{}, err
	}
	t, n := int(b>>4), int(b&0x0f)
	if t == 0 {
		if t, err = r.readUint8(); err != nil {
			return definitions.FieldID{}, err
		}
		if t < 16 {
			return definitions.FieldID{}, fmt.Errorf("非规范的类型编码 %d", t)
		}
	}
	if n == 0 {
		if n, err = r.readUint8(); err != nil {
			return definitions.FieldID{}, err
		}
		if n < 16 {
			return definitions.FieldID{}, fmt.Errorf("非规范的字段编码 %d", n)
		}
	}
	return definitions.FieldID{Type: definitions.TypeCode(t), Nth: n}, nil
}

// encodeVLLength 变长字段的长度前缀 (1~3 字节)
func encodeVLLength(length int) ([]byte, error) {
	switch {
	case length < 0:
		return nil, fmt.Errorf("长度不能为负: %d", length)
	case length <= maxSingleByteLength:
		return []byte{byte(length)}, nil
	case length <= maxDoubleByteLength:
		length -= maxSingleByteLength + 1
		return []byte{byte(193 + (length >> 8)), byte(length)}, nil
	case length <= maxTripleByteLength:
		length -= maxDoubleByteLength + 1
		return []byte{byte(241 + (length >> 16)), byte(length >> 8), byte(length)}, nil
	default:
		return nil, fmt.Errorf("长度 %d 超过上限 %d", length, maxTripleByteLength)
	}
}

func decodeVLLength(r *reader) (int, error) {
	b1, err := r.readUint8()
	if err != nil {
		return 0, err
	}
	switch {
	case b1 <= maxSingleByteLength:
		return b1, nil
	case b1 <= 240:
		b2, err := r.readUint8()
		if err != nil {
			return 0, err
		}
		return maxSingleByteLength + 1 + (b1-193)*256 + b2, nil
	case b1 <= 254:
		b2, err := r.readUint8()
		if err != nil {
			return 0, err
		}
		b3, err := r.readUint8()
		if err != nil {
			return 0, err
		}
		return maxDoubleByteLength + 1 + (b1-241)*65536 + b2*256 + b3, nil
	default:
		return 0, fmt.Errorf("非法的长度前缀 0x%02x", b1)
	}
}
