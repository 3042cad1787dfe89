package errno

import "fmt"

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
	// Field 出错的字段名 (可选)
	Field string
}

func (e Errno) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Field)
	}
	return e.Message
}

// Is 按错误码比较，使带字段的错误仍可用 errors.Is 匹配基础错误
func (e Errno) Is(target error) bool {
	switch t := target.(type) {
	case Errno:
		return t.Code == e.Code
	case *Errno:
		return t != nil && t.Code == e.Code
	default:
		return false
	}
}

// WithField 返回附带字段名的副本
func (e Errno) WithField(name string) Errno {
	e.Field = name
	return e
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Error()
	case Errno:
		return typed.Code, typed.Error()
	default:
		return InternalError.Code, err.Error()
	}
}

// Common Errors
var (
	OK            = Errno{Code: 0, Message: "Success"}
	InternalError = Errno{Code: 10001, Message: "Internal error"}
	ErrConfig     = Errno{Code: 10002, Message: "Configuration error"}
)

// Key derivation errors (30000+)
var (
	ErrInvalidSeedEncoding = Errno{Code: 30101, Message: "Invalid seed encoding"}
	ErrInvalidAddress      = Errno{Code: 30102, Message: "Invalid address"}
	ErrCurveMismatch       = Errno{Code: 30103, Message: "Key curve mismatch"}
	ErrKeyNotFound         = Errno{Code: 30104, Message: "Key not found"}
	ErrKeyDisabled         = Errno{Code: 30105, Message: "Key disabled"}
	ErrKeystoreDecrypt     = Errno{Code: 30106, Message: "Invalid password or corrupted keystore"}
)

// Transaction errors (30200+)
var (
	ErrMissingRequiredField = Errno{Code: 30201, Message: "Missing required field"}
	ErrFieldOutOfRange      = Errno{Code: 30202, Message: "Field out of range"}
	ErrUnknownField         = Errno{Code: 30203, Message: "Unknown field"}
	ErrUnencodableValue     = Errno{Code: 30204, Message: "Unencodable value"}
	ErrMalformedBlob        = Errno{Code: 30205, Message: "Malformed transaction blob"}
)

// Signing errors (30300+)
var (
	ErrSigningKeyMismatch = Errno{Code: 30301, Message: "Signing key does not match account"}
	ErrInvalidSignature   = Errno{Code: 30302, Message: "Invalid signature"}
)
