package varserver

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

// VarObject holds a variable's type, storage length and value.
// Len is only meaningful for variable-length types (str, blob); for string
// variables it includes one byte reserved for a terminator.
type VarObject struct {
	Type VarType `json:"type"`
	Len  uint32  `json:"len"`
	Val  any     `json:"val"`
}

// SetFromString converts a source string into a typed value for the object's
// type and stores it in Val. Integer types accept base prefixes (0x, 0o, 0b)
// and default to decimal. For string variables the source is stored as-is and
// Len is derived (length plus terminator) when not already set. Blob
// variables cannot be initialized from a string.
func (o *VarObject) SetFromString(s string) error {
	switch o.Type {
	case TypeUint16:
		n, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid uint16 value %q: %w", s, err)
		}
		o.Val = uint16(n)

	case TypeInt16:
		n, err := strconv.ParseInt(s, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid int16 value %q: %w", s, err)
		}
		o.Val = int16(n)

	case TypeUint32:
		n, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid uint32 value %q: %w", s, err)
		}
		o.Val = uint32(n)

	case TypeInt32:
		n, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid int32 value %q: %w", s, err)
		}
		o.Val = int32(n)

	case TypeUint64:
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return fmt.Errorf("invalid uint64 value %q: %w", s, err)
		}
		o.Val = n

	case TypeInt64:
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return fmt.Errorf("invalid int64 value %q: %w", s, err)
		}
		o.Val = n

	case TypeFloat:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return fmt.Errorf("invalid float value %q: %w", s, err)
		}
		o.Val = float32(f)

	case TypeStr:
		o.Val = s
		if o.Len == 0 {
			o.Len = uint32(len(s)) + 1
		}

	case TypeBlob:
		return fmt.Errorf("blob variables cannot be initialized from a string: %w", ErrUnknownType)

	default:
		return fmt.Errorf("cannot convert value %q: %w", s, ErrUnknownType)
	}

	return nil
}

// EncodeValue renders the value as its canonical storage string: decimal for
// integer types, shortest-form decimal for float, the raw string for str,
// base64 for blob. An unset value encodes as the empty string.
func (o *VarObject) EncodeValue() (string, error) {
	if o.Val == nil {
		return "", nil
	}

	switch v := o.Val.(type) {
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case string:
		return v, nil
	case []byte:
		return base64.StdEncoding.EncodeToString(v), nil
	default:
		return "", fmt.Errorf("cannot encode value of type %T", o.Val)
	}
}

// DecodeValue parses a canonical storage string back into a typed value for
// the given type. An empty string decodes to the type's zero value, matching
// the zeroed storage of a variable created without an initial value.
func DecodeValue(t VarType, s string) (any, error) {
	if s == "" && t != TypeStr {
		return zeroValue(t)
	}

	switch t {
	case TypeUint16:
		n, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid stored uint16 %q: %w", s, err)
		}
		return uint16(n), nil
	case TypeInt16:
		n, err := strconv.ParseInt(s, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid stored int16 %q: %w", s, err)
		}
		return int16(n), nil
	case TypeUint32:
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid stored uint32 %q: %w", s, err)
		}
		return uint32(n), nil
	case TypeInt32:
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid stored int32 %q: %w", s, err)
		}
		return int32(n), nil
	case TypeUint64:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid stored uint64 %q: %w", s, err)
		}
		return n, nil
	case TypeInt64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid stored int64 %q: %w", s, err)
		}
		return n, nil
	case TypeFloat:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid stored float %q: %w", s, err)
		}
		return float32(f), nil
	case TypeStr:
		return s, nil
	case TypeBlob:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid stored blob: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("cannot decode stored value: %w", ErrUnknownType)
	}
}

// zeroValue returns the zero value for a type, used when a variable was
// created without an initial value.
func zeroValue(t VarType) (any, error) {
	switch t {
	case TypeUint16:
		return uint16(0), nil
	case TypeInt16:
		return int16(0), nil
	case TypeUint32:
		return uint32(0), nil
	case TypeInt32:
		return int32(0), nil
	case TypeUint64:
		return uint64(0), nil
	case TypeInt64:
		return int64(0), nil
	case TypeFloat:
		return float32(0), nil
	case TypeStr:
		return "", nil
	case TypeBlob:
		return []byte(nil), nil
	default:
		return nil, fmt.Errorf("cannot decode stored value: %w", ErrUnknownType)
	}
}
