package varserver

import (
	"fmt"
)

// Buffer limits enforced by the variable server. Name uses an inclusive
// bound; format and tag specifiers must leave room for a terminator and so
// use an exclusive bound.
const (
	// MaxNameLength is the longest accepted variable or alias name.
	MaxNameLength = 63

	// MaxFormatSpecLength bounds the printf-style format specifier.
	// A specifier of this length or longer is rejected.
	MaxFormatSpecLength = 32

	// MaxTagSpecLength bounds the comma-separated tag specifier.
	// A specifier of this length or longer is rejected.
	MaxTagSpecLength = 64

	// MaxPrincipals is the maximum number of principal IDs in a single
	// read or write permission list.
	MaxPrincipals = 16
)

// VarType identifies the storage type of a variable.
type VarType int

const (
	// TypeInvalid is the zero value; variables of this type cannot be created.
	TypeInvalid VarType = iota
	TypeUint16
	TypeInt16
	TypeUint32
	TypeInt32
	TypeUint64
	TypeInt64
	TypeFloat
	TypeStr
	TypeBlob
)

// typeNames maps canonical type names to their VarType.
// Lookup is exact-match; names are lowercase.
var typeNames = map[string]VarType{
	"uint16": TypeUint16,
	"int16":  TypeInt16,
	"uint32": TypeUint32,
	"int32":  TypeInt32,
	"uint64": TypeUint64,
	"int64":  TypeInt64,
	"float":  TypeFloat,
	"str":    TypeStr,
	"blob":   TypeBlob,
}

// TypeNameToType resolves a type name (e.g. "uint32", "str") to its VarType.
// Unknown names return TypeInvalid and an error wrapping ErrUnknownType.
func TypeNameToType(name string) (VarType, error) {
	t, ok := typeNames[name]
	if !ok {
		return TypeInvalid, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}

// String returns the canonical name of the type, or "invalid" for
// TypeInvalid and any out-of-range value.
func (t VarType) String() string {
	switch t {
	case TypeUint16:
		return "uint16"
	case TypeInt16:
		return "int16"
	case TypeUint32:
		return "uint32"
	case TypeInt32:
		return "int32"
	case TypeUint64:
		return "uint64"
	case TypeInt64:
		return "int64"
	case TypeFloat:
		return "float"
	case TypeStr:
		return "str"
	case TypeBlob:
		return "blob"
	default:
		return "invalid"
	}
}

// Validate checks that the VarType is a creatable type.
func (t VarType) Validate() error {
	switch t {
	case TypeUint16, TypeInt16, TypeUint32, TypeInt32,
		TypeUint64, TypeInt64, TypeFloat, TypeStr, TypeBlob:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
}

// Handle identifies a created variable within the server.
// Handles are allocated by the server at creation time.
type Handle uint32

// InvalidHandle is returned when a variable cannot be found or created.
const InvalidHandle Handle = 0

// Permissions holds the principal IDs allowed to read and write a variable.
// Empty lists mean the server's default policy applies.
type Permissions struct {
	Read  []uint32 `json:"read"`
	Write []uint32 `json:"write"`
}

// VarInfo is the full descriptor of a variable as submitted to and stored by
// the server.
type VarInfo struct {
	Name        string      `json:"name"`        // Variable name, unique per instance
	GUID        uint32      `json:"guid"`        // Optional globally-unique identifier
	InstanceID  uint32      `json:"instance_id"` // Distinguishes identically-named variables across instances
	Obj         VarObject   `json:"obj"`         // Type, length and initial value
	FormatSpec  string      `json:"format_spec"` // printf-style render hint
	TagSpec     string      `json:"tag_spec"`    // Comma-separated tags
	Flags       Flags       `json:"flags"`       // Behavioral flag bits
	Permissions Permissions `json:"permissions"` // Read/write principal lists
	Handle      Handle      `json:"handle"`      // Assigned by the server on creation
}

// VarEvent is published to the var_events channel after every successful
// creation. Subscribers receive the full event as JSON.
type VarEvent struct {
	EventID     string `json:"event_id"`      // UUID for this event
	Handle      Handle `json:"handle"`        // Handle of the created variable
	Name        string `json:"name"`          // Fully-prefixed variable name
	InstanceID  uint32 `json:"instance_id"`   // Instance the variable belongs to
	CreatedAtMs int64  `json:"created_at_ms"` // Unix timestamp in milliseconds
}

// Validate checks if the VarInfo has valid field values.
// Returns an error if any validation fails. The client runs this before
// every creation; the checks mirror the server's own limits so failures
// surface before any write happens.
func (v *VarInfo) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("variable name cannot be empty: %w", ErrMissingName)
	}

	if len(v.Name) > MaxNameLength {
		return fmt.Errorf("variable name %q exceeds %d bytes: %w", v.Name, MaxNameLength, ErrTooLong)
	}

	if err := v.Obj.Type.Validate(); err != nil {
		return fmt.Errorf("invalid variable type: %w", err)
	}

	if len(v.FormatSpec) >= MaxFormatSpecLength {
		return fmt.Errorf("format specifier exceeds %d bytes: %w", MaxFormatSpecLength-1, ErrTooLong)
	}

	if len(v.TagSpec) >= MaxTagSpecLength {
		return fmt.Errorf("tag specifier exceeds %d bytes: %w", MaxTagSpecLength-1, ErrTooLong)
	}

	if len(v.Permissions.Read) > MaxPrincipals {
		return fmt.Errorf("read permission list has %d principals, maximum is %d: %w",
			len(v.Permissions.Read), MaxPrincipals, ErrTooManyPrincipals)
	}

	if len(v.Permissions.Write) > MaxPrincipals {
		return fmt.Errorf("write permission list has %d principals, maximum is %d: %w",
			len(v.Permissions.Write), MaxPrincipals, ErrTooManyPrincipals)
	}

	return nil
}
