package varcreate

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/tjmonk/varcreate/pkg/varserver"
)

// fieldHandler binds one JSON attribute name to its extraction function.
// Handlers receive the descriptor under assembly and the attribute's raw
// JSON value; they validate, convert and store exactly one field.
type fieldHandler struct {
	attr string
	fn   func(info *varserver.VarInfo, raw json.RawMessage) error
}

// fieldHandlers is the dispatch table for variable record attributes,
// evaluated in this fixed order for every record. Order matters: the type
// must be resolved before the value can be converted, and the name must be
// extracted before record-level prefixing. The alias attribute is handled
// separately after creation.
var fieldHandlers = []fieldHandler{
	{"name", setName},
	{"guid", setGUID},
	{"type", setType},
	{"fmt", setFormat},
	{"length", setLength},
	{"value", setValue},
	{"tags", setTags},
	{"flags", setFlags},
	{"description", checkDocField},
	{"shortname", checkDocField},
	{"read", setReadPermissions},
	{"write", setWritePermissions},
}

// asString unwraps a JSON string value.
func asString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("expected a JSON string: %w", ErrWrongType)
	}
	return s, nil
}

// setName extracts the variable name, bounded by the server's name limit.
func setName(info *varserver.VarInfo, raw json.RawMessage) error {
	s, err := asString(raw)
	if err != nil {
		return err
	}

	if len(s) > varserver.MaxNameLength {
		return fmt.Errorf("name is %d bytes, maximum is %d: %w",
			len(s), varserver.MaxNameLength, varserver.ErrTooLong)
	}

	info.Name = s
	return nil
}

// setGUID parses the hex-encoded globally-unique identifier. The 0x prefix
// is optional; malformed text is rejected rather than treated as zero.
func setGUID(info *varserver.VarInfo, raw json.RawMessage) error {
	s, err := asString(raw)
	if err != nil {
		return err
	}

	digits := s
	if len(digits) >= 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		digits = digits[2:]
	}
	if digits == "" {
		return fmt.Errorf("guid %q has no hex digits: %w", s, ErrBadValue)
	}

	guid, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return fmt.Errorf("guid %q is not 32-bit hex: %w", s, ErrBadValue)
	}

	info.GUID = uint32(guid)
	return nil
}

// setType resolves the type name against the server's type vocabulary.
// Unknown names fail the attribute.
func setType(info *varserver.VarInfo, raw json.RawMessage) error {
	s, err := asString(raw)
	if err != nil {
		return err
	}

	t, err := varserver.TypeNameToType(s)
	if err != nil {
		return err
	}

	info.Obj.Type = t
	return nil
}

// setFormat extracts the bounded printf-style format specifier.
func setFormat(info *varserver.VarInfo, raw json.RawMessage) error {
	s, err := asString(raw)
	if err != nil {
		return err
	}

	if len(s) >= varserver.MaxFormatSpecLength {
		return fmt.Errorf("format specifier is %d bytes, maximum is %d: %w",
			len(s), varserver.MaxFormatSpecLength-1, varserver.ErrTooLong)
	}

	info.FormatSpec = s
	return nil
}

// setLength parses the storage length, auto-detecting base 16 on a 0x
// prefix. The prefix check requires at least two characters so single-digit
// lengths parse as decimal.
func setLength(info *varserver.VarInfo, raw json.RawMessage) error {
	s, err := asString(raw)
	if err != nil {
		return err
	}

	base := 10
	digits := s
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base = 16
		digits = s[2:]
	}
	if digits == "" {
		return fmt.Errorf("length %q has no digits: %w", s, ErrBadValue)
	}

	length, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return fmt.Errorf("length %q is not a valid number: %w", s, ErrBadValue)
	}

	info.Obj.Len = uint32(length)
	return nil
}

// setValue stores the initial value. String variables keep the source text
// as-is; its fit against the storage length is checked at record level, not
// here. Other types go through the generic string-to-typed conversion, so
// the type attribute must already have been resolved.
func setValue(info *varserver.VarInfo, raw json.RawMessage) error {
	s, err := asString(raw)
	if err != nil {
		return err
	}

	if info.Obj.Type == varserver.TypeStr {
		info.Obj.Val = s
		return nil
	}

	return info.Obj.SetFromString(s)
}

// setTags extracts the bounded tag specifier.
func setTags(info *varserver.VarInfo, raw json.RawMessage) error {
	s, err := asString(raw)
	if err != nil {
		return err
	}

	if len(s) >= varserver.MaxTagSpecLength {
		return fmt.Errorf("tag specifier is %d bytes, maximum is %d: %w",
			len(s), varserver.MaxTagSpecLength-1, varserver.ErrTooLong)
	}

	info.TagSpec = s
	return nil
}

// setFlags parses the flag-name list. On failure the bits recognized before
// the bad name are kept and logged alongside the failure so the offending
// specifier can be diagnosed from the log alone.
func setFlags(info *varserver.VarInfo, raw json.RawMessage) error {
	s, err := asString(raw)
	if err != nil {
		return err
	}

	flags, err := varserver.StrToFlags(s)
	info.Flags |= flags
	if err != nil {
		log.Printf("[VarCreate] flag specifier %q: partial flags 0x%08X (%s): %v",
			s, uint32(flags), flags, err)
		return err
	}

	return nil
}

// checkDocField validates the description and shortname attributes, which
// must be strings but are not part of the creation descriptor. The server
// receives them through its documentation channel outside this flow.
func checkDocField(info *varserver.VarInfo, raw json.RawMessage) error {
	_, err := asString(raw)
	return err
}

// setReadPermissions parses the read principal list.
func setReadPermissions(info *varserver.VarInfo, raw json.RawMessage) error {
	s, err := asString(raw)
	if err != nil {
		return err
	}

	ids, err := varserver.ParsePermissionSpec(s)
	if err != nil {
		return err
	}

	info.Permissions.Read = ids
	return nil
}

// setWritePermissions parses the write principal list.
func setWritePermissions(info *varserver.VarInfo, raw json.RawMessage) error {
	s, err := asString(raw)
	if err != nil {
		return err
	}

	ids, err := varserver.ParsePermissionSpec(s)
	if err != nil {
		return err
	}

	info.Permissions.Write = ids
	return nil
}
