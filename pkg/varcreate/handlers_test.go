package varcreate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjmonk/varcreate/pkg/varserver"
)

func raw(s string) json.RawMessage {
	return json.RawMessage(s)
}

func TestSetName(t *testing.T) {
	t.Run("extracts the name", func(t *testing.T) {
		info := &varserver.VarInfo{}
		require.NoError(t, setName(info, raw(`"sys.temperature"`)))
		assert.Equal(t, "sys.temperature", info.Name)
	})

	t.Run("accepts a name at the limit", func(t *testing.T) {
		info := &varserver.VarInfo{}
		name := strings.Repeat("n", varserver.MaxNameLength)
		require.NoError(t, setName(info, raw(`"`+name+`"`)))
		assert.Equal(t, name, info.Name)
	})

	t.Run("rejects a name over the limit", func(t *testing.T) {
		info := &varserver.VarInfo{}
		name := strings.Repeat("n", varserver.MaxNameLength+1)
		err := setName(info, raw(`"`+name+`"`))
		assert.ErrorIs(t, err, varserver.ErrTooLong)
		assert.Empty(t, info.Name)
	})

	t.Run("rejects a non-string value", func(t *testing.T) {
		info := &varserver.VarInfo{}
		assert.ErrorIs(t, setName(info, raw(`42`)), ErrWrongType)
	})
}

func TestSetGUID(t *testing.T) {
	t.Run("parses prefixed hex", func(t *testing.T) {
		info := &varserver.VarInfo{}
		require.NoError(t, setGUID(info, raw(`"0x1A2B3C4D"`)))
		assert.Equal(t, uint32(0x1A2B3C4D), info.GUID)
	})

	t.Run("parses bare hex", func(t *testing.T) {
		info := &varserver.VarInfo{}
		require.NoError(t, setGUID(info, raw(`"DEADBEEF"`)))
		assert.Equal(t, uint32(0xDEADBEEF), info.GUID)
	})

	t.Run("zero is a valid guid", func(t *testing.T) {
		info := &varserver.VarInfo{}
		require.NoError(t, setGUID(info, raw(`"0"`)))
		assert.Equal(t, uint32(0), info.GUID)
	})

	t.Run("rejects malformed hex", func(t *testing.T) {
		info := &varserver.VarInfo{}
		assert.ErrorIs(t, setGUID(info, raw(`"0xNOPE"`)), ErrBadValue)
		assert.ErrorIs(t, setGUID(info, raw(`""`)), ErrBadValue)
		assert.ErrorIs(t, setGUID(info, raw(`"0x"`)), ErrBadValue)
	})

	t.Run("rejects hex over 32 bits", func(t *testing.T) {
		info := &varserver.VarInfo{}
		assert.ErrorIs(t, setGUID(info, raw(`"0x1FFFFFFFF"`)), ErrBadValue)
	})
}

func TestSetType(t *testing.T) {
	t.Run("resolves a known type", func(t *testing.T) {
		info := &varserver.VarInfo{}
		require.NoError(t, setType(info, raw(`"uint32"`)))
		assert.Equal(t, varserver.TypeUint32, info.Obj.Type)
	})

	t.Run("rejects an unknown type name", func(t *testing.T) {
		info := &varserver.VarInfo{}
		err := setType(info, raw(`"unit32"`))
		assert.ErrorIs(t, err, varserver.ErrUnknownType)
		assert.Equal(t, varserver.TypeInvalid, info.Obj.Type)
	})
}

func TestSetLength(t *testing.T) {
	t.Run("resolves documented forms", func(t *testing.T) {
		cases := []struct {
			src  string
			want uint32
		}{
			{"0x10", 16},
			{"16", 16},
			{"0", 0},
			{"5", 5},
			{"0X20", 32},
		}

		for _, tc := range cases {
			info := &varserver.VarInfo{}
			err := setLength(info, raw(`"`+tc.src+`"`))
			require.NoError(t, err, "length %q", tc.src)
			assert.Equal(t, tc.want, info.Obj.Len, "length %q", tc.src)
		}
	})

	t.Run("rejects a bare base prefix", func(t *testing.T) {
		info := &varserver.VarInfo{}
		assert.ErrorIs(t, setLength(info, raw(`"0x"`)), ErrBadValue)
	})

	t.Run("rejects non-numeric text", func(t *testing.T) {
		info := &varserver.VarInfo{}
		assert.ErrorIs(t, setLength(info, raw(`"big"`)), ErrBadValue)
	})

	t.Run("rejects a JSON number", func(t *testing.T) {
		info := &varserver.VarInfo{}
		assert.ErrorIs(t, setLength(info, raw(`16`)), ErrWrongType)
	})
}

func TestSetValue(t *testing.T) {
	t.Run("string variables keep the source text", func(t *testing.T) {
		info := &varserver.VarInfo{Obj: varserver.VarObject{Type: varserver.TypeStr}}
		require.NoError(t, setValue(info, raw(`"hello"`)))
		assert.Equal(t, "hello", info.Obj.Val)
		// Fit against the storage length is checked at record level.
		assert.Equal(t, uint32(0), info.Obj.Len)
	})

	t.Run("numeric variables convert the text", func(t *testing.T) {
		info := &varserver.VarInfo{Obj: varserver.VarObject{Type: varserver.TypeUint16}}
		require.NoError(t, setValue(info, raw(`"1024"`)))
		assert.Equal(t, uint16(1024), info.Obj.Val)
	})

	t.Run("rejects unconvertible text", func(t *testing.T) {
		info := &varserver.VarInfo{Obj: varserver.VarObject{Type: varserver.TypeUint16}}
		assert.Error(t, setValue(info, raw(`"fast"`)))
	})

	t.Run("fails when no type was resolved", func(t *testing.T) {
		info := &varserver.VarInfo{}
		assert.ErrorIs(t, setValue(info, raw(`"1"`)), varserver.ErrUnknownType)
	})
}

func TestSetFormatAndTags(t *testing.T) {
	t.Run("stores bounded specifiers", func(t *testing.T) {
		info := &varserver.VarInfo{}
		require.NoError(t, setFormat(info, raw(`"%0.2f"`)))
		assert.Equal(t, "%0.2f", info.FormatSpec)

		require.NoError(t, setTags(info, raw(`"sensor,ambient"`)))
		assert.Equal(t, "sensor,ambient", info.TagSpec)
	})

	t.Run("format bound is exclusive", func(t *testing.T) {
		info := &varserver.VarInfo{}
		ok := strings.Repeat("f", varserver.MaxFormatSpecLength-1)
		require.NoError(t, setFormat(info, raw(`"`+ok+`"`)))

		over := strings.Repeat("f", varserver.MaxFormatSpecLength)
		assert.ErrorIs(t, setFormat(info, raw(`"`+over+`"`)), varserver.ErrTooLong)
	})

	t.Run("tag bound is exclusive", func(t *testing.T) {
		info := &varserver.VarInfo{}
		over := strings.Repeat("t", varserver.MaxTagSpecLength)
		assert.ErrorIs(t, setTags(info, raw(`"`+over+`"`)), varserver.ErrTooLong)
	})
}

func TestSetFlags(t *testing.T) {
	t.Run("parses the flag list", func(t *testing.T) {
		info := &varserver.VarInfo{}
		require.NoError(t, setFlags(info, raw(`"volatile,readonly"`)))
		assert.Equal(t, varserver.FlagVolatile|varserver.FlagReadOnly, info.Flags)
	})

	t.Run("keeps partial flags on failure", func(t *testing.T) {
		info := &varserver.VarInfo{}
		err := setFlags(info, raw(`"volatile,bogus"`))
		assert.ErrorIs(t, err, varserver.ErrUnknownFlag)
		assert.Equal(t, varserver.FlagVolatile, info.Flags)
	})
}

func TestCheckDocField(t *testing.T) {
	info := &varserver.VarInfo{}

	assert.NoError(t, checkDocField(info, raw(`"cpu temperature in celsius"`)))
	assert.ErrorIs(t, checkDocField(info, raw(`17`)), ErrWrongType)

	// Content is documentation-only and never lands in the descriptor.
	assert.Equal(t, &varserver.VarInfo{}, info)
}

func TestSetPermissions(t *testing.T) {
	t.Run("parses principal lists", func(t *testing.T) {
		info := &varserver.VarInfo{}
		require.NoError(t, setReadPermissions(info, raw(`"0,1001"`)))
		require.NoError(t, setWritePermissions(info, raw(`"0"`)))
		assert.Equal(t, []uint32{0, 1001}, info.Permissions.Read)
		assert.Equal(t, []uint32{0}, info.Permissions.Write)
	})

	t.Run("propagates the principal cap", func(t *testing.T) {
		entries := make([]string, varserver.MaxPrincipals+1)
		for i := range entries {
			entries[i] = "1"
		}

		info := &varserver.VarInfo{}
		err := setReadPermissions(info, raw(`"`+strings.Join(entries, ",")+`"`))
		assert.ErrorIs(t, err, varserver.ErrTooManyPrincipals)
	})
}

func TestHandlerTableOrder(t *testing.T) {
	// The defaulting sequence depends on this exact order; value conversion
	// in particular requires the type to be resolved first.
	want := []string{
		"name", "guid", "type", "fmt", "length", "value",
		"tags", "flags", "description", "shortname", "read", "write",
	}

	require.Len(t, fieldHandlers, len(want))
	for i, h := range fieldHandlers {
		assert.Equal(t, want[i], h.attr, "handler %d", i)
	}
}
