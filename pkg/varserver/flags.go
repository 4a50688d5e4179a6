package varserver

import (
	"fmt"
	"strings"
)

// Flags are bit-level behavioral attributes attached to a variable.
type Flags uint32

// FlagNone is the empty flag set.
const FlagNone Flags = 0

const (
	// FlagVolatile marks a variable that is not persisted across restarts.
	FlagVolatile Flags = 1 << iota

	// FlagReadOnly rejects writes after creation.
	FlagReadOnly

	// FlagHidden excludes the variable from listings.
	FlagHidden

	// FlagDirty marks a variable as modified since last persist.
	FlagDirty

	// FlagPublic makes the variable visible across instances.
	FlagPublic

	// FlagAudit records every write to the audit trail.
	FlagAudit

	// FlagPassword masks the value in listings and logs.
	FlagPassword

	// FlagTrigger notifies watchers on every write.
	FlagTrigger

	// FlagMetric includes the variable in metric collection.
	FlagMetric
)

// flagNames lists the flag vocabulary in canonical render order.
var flagNames = []struct {
	name string
	bit  Flags
}{
	{"volatile", FlagVolatile},
	{"readonly", FlagReadOnly},
	{"hidden", FlagHidden},
	{"dirty", FlagDirty},
	{"public", FlagPublic},
	{"audit", FlagAudit},
	{"password", FlagPassword},
	{"trigger", FlagTrigger},
	{"metric", FlagMetric},
}

// flagBits maps flag names to their bit for parsing.
var flagBits = func() map[string]Flags {
	m := make(map[string]Flags, len(flagNames))
	for _, f := range flagNames {
		m[f.name] = f.bit
	}
	return m
}()

// StrToFlags parses a comma- or pipe-separated list of flag names into a
// flag set. Parsing stops at the first unrecognized name and returns the
// bits accumulated so far together with an error wrapping ErrUnknownFlag,
// so callers can log the partial result. An empty specifier yields FlagNone.
func StrToFlags(s string) (Flags, error) {
	flags := FlagNone

	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|'
	}) {
		name := strings.TrimSpace(tok)
		if name == "" {
			continue
		}

		bit, ok := flagBits[name]
		if !ok {
			return flags, fmt.Errorf("%w: %q", ErrUnknownFlag, name)
		}
		flags |= bit
	}

	return flags, nil
}

// FlagNames lists every recognized flag name in canonical order.
func FlagNames() []string {
	names := make([]string, 0, len(flagNames))
	for _, fn := range flagNames {
		names = append(names, fn.name)
	}
	return names
}

// String renders the flag set as a comma-separated list of canonical names.
// FlagNone renders as the empty string.
func (f Flags) String() string {
	if f == FlagNone {
		return ""
	}

	names := make([]string, 0, len(flagNames))
	for _, fn := range flagNames {
		if f&fn.bit != 0 {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, ",")
}

// Has reports whether all bits in mask are set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}
