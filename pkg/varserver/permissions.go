package varserver

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePermissionSpec parses a comma-separated list of decimal principal IDs
// (e.g. "0,1001,1002") into a permission list. The list is capped at
// MaxPrincipals; malformed entries are rejected. An empty specifier yields
// an empty list, meaning the server's default policy applies.
func ParsePermissionSpec(spec string) ([]uint32, error) {
	var principals []uint32

	for _, tok := range strings.Split(spec, ",") {
		entry := strings.TrimSpace(tok)
		if entry == "" {
			continue
		}

		id, err := strconv.ParseUint(entry, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid principal ID %q: %w", entry, err)
		}

		if len(principals) >= MaxPrincipals {
			return nil, fmt.Errorf("permission specifier %q: %w (maximum %d)",
				spec, ErrTooManyPrincipals, MaxPrincipals)
		}

		principals = append(principals, uint32(id))
	}

	return principals, nil
}
