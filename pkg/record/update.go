package record

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// buildUpdate renders "UPDATE table SET a = ?, b = ? WHERE id = ?" for the
// allowed keys present in fields. ph renders the n-th (1-based) placeholder.
// It reports false when no allowed key is present.
func buildUpdate(table string, allowed []string, id string, fields map[string]any, ph func(int) string, conv func(string, any) any) (string, []any, bool) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if slices.Contains(allowed, k) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "", nil, false
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		sets = append(sets, fmt.Sprintf("%s = %s", k, ph(i+1)))
		v := fields[k]
		if conv != nil {
			v = conv(k, v)
		}
		args = append(args, v)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s", table, strings.Join(sets, ", "), ph(len(keys)+1))
	return query, args, true
}
