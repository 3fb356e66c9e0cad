package io

import (
	"fmt"
	"strconv"
	"strings"
)

// Geometry formats grid dimensions as the "rowsxcolumns" string the
// registry compatibility hooks receive.
func Geometry(rows, columns int) string {
	return fmt.Sprintf("%dx%d", rows, columns)
}

func normalizeGeometry(geometry string) string {
	return strings.ToLower(strings.TrimSpace(geometry))
}

// parseGeometry splits a normalized "rowsxcolumns" string. Hooks use
// it to check addressing constraints; a malformed string reports ok
// false rather than an error so hooks can phrase their own rejection.
func parseGeometry(geometry string) (rows, columns int, ok bool) {
	parts := strings.Split(geometry, "x")
	if len(parts) != 2 {
		return 0, 0, false
	}
	rows, err := strconv.Atoi(parts[0])
	if err != nil || rows < 1 {
		return 0, 0, false
	}
	columns, err = strconv.Atoi(parts[1])
	if err != nil || columns < 1 {
		return 0, 0, false
	}
	return rows, columns, true
}
