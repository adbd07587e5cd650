package sqlstore

import (
	"database/sql"
	"strconv"
	"strings"
)

// integerTypes are the database type names reported for integer columns by the supported drivers.
var integerTypes = map[string]bool{
	"INT":       true,
	"INTEGER":   true,
	"BIGINT":    true,
	"SMALLINT":  true,
	"TINYINT":   true,
	"MEDIUMINT": true,
	"INT2":      true,
	"INT4":      true,
	"INT8":      true,
}

func isIntegerType(name string) bool {
	name = strings.ToUpper(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "UNSIGNED ")
	return integerTypes[name]
}

// integerColumns returns the result columns declared with an integer type / Colonnes de type entier
func integerColumns(types []*sql.ColumnType) map[string]bool {
	ints := make(map[string]bool)
	for _, ct := range types {
		if isIntegerType(ct.DatabaseTypeName()) {
			ints[ct.Name()] = true
		}
	}
	return ints
}

// coerceIntegers turns the textual values of integer columns into int64.
// MySQL sends unparameterised results as text, so the same column would
// otherwise surface as []byte on one query and int64 on another.
func coerceIntegers(values map[string]any, ints map[string]bool) {
	for col := range ints {
		var raw string
		switch v := values[col].(type) {
		case []byte:
			raw = string(v)
		case string:
			raw = v
		default:
			continue
		}
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			values[col] = n
		}
	}
}
