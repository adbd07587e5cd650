package sqlstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsIntegerType(t *testing.T) {
	for _, name := range []string{"INT", "integer", "BIGINT", "UNSIGNED BIGINT", "UNSIGNED INT", "TINYINT", "INT8", "INT4", "INT2"} {
		assert.True(t, isIntegerType(name), name)
	}
	for _, name := range []string{"", "TEXT", "VARCHAR", "NUMERIC", "DECIMAL", "FLOAT8", "POINT"} {
		assert.False(t, isIntegerType(name), name)
	}
}

func TestCoerceIntegers(t *testing.T) {
	values := map[string]any{
		"ID":       []byte("7"),
		"MobPhone": []byte("770001122"),
		"Phone":    "-42",
		"Nom":      []byte("Diallo"),
		"Huge":     []byte("18446744073709551615"),
		"Fax":      nil,
		"Already":  int64(3),
	}
	ints := map[string]bool{"ID": true, "MobPhone": true, "Phone": true, "Huge": true, "Fax": true, "Already": true}

	coerceIntegers(values, ints)

	assert.Equal(t, int64(7), values["ID"])
	assert.Equal(t, int64(770001122), values["MobPhone"])
	assert.Equal(t, int64(-42), values["Phone"])
	assert.Equal(t, []byte("Diallo"), values["Nom"], "non-integer columns are untouched")
	assert.Equal(t, []byte("18446744073709551615"), values["Huge"], "out of range values are kept as scanned")
	assert.Nil(t, values["Fax"])
	assert.Equal(t, int64(3), values["Already"])
}
