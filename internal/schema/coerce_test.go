package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceInteger(t *testing.T) {
	got, err := Coerce("42", TypeInteger)
	require.NoError(t, err)
	assert.Equal(t, float64(42), got)

	got, err = Coerce(" -7 ", TypeInteger)
	require.NoError(t, err)
	assert.Equal(t, float64(-7), got)

	got, err = Coerce(float64(5), TypeInteger)
	require.NoError(t, err)
	assert.Equal(t, float64(5), got)

	for _, raw := range []any{"7.5", "abc", "", 7.5, true} {
		_, err := Coerce(raw, TypeInteger)
		var ce *CoercionError
		assert.ErrorAs(t, err, &ce, "raw %v", raw)
	}
}

func TestCoerceNumber(t *testing.T) {
	got, err := Coerce("3.14", TypeNumber)
	require.NoError(t, err)
	assert.Equal(t, 3.14, got)

	_, err = Coerce("not a number", TypeNumber)
	assert.Error(t, err)
}

func TestCoerceBoolean(t *testing.T) {
	got, err := Coerce(true, TypeBoolean)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	got, err = Coerce("TRUE", TypeBoolean)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	got, err = Coerce(" false ", TypeBoolean)
	require.NoError(t, err)
	assert.Equal(t, false, got)

	for _, raw := range []any{"yes", "1", 1, float64(0)} {
		_, err := Coerce(raw, TypeBoolean)
		assert.Error(t, err, "raw %v", raw)
	}
}

func TestCoerceStringy(t *testing.T) {
	got, err := Coerce("hello", TypeString)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	got, err = Coerce(true, TypeEnum)
	require.NoError(t, err)
	assert.Equal(t, "true", got)

	got, err = Coerce("anything", TypeUnknown)
	require.NoError(t, err)
	assert.Equal(t, "anything", got)
}

func TestCoerceNilAlwaysFails(t *testing.T) {
	for _, ft := range []FieldType{TypeString, TypeEnum, TypeInteger, TypeNumber, TypeBoolean, TypeUnknown} {
		_, err := Coerce(nil, ft)
		assert.Error(t, err, "type %q", ft)
	}
}

func TestValidateEnum(t *testing.T) {
	def := &FieldDefinition{Enum: []any{"dev", "prod"}}

	assert.NoError(t, Validate("dev", def))

	err := Validate("staging", def)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "dev, prod")

	// Typed equality: the string "1" does not match the number 1.
	numDef := &FieldDefinition{Enum: []any{float64(1), float64(2)}}
	assert.Error(t, Validate("1", numDef))
	assert.NoError(t, Validate(float64(1), numDef))
}

func TestValidateRange(t *testing.T) {
	lo, hi := float64(1024), float64(65535)
	def := &FieldDefinition{Range: &Range{Min: &lo, Max: &hi}}

	assert.NoError(t, Validate(float64(8080), def))
	assert.NoError(t, Validate(float64(1024), def), "bounds are inclusive")
	assert.NoError(t, Validate(float64(65535), def))

	err := Validate(float64(99), def)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Value must be >= 1024.", ve.Message)

	err = Validate(float64(70000), def)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Value must be <= 65535.", ve.Message)

	// Ranges only constrain numeric values.
	assert.NoError(t, Validate("text", def))
}

func TestValidateNoConstraints(t *testing.T) {
	assert.NoError(t, Validate("anything", nil))
	assert.NoError(t, Validate(float64(1e9), &FieldDefinition{Label: "free"}))
}
