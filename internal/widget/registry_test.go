package widget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFor(t *testing.T) {
	r := DefaultRegistry()

	for _, typ := range []string{
		"text", "image", "quote", "embed",
		"doctor-assessment", "doctor-closing-word",
	} {
		s, ok := r.SchemaFor(typ)
		assert.True(t, ok, "type %q should be registered", typ)
		assert.NotNil(t, s)
	}

	_, ok := r.SchemaFor("nope")
	assert.False(t, ok)
}

func TestRegisterNewTypeWithoutTouchingValidator(t *testing.T) {
	r := DefaultRegistry()

	// an unregistered type passes through opaque
	col, warnings, err := r.Validate([]byte(`[{"type":"poll","config":{}}]`))
	require.NoError(t, err)
	require.Len(t, col, 1)
	require.Len(t, warnings, 1)
	assert.False(t, col[0].Known)

	r.Register("poll", &Schema{
		Required: map[string]Constraint{
			"question": {Kind: KindString},
			"options":  {Kind: KindArray},
		},
		Optional: map[string]Optional{
			"multiple": {Constraint: Constraint{Kind: KindBool}, Default: false},
		},
	})

	// same input is now validated against the new schema
	col, warnings, err = r.Validate([]byte(`[{"type":"poll","config":{}}]`))
	require.NoError(t, err)
	require.Len(t, col, 1)
	require.Len(t, warnings, 2)
	assert.True(t, col[0].Known)
	assert.Equal(t, false, col[0].Config["multiple"])
}
