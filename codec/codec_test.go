package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_RoundTrip(t *testing.T) {
	type manifest struct {
		Name  string `json:"name"`
		NRows int    `json:"nrows"`
		Cell  []int  `json:"cell,omitempty"`
	}

	in := manifest{Name: "DATA", NRows: 250, Cell: []int{4, 32}}
	raw, err := JSON{}.Marshal(in)
	require.NoError(t, err)

	var out manifest
	require.NoError(t, JSON{}.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestDefault(t *testing.T) {
	require.NotNil(t, Default)
	assert.Equal(t, "json", Default.Name())
}

func TestMustMarshal(t *testing.T) {
	raw := MustMarshal(nil, map[string]int{"a": 1})
	assert.Contains(t, string(raw), `"a"`)

	assert.Panics(t, func() {
		MustMarshal(JSON{}, make(chan int))
	})
}
