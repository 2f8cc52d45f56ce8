package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name  string  `json:"name" yaml:"name"`
	Count int     `json:"count" yaml:"count"`
	Ratio float64 `json:"ratio" yaml:"ratio"`
}

func TestCodecs(t *testing.T) {
	doc := testDoc{Name: "common_words", Count: 65, Ratio: 0.875}

	for _, c := range []Codec{JSON{}, YAML{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(doc)
			require.NoError(t, err)

			var got testDoc
			require.NoError(t, c.Unmarshal(data, &got))
			assert.Equal(t, doc, got)
		})
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "yaml"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestJSONIgnoresUnknownFields(t *testing.T) {
	var got testDoc
	err := JSON{}.Unmarshal([]byte(`{"name":"x","count":1,"ratio":0.5,"extra":true}`), &got)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Name)
}

func TestMustMarshal(t *testing.T) {
	data := MustMarshal(nil, testDoc{Name: "y"})
	assert.Contains(t, string(data), `"y"`)
}
