package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_SortsKeys(t *testing.T) {
	got, err := Marshal(map[string]any{"b": 1, "a": "x", "c": true})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1,"c":true}`, string(got))
}

func TestMarshal_Nested(t *testing.T) {
	got, err := Marshal(map[string]any{
		"innings": []any{
			map[string]any{"runs": 180, "wickets": int64(4)},
			map[string]any{"runs": 181, "wickets": int64(3)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"innings":[{"runs":180,"wickets":4},{"runs":181,"wickets":3}]}`, string(got))
}

func TestMarshal_RejectsFloatsAndNull(t *testing.T) {
	_, err := Marshal(map[string]any{"rate": 7.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")

	_, err = Marshal(map[string]any{"x": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null is forbidden")
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	got, err := Marshal("Kings & Knights <XI>")
	require.NoError(t, err)
	assert.Equal(t, `"Kings & Knights <XI>"`, string(got))
}

func TestMarshal_NFCNormalizes(t *testing.T) {
	// "e" + combining acute accent normalizes to the precomposed form.
	decomposed := "José"
	composed := "José"

	a, err := Marshal(decomposed)
	require.NoError(t, err)
	b, err := Marshal(composed)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
}

func TestMarshal_LineSeparatorsUnescaped(t *testing.T) {
	got, err := Marshal("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(got))

	// A literal backslash followed by u2028 text stays escaped.
	got, err = Marshal(`a\u2028b`)
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(got))
}

func TestCompareUTF16(t *testing.T) {
	assert.Equal(t, 0, compareUTF16("abc", "abc"))
	assert.Equal(t, -1, compareUTF16("ab", "abc"))
	assert.Equal(t, 1, compareUTF16("b", "a"))
	// U+1F600 encodes as a surrogate pair (0xD83D...) which sorts before U+FF61.
	assert.Equal(t, -1, compareUTF16("\U0001F600", "｡"))
}

func TestDeliveryID_StableAndDistinct(t *testing.T) {
	fields := map[string]any{"match_id": int64(1), "seq": int64(1), "runs": 4}

	id1, err := DeliveryID(fields)
	require.NoError(t, err)
	id2, err := DeliveryID(map[string]any{"runs": 4, "seq": int64(1), "match_id": int64(1)})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64)

	fields["seq"] = int64(2)
	id3, err := DeliveryID(fields)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id3)
}

func TestHash_DomainSeparated(t *testing.T) {
	v := map[string]any{"a": 1}
	h1, err := Hash(DomainDelivery, v)
	require.NoError(t, err)
	h2, err := Hash(DomainSnapshot, v)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
