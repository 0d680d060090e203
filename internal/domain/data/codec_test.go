package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{name: "empty content", content: "", want: 0},
		{name: "whitespace only", content: "  \n\t", want: 0},
		{name: "empty array", content: "[]", want: 0},
		{name: "two rows", content: `[{"id":"1"},{"id":"2","x":"y"}]`, want: 2},
		{name: "invalid json", content: `[{"id":`, wantErr: true},
		{name: "object at top level", content: `{"id":"1"}`, wantErr: true},
		{name: "scalar element", content: `[{"id":"1"}, 3]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := DecodeRows([]byte(tt.content))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, rows, tt.want)
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rows := []Row{
		RowOf("id", "1", "name", "A"),
		RowOf("id", "2", "name", "B", "extra", "x"),
	}

	encoded, err := EncodeRows(rows)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), "\n  {\n    \"id\": \"1\",")

	decoded, err := DecodeRows(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	for i := range rows {
		assert.True(t, rows[i].Equal(decoded[i]), "row %d differs", i)
	}
}

func TestEncodeRows_Nil(t *testing.T) {
	encoded, err := EncodeRows(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(encoded))
}
