package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"2011", 2011, false},
		{" 2022 ", 2022, false},
		{"2011.0", 2011, false},
		{"2011.5", 0, true},
		{"", 0, true},
		{"year", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInt(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJobID(t *testing.T) {
	id, ok := ParseJobID("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-1", "abc", "", "1.5"} {
		_, ok := ParseJobID(bad)
		assert.False(t, ok, bad)
	}
}
