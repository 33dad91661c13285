package location_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/anyswap/cmd/anyswap/location"
)

func TestResolve(t *testing.T) {
	text := "first\nsé, b\n"

	tests := []struct {
		name    string
		flags   location.Flags
		want    int
		wantErr bool
	}{
		{name: "offset", flags: location.Flags{Offset: 3, Column: 1}, want: 3},
		{name: "line start", flags: location.Flags{Offset: -1, Line: 2, Column: 1}, want: 6},
		{name: "column counts characters", flags: location.Flags{Offset: -1, Line: 2, Column: 3}, want: 9},
		{name: "offset past the end", flags: location.Flags{Offset: 99, Column: 1}, wantErr: true},
		{name: "line past the end", flags: location.Flags{Offset: -1, Line: 9, Column: 1}, wantErr: true},
		{name: "zero column", flags: location.Flags{Offset: -1, Line: 1, Column: 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.flags.Resolve(text)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
