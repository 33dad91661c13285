package swap_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/anyswap/cmd/anyswap/swap"
	"github.com/walteh/anyswap/pkg/config"
)

func execute(t *testing.T, fs afero.Fs, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cmd := swap.NewSwapCommand(fs)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestSwapCommand(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
		want    string
		wantErr bool
	}{
		{
			name:    "offset forward",
			content: "call(a, b, c)\n",
			args:    []string{"--offset", "5"},
			want:    "call(b, a, c)\n",
		},
		{
			name:    "line and column backward",
			content: "x = 1\ny = left - right\n",
			args:    []string{"--line", "2", "--column", "12", "--backward"},
			want:    "x = 1\ny = right - left\n",
		},
		{
			name:    "element mode crosses lines",
			content: "[\n  one,\n  two,\n]\n",
			args:    []string{"--line", "2", "--column", "3", "--mode", "element"},
			want:    "[\n  two,\n  one,\n]\n",
		},
		{
			name:    "nothing to swap prints the input",
			content: "alone\n",
			args:    []string{"--offset", "0"},
			want:    "alone\n",
		},
		{
			name:    "unknown mode",
			content: "a, b",
			args:    []string{"--offset", "0", "--mode", "sideways"},
			wantErr: true,
		},
		{
			name:    "cursor is required",
			content: "a, b",
			args:    []string{},
			wantErr: true,
		},
		{
			name:    "offset and line conflict",
			content: "a, b",
			args:    []string{"--offset", "0", "--line", "1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "src/main.txt", []byte(tt.content), 0o644))

			out, err := execute(t, fs, context.Background(), append([]string{"src/main.txt"}, tt.args...)...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSwapCommandWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "a.txt", []byte("a + b"), 0o600))

	out, err := execute(t, fs, context.Background(), "a.txt", "--offset", "0", "--write")
	require.NoError(t, err)
	assert.Empty(t, out)

	got, err := afero.ReadFile(fs, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "b + a", string(got))

	info, err := fs.Stat("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())
}

func TestSwapCommandUsesConfig(t *testing.T) {
	cfg, err := config.Parse("c.yaml", []byte("profiles:\n  - name: py\n    match: ['*.py']\n    operators:\n      - {text: in, group: relational}\n"))
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "x.py", []byte("key in table"), 0o644))

	out, err := execute(t, fs, config.WithContext(context.Background(), cfg), "x.py", "--offset", "0")
	require.NoError(t, err)
	assert.Equal(t, "table in key", out)
}

func TestSwapCommandMissingFile(t *testing.T) {
	_, err := execute(t, afero.NewMemMapFs(), context.Background(), "nope.txt", "--offset", "0")
	require.Error(t, err)
}
