package config_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/anyswap/pkg/config"
	"github.com/walteh/anyswap/pkg/lexer"
)

const yamlConfig = `
default_profile: plain
profiles:
  - name: python
    match: ["*.py", "scripts/**"]
    prefix_keywords: [lambda]
    operators:
      - text: in
        group: relational
      - text: await
        group: not
        prefix: true
      - text: "=>"
        group: key_value
        fixed_operands: true
  - name: plain
`

const tomlConfig = `
default_profile = "plain"

[[profile]]
name = "python"
match = ["*.py", "scripts/**"]
prefix_keywords = ["lambda"]

[[profile.operator]]
text = "in"
group = "relational"

[[profile.operator]]
text = "await"
group = "not"
prefix = true

[[profile.operator]]
text = "=>"
group = "key_value"
fixed_operands = true

[[profile]]
name = "plain"
`

const hclConfig = `
default_profile = "plain"

profile "python" {
  match           = ["*.py", "scripts/**"]
  prefix_keywords = ["lambda"]

  operator {
    text  = "in"
    group = groups.relational
  }

  operator {
    text   = "await"
    group  = "not"
    prefix = true
  }

  operator {
    text           = "=>"
    group          = groups.key_value
    fixed_operands = true
  }
}

profile "plain" {}
`

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{name: "yaml", file: "anyswap.yaml", data: yamlConfig},
		{name: "yml", file: "anyswap.yml", data: yamlConfig},
		{name: "toml", file: "anyswap.toml", data: tomlConfig},
		{name: "hcl", file: "anyswap.hcl", data: hclConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, tt.file, []byte(tt.data), 0o644))

			cfg, err := config.Load(context.Background(), fs, tt.file)
			require.NoError(t, err)

			require.Len(t, cfg.Profiles, 2)
			assert.Equal(t, "plain", cfg.DefaultProfile)

			py := cfg.Profiles[0]
			assert.Equal(t, "python", py.Name)
			assert.Equal(t, []string{"*.py", "scripts/**"}, py.Match)
			assert.Equal(t, []string{"lambda"}, py.PrefixKeywords)
			require.Len(t, py.Operators, 3)
			assert.Equal(t, config.Operator{Text: "in", Group: "relational"}, *py.Operators[0])
			assert.Equal(t, config.Operator{Text: "await", Group: "not", Prefix: true}, *py.Operators[1])
			assert.Equal(t, config.Operator{Text: "=>", Group: "key_value", FixedOperands: true}, *py.Operators[2])

			d := cfg.DialectFor("src/app/main.py")
			assert.Equal(t, "python", d.Name())
			class, rank := d.Classify("in")
			assert.Equal(t, lexer.ClassInfix, class)
			assert.Equal(t, lexer.RankRelational, rank)
			class, rank = d.Classify("lambda")
			assert.Equal(t, lexer.ClassPrefix, class)
			assert.Equal(t, lexer.RankStatement, rank)
			class, _ = d.Classify("await")
			assert.Equal(t, lexer.ClassPrefix, class)
			assert.Equal(t, lexer.FixedOperands, d.FixedFor("=>"))
			assert.Zero(t, d.FixedFor("in"))

			assert.Equal(t, "python", cfg.DialectFor("scripts/tool/run").Name())
			assert.Equal(t, "plain", cfg.DialectFor("main.go").Name())
			assert.Equal(t, "plain", cfg.DialectFor("").Name())
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.Default()
	assert.Same(t, lexer.Default, cfg.DialectFor("x.py"))
	assert.Nil(t, cfg.Profile("x.py"))
}

func TestNoDefaultProfile(t *testing.T) {
	cfg, err := config.Parse("c.yaml", []byte("profiles:\n  - name: js\n    match: ['**/*.js']\n"))
	require.NoError(t, err)
	assert.Equal(t, "js", cfg.DialectFor("web/index.js").Name())
	assert.Same(t, lexer.Default, cfg.DialectFor("web/index.ts"))
}

func TestValidationCollectsEveryProblem(t *testing.T) {
	data := `
default_profile: missing
profiles:
  - name: ""
  - name: a
    match: ["[unclosed"]
    operators:
      - text: "=>"
        group: arrow
  - name: a
  - name: b
    operators:
      - text: "("
        group: list
`
	_, err := config.Parse("c.yaml", []byte(data))
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		"profile 0 has no name",
		`bad match pattern "[unclosed"`,
		`unknown group "arrow"`,
		`profile "a" is defined twice`,
		`profile "b"`,
		`default_profile "missing" is not defined`,
	} {
		assert.Contains(t, msg, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{name: "unknown yaml field", file: "c.yaml", data: "profilez: []\n"},
		{name: "unknown toml key", file: "c.toml", data: "colour = \"red\"\n"},
		{name: "bad hcl", file: "c.hcl", data: "profile {"},
		{name: "unknown hcl attribute", file: "c.hcl", data: "colour = \"red\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse(tt.file, []byte(tt.data))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(context.Background(), afero.NewMemMapFs(), "nope.yaml")
	require.Error(t, err)
}
