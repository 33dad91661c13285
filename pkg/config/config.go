// Package config loads dialect profiles: which extra operators and keywords
// apply to which files.
package config

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/anyswap/pkg/lexer"
)

type Config struct {
	// DefaultProfile names the profile used when no glob matches.
	DefaultProfile string     `yaml:"default_profile,omitempty" toml:"default_profile" hcl:"default_profile,optional"`
	Profiles       []*Profile `yaml:"profiles,omitempty" toml:"profile" hcl:"profile,block"`

	dialects map[string]*lexer.Dialect
}

type Profile struct {
	Name string `yaml:"name" toml:"name" hcl:"name,label"`
	// Match holds doublestar globs. A glob without a slash is also tried
	// against the base name.
	Match []string `yaml:"match,omitempty" toml:"match" hcl:"match,optional"`
	// PrefixKeywords open a statement level scope, like "return".
	PrefixKeywords []string    `yaml:"prefix_keywords,omitempty" toml:"prefix_keywords" hcl:"prefix_keywords,optional"`
	Operators      []*Operator `yaml:"operators,omitempty" toml:"operator" hcl:"operator,block"`
}

type Operator struct {
	Text string `yaml:"text" toml:"text" hcl:"text,attr"`
	// Group is a rank name such as "list", "assign" or "member".
	Group  string `yaml:"group" toml:"group" hcl:"group,attr"`
	Prefix bool   `yaml:"prefix,omitempty" toml:"prefix" hcl:"prefix,optional"`
	// FixedOperands keeps both sides in place, as built in for "=".
	FixedOperands bool `yaml:"fixed_operands,omitempty" toml:"fixed_operands" hcl:"fixed_operands,optional"`
	// FixedWhole keeps the whole expression from moving, as built in for ",".
	FixedWhole bool `yaml:"fixed_whole,omitempty" toml:"fixed_whole" hcl:"fixed_whole,optional"`
}

// Default is the configuration used when no file is given: the built-in
// dialect for every path.
func Default() *Config {
	return &Config{}
}

// Load reads a config file from fsys. The format follows the extension:
// .yaml/.yml, .toml, anything else is HCL.
func Load(ctx context.Context, fsys afero.Fs, name string) (*Config, error) {
	data, err := afero.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(name, data)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("file", name).
		Int("profiles", len(cfg.Profiles)).
		Str("default_profile", cfg.DefaultProfile).
		Msg("loaded config")

	return cfg, nil
}

// Parse decodes and validates config data. name picks the format.
func Parse(name string, data []byte) (*Config, error) {
	var cfg Config

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
	case ".toml":
		meta, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, errors.Errorf("parsing TOML: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Errorf("parsing TOML: unknown key %q", undecoded[0].String())
		}
	default:
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCL(data, name)
		if diags.HasErrors() {
			return nil, errors.Errorf("parsing HCL: %s", diags.Error())
		}

		evalCtx := &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"groups": groupNames(),
			},
		}
		if diags := gohcl.DecodeBody(file.Body, evalCtx, &cfg); diags.HasErrors() {
			return nil, errors.Errorf("decoding HCL: %s", diags.Error())
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("invalid config %s: %w", name, err)
	}
	return &cfg, nil
}

// groupNames exposes the rank names to HCL, so a file may write
// group = groups.assign.
func groupNames() cty.Value {
	names := map[string]cty.Value{}
	for r := lexer.RankStatement; r <= lexer.RankMember; r++ {
		names[r.String()] = cty.StringVal(r.String())
	}
	return cty.ObjectVal(names)
}

// Validate checks every profile and compiles its dialect. All problems are
// reported together.
func (c *Config) Validate() error {
	var result *multierror.Error
	dialects := map[string]*lexer.Dialect{}
	seen := map[string]bool{}

	for i, p := range c.Profiles {
		if p == nil || p.Name == "" {
			result = multierror.Append(result, errors.Errorf("profile %d has no name", i))
			continue
		}
		if seen[p.Name] {
			result = multierror.Append(result, errors.Errorf("profile %q is defined twice", p.Name))
			continue
		}
		seen[p.Name] = true

		for _, glob := range p.Match {
			if !doublestar.ValidatePattern(glob) {
				result = multierror.Append(result, errors.Errorf("profile %q: bad match pattern %q", p.Name, glob))
			}
		}

		entries, err := p.entries()
		if err != nil {
			result = multierror.Append(result, errors.Errorf("profile %q: %w", p.Name, err))
			continue
		}

		d, err := lexer.NewDialect(p.Name, entries...)
		if err != nil {
			result = multierror.Append(result, errors.Errorf("profile %q: %w", p.Name, err))
			continue
		}
		dialects[p.Name] = d
	}

	if c.DefaultProfile != "" && !c.hasProfile(c.DefaultProfile) {
		result = multierror.Append(result, errors.Errorf("default_profile %q is not defined", c.DefaultProfile))
	}

	if err := result.ErrorOrNil(); err != nil {
		return err
	}
	c.dialects = dialects
	return nil
}

func (c *Config) hasProfile(name string) bool {
	for _, p := range c.Profiles {
		if p != nil && p.Name == name {
			return true
		}
	}
	return false
}

func (p *Profile) entries() ([]lexer.Entry, error) {
	var entries []lexer.Entry
	for _, kw := range p.PrefixKeywords {
		entries = append(entries, lexer.Entry{Text: kw, Class: lexer.ClassPrefix, Rank: lexer.RankStatement})
	}

	var result *multierror.Error
	for _, op := range p.Operators {
		rank, ok := lexer.RankByName(op.Group)
		if !ok {
			result = multierror.Append(result, errors.Errorf("operator %q: unknown group %q", op.Text, op.Group))
			continue
		}
		class := lexer.ClassInfix
		if op.Prefix {
			class = lexer.ClassPrefix
		}
		var fixed lexer.Fixed
		if op.FixedOperands {
			fixed |= lexer.FixedOperands
		}
		if op.FixedWhole {
			fixed |= lexer.FixedWhole
		}
		entries = append(entries, lexer.Entry{Text: op.Text, Class: class, Rank: rank, Fixed: fixed})
	}
	return entries, result.ErrorOrNil()
}

// Profile returns the profile that applies to name: the first whose glob
// matches, else the default profile. It returns nil when neither exists.
func (c *Config) Profile(name string) *Profile {
	name = filepath.ToSlash(name)
	if name != "" {
		for _, p := range c.Profiles {
			if p.matches(name) {
				return p
			}
		}
	}
	if c.DefaultProfile == "" {
		return nil
	}
	for _, p := range c.Profiles {
		if p.Name == c.DefaultProfile {
			return p
		}
	}
	return nil
}

// DialectFor returns the dialect for a file, falling back to the built-in
// one.
func (c *Config) DialectFor(name string) *lexer.Dialect {
	p := c.Profile(name)
	if p == nil {
		return lexer.Default
	}
	if d, ok := c.dialects[p.Name]; ok {
		return d
	}
	return lexer.Default
}

func (p *Profile) matches(name string) bool {
	for _, glob := range p.Match {
		if ok, _ := doublestar.Match(glob, name); ok {
			return true
		}
		if !strings.Contains(glob, "/") {
			if ok, _ := doublestar.Match(glob, path.Base(name)); ok {
				return true
			}
		}
	}
	return false
}

type contextKey struct{}

// WithContext stores cfg in ctx for commands further down the call chain.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// FromContext returns the config stored by WithContext, or Default.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok && cfg != nil {
		return cfg
	}
	return Default()
}
