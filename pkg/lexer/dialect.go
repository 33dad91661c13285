package lexer

import (
	"regexp"
	"slices"
	"strings"

	plexer "github.com/alecthomas/participle/v2/lexer"
	"gitlab.com/tozd/go/errors"
)

// Entry binds an operator or keyword to its class and rank.
type Entry struct {
	Text  string
	Class Class
	Rank  Rank
	Fixed Fixed
}

var brackets = map[string]string{
	"(": ")",
	"[": "]",
	"{": "}",
}

var builtinEntries = []Entry{
	{";", ClassInfix, RankStatement, FixedOperands | FixedWhole},
	{",", ClassInfix, RankList, FixedWhole},
	{":", ClassInfix, RankKeyValue, 0},
	{"=", ClassInfix, RankAssign, FixedOperands},
	{":=", ClassInfix, RankAssign, FixedOperands},
	{"+=", ClassInfix, RankAssign, FixedOperands},
	{"-=", ClassInfix, RankAssign, FixedOperands},
	{"*=", ClassInfix, RankAssign, FixedOperands},
	{"/=", ClassInfix, RankAssign, FixedOperands},
	{"%=", ClassInfix, RankAssign, FixedOperands},
	{"&=", ClassInfix, RankAssign, FixedOperands},
	{"|=", ClassInfix, RankAssign, FixedOperands},
	{"^=", ClassInfix, RankAssign, FixedOperands},
	{"||", ClassInfix, RankOr, 0},
	{"or", ClassInfix, RankOr, 0},
	{"&&", ClassInfix, RankAnd, 0},
	{"and", ClassInfix, RankAnd, 0},
	{"not", ClassPrefix, RankNot, 0},
	{"!", ClassPrefix, RankNot, 0},
	{"==", ClassInfix, RankEquality, 0},
	{"!=", ClassInfix, RankEquality, 0},
	{"~=", ClassInfix, RankEquality, 0},
	{"<", ClassInfix, RankRelational, 0},
	{"<=", ClassInfix, RankRelational, 0},
	{">", ClassInfix, RankRelational, 0},
	{">=", ClassInfix, RankRelational, 0},
	{"+", ClassInfix, RankAdditive, 0},
	{"-", ClassInfix, RankAdditive, 0},
	{"*", ClassInfix, RankMultiplicative, 0},
	{"/", ClassInfix, RankMultiplicative, 0},
	{"%", ClassInfix, RankMultiplicative, 0},
	{".", ClassInfix, RankMember, FixedOperands},
	{"return", ClassPrefix, RankStatement, 0},
	{"if", ClassPrefix, RankStatement, 0},
	{"elif", ClassPrefix, RankStatement, 0},
	{"while", ClassPrefix, RankStatement, 0},
	{"yield", ClassPrefix, RankStatement, 0},
	{"assert", ClassPrefix, RankStatement, 0},
	{"throw", ClassPrefix, RankStatement, 0},
}

const (
	ruleSpace        = "Space"
	ruleString       = "String"
	ruleUnterminated = "Unterminated"
	ruleAngle        = "Angle"
	ruleOperator     = "Operator"
	ruleWord         = "Word"
	ruleNumber       = "Number"
	ruleAtom         = "Atom"
	ruleChar         = "Char"
)

var wordPattern = regexp.MustCompile(`^\w+$`)

// Dialect is a classifier table together with the lexer compiled from it.
// A Dialect is immutable once built and safe for concurrent use.
type Dialect struct {
	name    string
	entries map[string]Entry
	def     *plexer.StatefulDefinition
	rules   map[plexer.TokenType]string
}

// Default is the built-in dialect, suitable for most C-like and
// Python-like lines.
var Default = MustDialect("default")

// NewDialect builds a dialect from the built-in table plus extra entries.
// Extra entries override built-in ones with the same text.
func NewDialect(name string, extra ...Entry) (*Dialect, error) {
	d := &Dialect{
		name:    name,
		entries: make(map[string]Entry, len(builtinEntries)+len(extra)),
	}

	for _, e := range builtinEntries {
		d.entries[e.Text] = e
	}

	for _, e := range extra {
		if err := validateEntry(e); err != nil {
			return nil, errors.Errorf("dialect %q: %w", name, err)
		}
		d.entries[e.Text] = e
	}

	def, err := plexer.NewSimple(d.rulesFor())
	if err != nil {
		return nil, errors.Errorf("dialect %q: compiling lexer: %w", name, err)
	}

	d.def = def
	d.rules = make(map[plexer.TokenType]string)
	for rule, typ := range def.Symbols() {
		d.rules[typ] = rule
	}

	return d, nil
}

func MustDialect(name string, extra ...Entry) *Dialect {
	d, err := NewDialect(name, extra...)
	if err != nil {
		panic(err)
	}
	return d
}

func validateEntry(e Entry) error {
	if e.Text == "" || strings.ContainsFunc(e.Text, isSpace) {
		return errors.Errorf("operator %q: must be non-empty and contain no whitespace", e.Text)
	}
	if e.Class != ClassInfix && e.Class != ClassPrefix {
		return errors.Errorf("operator %q: class %s cannot be configured", e.Text, e.Class)
	}
	if !e.Rank.IsOperator() {
		return errors.Errorf("operator %q: rank %d is not an operator group", e.Text, e.Rank)
	}
	if _, ok := brackets[e.Text]; ok || slices.Contains([]string{")", "]", "}"}, e.Text) {
		return errors.Errorf("operator %q: brackets are fixed", e.Text)
	}
	if strings.ContainsAny(e.Text, "\"'`") {
		return errors.Errorf("operator %q: quotes are reserved for string literals", e.Text)
	}
	if !wordPattern.MatchString(e.Text) && strings.ContainsFunc(e.Text, isWordRune) {
		return errors.Errorf("operator %q: mixes word and symbol characters", e.Text)
	}
	return nil
}

func isWordRune(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}

// rulesFor orders the lexer rules so that literals win over operators,
// longer operators win over their prefixes, and word operators only match
// whole words.
func (d *Dialect) rulesFor() []plexer.SimpleRule {
	var words, symbols []string
	for text := range d.entries {
		if wordPattern.MatchString(text) {
			words = append(words, text)
		} else {
			symbols = append(symbols, text)
		}
	}
	for o, c := range brackets {
		symbols = append(symbols, o, c)
	}

	byLength := func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	}
	slices.SortFunc(words, byLength)
	slices.SortFunc(symbols, byLength)

	quoted := make([]string, len(symbols))
	separators := map[rune]bool{'"': true, '\'': true, '`': true}
	for i, s := range symbols {
		quoted[i] = regexp.QuoteMeta(s)
		for _, r := range s {
			separators[r] = true
		}
	}

	var class strings.Builder
	class.WriteString(`[^\s`)
	seps := make([]rune, 0, len(separators))
	for r := range separators {
		seps = append(seps, r)
	}
	slices.Sort(seps)
	for _, r := range seps {
		if r == '-' {
			class.WriteString(`\-`)
			continue
		}
		class.WriteString(regexp.QuoteMeta(string(r)))
	}
	class.WriteString(`]+`)

	rules := []plexer.SimpleRule{
		{Name: ruleSpace, Pattern: `\s+`},
		{Name: ruleString, Pattern: `"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'|` + "`[^`]*`"},
		{Name: ruleUnterminated, Pattern: "[\"'`].*"},
		{Name: ruleAngle, Pattern: `<[\w.:?\[\]]+(?:\s*,\s*[\w.:?\[\]]+)*>`},
	}
	if len(words) > 0 {
		rules = append(rules, plexer.SimpleRule{Name: ruleWord, Pattern: `\b(?:` + strings.Join(words, "|") + `)\b`})
	}
	rules = append(rules,
		plexer.SimpleRule{Name: ruleOperator, Pattern: strings.Join(quoted, "|")},
		plexer.SimpleRule{Name: ruleNumber, Pattern: `\d+(?:\.\d+)?(?:[eE][-+]?\d+)?\w*`},
		plexer.SimpleRule{Name: ruleAtom, Pattern: class.String()},
		plexer.SimpleRule{Name: ruleChar, Pattern: `(?s:.)`},
	)
	return rules
}

func (d *Dialect) Name() string {
	return d.name
}

// FixedFor returns the swap limits of an operator. Anything outside the
// table has none.
func (d *Dialect) FixedFor(text string) Fixed {
	return d.entries[text].Fixed
}

// Classify maps matched text to its class and rank. Anything outside the
// table is an atom.
func (d *Dialect) Classify(text string) (Class, Rank) {
	if _, ok := brackets[text]; ok {
		return ClassOpen, RankScope
	}
	switch text {
	case ")", "]", "}":
		return ClassClose, RankScope
	}
	if e, ok := d.entries[text]; ok {
		return e.Class, e.Rank
	}
	return ClassAtom, RankAtom
}

// Closer returns the closer matching an opener.
func (d *Dialect) Closer(open string) (string, bool) {
	c, ok := brackets[open]
	return c, ok
}

// Opener returns the opener matching a closer.
func (d *Dialect) Opener(closer string) (string, bool) {
	for o, c := range brackets {
		if c == closer {
			return o, true
		}
	}
	return "", false
}

// Entries lists the operator table sorted by rank, then text.
func (d *Dialect) Entries() []Entry {
	out := make([]Entry, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if a.Rank != b.Rank {
			return int(a.Rank - b.Rank)
		}
		return strings.Compare(a.Text, b.Text)
	})
	return out
}
