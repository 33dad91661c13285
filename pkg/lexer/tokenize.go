package lexer

import (
	"strings"

	plexer "github.com/alecthomas/participle/v2/lexer"

	"github.com/walteh/anyswap/pkg/position"
)

// Tokenize splits line into classified tokens. base is the buffer offset of
// the first byte of line, so token ranges are buffer offsets. Whitespace is
// dropped. Tokenize never fails: an unterminated quote becomes one atom
// running to the end of the line.
func (d *Dialect) Tokenize(line string, base int) []Token {
	lex, err := d.def.LexString("", line)
	if err != nil {
		return restAsAtom(line, base)
	}

	raw, err := plexer.ConsumeAll(lex)
	if err != nil {
		return restAsAtom(line, base)
	}

	out := make([]Token, 0, len(raw))
	for _, tok := range raw {
		if tok.EOF() {
			break
		}

		rule := d.rules[tok.Type]
		if rule == ruleSpace {
			continue
		}

		begin := base + tok.Pos.Offset
		t := Token{
			Text:  tok.Value,
			Range: position.NewRange(begin, begin+len(tok.Value)),
		}

		switch rule {
		case ruleOperator, ruleWord:
			t.Class, t.Rank = d.Classify(tok.Value)
			t.Fixed = d.FixedFor(tok.Value)
		default:
			t.Class, t.Rank = ClassAtom, RankAtom
		}

		switch t.Class {
		case ClassOpen:
			t.Pair, _ = d.Closer(t.Text)
		case ClassClose:
			t.Pair, _ = d.Opener(t.Text)
		}

		out = append(out, t)
	}

	return out
}

func restAsAtom(line string, base int) []Token {
	trimmed := strings.TrimLeft(line, " \t")
	begin := base + len(line) - len(trimmed)
	trimmed = strings.TrimRight(trimmed, " \t\r\n")
	if trimmed == "" {
		return nil
	}
	return []Token{{
		Text:  trimmed,
		Class: ClassAtom,
		Rank:  RankAtom,
		Range: position.NewRange(begin, begin+len(trimmed)),
	}}
}
