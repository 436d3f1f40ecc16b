package parser

import (
	"testing"

	"github.com/joho/godotenv"
)

// The grammar intentionally stays compatible with the common dotenv dialect
// for everyday inputs. Parse a shared corpus with godotenv and compare
// last-writer-wins maps. Inputs where dialects legitimately diverge
// (inline comments, expansion, backticks) are covered by the main tests
// instead.
func TestParseGodotenvCompat(t *testing.T) {
	corpus := []string{
		"KEY=value",
		"A=1\nB=2\nC=3",
		"EMPTY=",
		"SPACED=hello world",
		"QUOTED=\"a quoted value\"",
		"SINGLE='kept literal'",
		"ESCAPED=\"say \\\"hi\\\" now\"",
		"NEWLINE=\"one\\ntwo\"",
		"# leading comment\nREAL=yes\n# trailing comment",
		"DUP=first\nDUP=second",
		"URL=https://example.com/path?x=1",
	}

	for _, input := range corpus {
		entries, err := ParseString(input)
		if err != nil {
			t.Errorf("ParseString(%q) error: %v", input, err)
			continue
		}
		ours := make(map[string]string, len(entries))
		for _, e := range entries {
			ours[e.Key] = e.Value
		}

		theirs, err := godotenv.Unmarshal(input)
		if err != nil {
			t.Errorf("godotenv.Unmarshal(%q) error: %v", input, err)
			continue
		}

		if len(ours) != len(theirs) {
			t.Errorf("input %q: key count %d vs godotenv %d", input, len(ours), len(theirs))
			continue
		}
		for k, v := range theirs {
			if got, ok := ours[k]; !ok || got != v {
				t.Errorf("input %q key %q: got %q, godotenv %q", input, k, got, v)
			}
		}
	}
}
