package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseBasic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Entry
	}{
		{
			"Simple assignments",
			"APP_NAME=MyApp\nDEBUG=false\nEMPTY_VAR=\nGREETING=\"Hello, World!\"\nSINGLE='literal $NO_EXPAND'",
			[]Entry{
				{"APP_NAME", "MyApp"},
				{"DEBUG", "false"},
				{"EMPTY_VAR", ""},
				{"GREETING", "Hello, World!"},
				{"SINGLE", "literal $NO_EXPAND"},
			},
		},
		{
			"Empty input",
			"",
			nil,
		},
		{
			"Comments only",
			"# first\n   # second\n",
			nil,
		},
		{
			"Blank lines and indentation",
			"\n\n  A=1\n\t B=2\n",
			[]Entry{{"A", "1"}, {"B", "2"}},
		},
		{
			"Spaces around equals",
			"KEY = value\nOTHER\t=\tx",
			[]Entry{{"KEY", "value"}, {"OTHER", "x"}},
		},
		{
			"Key without value at end of line",
			"ALONE\nNEXT=1",
			[]Entry{{"ALONE", ""}, {"NEXT", "1"}},
		},
		{
			"Key without value at end of input",
			"ALONE",
			[]Entry{{"ALONE", ""}},
		},
		{
			"Equals with nothing after",
			"KEY=",
			[]Entry{{"KEY", ""}},
		},
		{
			"Duplicate keys preserved in order",
			"K=1\nK=2\nK=3",
			[]Entry{{"K", "1"}, {"K", "2"}, {"K", "3"}},
		},
		{
			"Value containing equals",
			"URL=postgres://u:p@host/db?sslmode=disable",
			[]Entry{{"URL", "postgres://u:p@host/db?sslmode=disable"}},
		},
		{
			"CRLF line endings",
			"A=1\r\nB=2\r\n",
			[]Entry{{"A", "1"}, {"B", "2"}},
		},
		{
			"Unquoted trailing whitespace trimmed",
			"PADDED=value   \t\nNEXT=1",
			[]Entry{{"PADDED", "value"}, {"NEXT", "1"}},
		},
		{
			"Underscore keys",
			"_PRIVATE=1\n__DOUBLE=2\nA_B_C9=3",
			[]Entry{{"_PRIVATE", "1"}, {"__DOUBLE", "2"}, {"A_B_C9", "3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Entry
	}{
		{
			"Inline comment after whitespace",
			"VAL=hello # trailing\nHASH=hello#middle",
			[]Entry{{"VAL", "hello"}, {"HASH", "hello#middle"}},
		},
		{
			"Comment instead of value",
			"KEY= # nothing here",
			[]Entry{{"KEY", ""}},
		},
		{
			"Comment after quoted value",
			`KEY="value" # note`,
			[]Entry{{"KEY", "value"}},
		},
		{
			"Hash inside quotes is literal",
			`COLOR="#ff8800"`,
			[]Entry{{"COLOR", "#ff8800"}},
		},
		{
			"Full-line comment between entries",
			"A=1\n# B is disabled\nC=3",
			[]Entry{{"A", "1"}, {"C", "3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseQuoting(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Entry
	}{
		{
			"Multiline double quoted",
			"ML=\"line1\nline2\nline3\"",
			[]Entry{{"ML", "line1\nline2\nline3"}},
		},
		{
			"Escape sequences",
			`ESC="tab:\there"`,
			[]Entry{{"ESC", "tab:\there"}},
		},
		{
			"Escaped double quote",
			`Q="say \"hi\""`,
			[]Entry{{"Q", `say "hi"`}},
		},
		{
			"Escaped dollar and backtick",
			"D=\"cost \\$5 and \\` tick\"",
			[]Entry{{"D", "cost $5 and ` tick"}},
		},
		{
			"Unknown escape keeps character",
			`U="a\zb"`,
			[]Entry{{"U", "azb"}},
		},
		{
			"Escaped backslash",
			`B="a\\b"`,
			[]Entry{{"B", `a\b`}},
		},
		{
			"Newline and carriage return escapes",
			`NL="a\nb\rc"`,
			[]Entry{{"NL", "a\nb\rc"}},
		},
		{
			"Backtick quoted",
			"T=`he said \"no\"`",
			[]Entry{{"T", `he said "no"`}},
		},
		{
			"Backtick multiline",
			"T=`one\ntwo`",
			[]Entry{{"T", "one\ntwo"}},
		},
		{
			"Single quoted is verbatim",
			`S='no \n escape $HOME'`,
			[]Entry{{"S", `no \n escape $HOME`}},
		},
		{
			"Single quoted apostrophe escape",
			`S='it\'s fine'`,
			[]Entry{{"S", "it's fine"}},
		},
		{
			"Single quoted literal backslash",
			`S='back\slash'`,
			[]Entry{{"S", `back\slash`}},
		},
		{
			"Single quoted multiline",
			"S='one\ntwo'",
			[]Entry{{"S", "one\ntwo"}},
		},
		{
			"Empty quoted values",
			"A=\"\"\nB=''\nC=``",
			[]Entry{{"A", ""}, {"B", ""}, {"C", ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("ParseString(%q) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		line    int
		column  int
	}{
		{"Digit at start of line", "123BAD=value", "Invalid character at start of line", 1, 1},
		{"Punctuation at start of line", "!BOOM=1", "Invalid character at start of line", 1, 1},
		{"Error position on later line", "GOOD=1\n9BAD=2", "Invalid character at start of line", 2, 1},
		{"Hyphen in key", "BAD-KEY=1", "Invalid character in key name", 1, 4},
		{"Missing equals", "KEY value", "Expected '=' after key", 1, 5},
		{"Newline before equals", "KEY \nX=1", "Expected '=' after key", 1, 5},
		{"Unterminated double quote", `KEY="unterminated`, "Unterminated quoted string at end of file", 1, 18},
		{"Unterminated single quote", "KEY='oops", "Unterminated quoted string at end of file", 1, 10},
		{"Unterminated backtick", "KEY=`oops", "Unterminated quoted string at end of file", 1, 10},
		{"Unterminated multiline", "KEY=\"line1\nline2", "Unterminated quoted string at end of file", 2, 6},
		{"Garbage after quoted value", `KEY="x" y`, "Unexpected character after quoted value", 1, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			if err == nil {
				t.Fatalf("ParseString(%q) expected error, got none", tt.input)
			}
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("ParseString(%q) error type = %T, want *Error", tt.input, err)
			}
			if perr.Message != tt.message {
				t.Errorf("message = %q, want %q", perr.Message, tt.message)
			}
			if perr.Line != tt.line || perr.Column != tt.column {
				t.Errorf("position = %d:%d, want %d:%d", perr.Line, perr.Column, tt.line, tt.column)
			}
		})
	}
}

func TestParseLinePositionAcrossMultilineValues(t *testing.T) {
	input := "A=\"one\ntwo\nthree\"\n4BAD=1"
	_, err := ParseString(input)
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if perr.Line != 4 || perr.Column != 1 {
		t.Errorf("position = %d:%d, want 4:1", perr.Line, perr.Column)
	}
}

func TestParseStable(t *testing.T) {
	input := "A=1\nB=\"two\nlines\"\nC='x'\nA=override # same key\n"
	first, err := ParseString(input)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ParseString(input)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated parse differs: %v vs %v", first, second)
	}
}

func TestParseLargeInput(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 10000; i++ {
		sb.WriteString("KEY_")
		sb.WriteString(strings.Repeat("A", 1+i%5))
		sb.WriteString("=value with some length to it\n")
	}
	entries, err := ParseString(sb.String())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 10000 {
		t.Errorf("entries = %d, want 10000", len(entries))
	}
}
