// Package expand performs shell-style variable substitution on strings.
// It recognizes $NAME, ${NAME}, and the POSIX-subset operators
// ${NAME:-default}, ${NAME:+alternate}, and ${NAME-default}.
package expand

import "strings"

// Lookup resolves a variable name to its value. The second return reports
// whether the name is set at all, which distinguishes ${NAME-d} from
// ${NAME:-d} for set-but-empty variables.
type Lookup func(name string) (string, bool)

// Map returns a Lookup over a plain string map.
func Map(m map[string]string) Lookup {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

func isNameChar(c byte) bool {
	return c == '_' ||
		(c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9')
}

// Expand substitutes every variable reference in s using lookup. Lookup
// misses substitute the empty string. Substituted text is not re-scanned,
// so expansion of a single string never recurses.
func Expand(s string, lookup Lookup) string {
	if !strings.ContainsRune(s, '$') {
		return s
	}

	var out strings.Builder
	out.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '$' {
			out.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			out.WriteByte('$')
			break
		}

		if s[i+1] == '{' {
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				// No closing brace: the dollar stays literal and
				// scanning resumes at the brace.
				out.WriteByte('$')
				continue
			}
			out.WriteString(resolveBraced(s[i+2:i+2+end], lookup))
			i += 2 + end
			continue
		}

		j := i + 1
		for j < len(s) && isNameChar(s[j]) {
			j++
		}
		if j == i+1 {
			out.WriteByte('$')
			continue
		}
		if v, ok := lookup(s[i+1 : j]); ok {
			out.WriteString(v)
		}
		i = j - 1
	}

	return out.String()
}

// resolveBraced evaluates the contents of a ${...} reference. The first
// ":-", ":+", or "-" found scanning left to right is the operator; the rest
// of the region is a flat literal, never expanded further.
func resolveBraced(inner string, lookup Lookup) string {
	for k := 0; k < len(inner); k++ {
		switch {
		case inner[k] == ':' && k+1 < len(inner) && (inner[k+1] == '-' || inner[k+1] == '+'):
			v, ok := lookup(inner[:k])
			if inner[k+1] == '-' {
				if ok && v != "" {
					return v
				}
				return inner[k+2:]
			}
			if ok && v != "" {
				return inner[k+2:]
			}
			return ""
		case inner[k] == '-':
			v, ok := lookup(inner[:k])
			if ok {
				return v
			}
			return inner[k+1:]
		}
	}
	v, _ := lookup(inner)
	return v
}
