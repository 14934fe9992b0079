// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// translateReplacement rewrites a backslash-style replacement template
// (\1, \g<1>, \g<name>) into the ${1} / ${name} form used by
// regexp.Regexp.ReplaceAllString. A literal $ is escaped as $$. Every group
// reference must name a group of re; \0 and three-digit octal escapes are
// character codes, not references.
func translateReplacement(s string, re *regexp.Regexp) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '$':
			b.WriteString("$$")
		case c != '\\':
			b.WriteByte(c)
		case i+1 == len(s):
			return "", fmt.Errorf("replacement %q ends with a bare backslash", s)
		default:
			i++
			switch n := s[i]; {
			case n == '0':
				j := i + 1
				for j < len(s) && j-i < 3 && isOctal(s[j]) {
					j++
				}
				code, _ := strconv.ParseUint(s[i:j], 8, 8)
				b.WriteByte(byte(code))
				i = j - 1
			case n >= '1' && n <= '9':
				if i+2 < len(s) && isOctal(n) && isOctal(s[i+1]) && isOctal(s[i+2]) {
					code, err := strconv.ParseUint(s[i:i+3], 8, 8)
					if err != nil {
						return "", fmt.Errorf("replacement %q: octal escape \\%s out of range", s, s[i:i+3])
					}
					b.WriteByte(byte(code))
					i += 2
					continue
				}
				j := i + 1
				if j < len(s) && s[j] >= '0' && s[j] <= '9' {
					j++
				}
				if err := checkGroup(re, s[i:j]); err != nil {
					return "", fmt.Errorf("replacement %q: %w", s, err)
				}
				fmt.Fprintf(&b, "${%s}", s[i:j])
				i = j - 1
			case n == 'g':
				end := strings.IndexByte(s[i:], '>')
				if i+1 >= len(s) || s[i+1] != '<' || end < 0 {
					return "", fmt.Errorf("replacement %q: malformed \\g<...> group reference", s)
				}
				name := s[i+2 : i+end]
				if name == "" {
					return "", fmt.Errorf("replacement %q: empty group reference", s)
				}
				if err := checkGroup(re, name); err != nil {
					return "", fmt.Errorf("replacement %q: %w", s, err)
				}
				fmt.Fprintf(&b, "${%s}", name)
				i += end
			case n == 'n':
				b.WriteByte('\n')
			case n == 't':
				b.WriteByte('\t')
			case n == '\\':
				b.WriteByte('\\')
			default:
				return "", fmt.Errorf("replacement %q: unknown escape \\%c", s, n)
			}
		}
	}
	return b.String(), nil
}

func isOctal(c byte) bool { return c >= '0' && c <= '7' }

// checkGroup reports an error unless ref is the number or name of a group
// of re. Group 0 is the whole match.
func checkGroup(re *regexp.Regexp, ref string) error {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 0 || n > re.NumSubexp() {
			return fmt.Errorf("invalid group reference %d", n)
		}
		return nil
	}
	if re.SubexpIndex(ref) < 0 {
		return fmt.Errorf("unknown group name %q", ref)
	}
	return nil
}
