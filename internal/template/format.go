package template

import (
	"fmt"
	"strings"
)

// segment is either literal text or a named field.
type segment struct {
	text  string
	field bool
}

// format is a parsed fragment such as `<text>{album_title}</text>`.
type format struct {
	segments []segment
}

// parseFormat parses s, accepting only fields listed in allowed.
func parseFormat(s string, allowed map[string]bool) (format, error) {
	var (
		f       format
		literal strings.Builder
	)

	flush := func() {
		if literal.Len() > 0 {
			f.segments = append(f.segments, segment{text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				literal.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return format{}, fmt.Errorf("unclosed '{' at offset %d", i)
			}
			name := s[i+1 : i+1+end]
			if name == "" || strings.ContainsAny(name, "{:!") {
				return format{}, fmt.Errorf("invalid field %q at offset %d", name, i)
			}
			if !allowed[name] {
				return format{}, fmt.Errorf("unknown field {%s}", name)
			}
			flush()
			f.segments = append(f.segments, segment{text: name, field: true})
			i += end + 1
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				literal.WriteByte('}')
				i++
				continue
			}
			return format{}, fmt.Errorf("single '}' at offset %d", i)
		default:
			literal.WriteByte(s[i])
		}
	}
	flush()

	return f, nil
}

// fields returns the names referenced by f, in order of appearance.
func (f format) fields() []string {
	var names []string
	for _, seg := range f.segments {
		if seg.field {
			names = append(names, seg.text)
		}
	}
	return names
}

// render writes f to sb, substituting fields from values. Every field must
// have a value; templates are validated so this only fails on a bug in the
// caller.
func (f format) render(sb *strings.Builder, values map[string]string) error {
	for _, seg := range f.segments {
		if !seg.field {
			sb.WriteString(seg.text)
			continue
		}
		v, ok := values[seg.text]
		if !ok {
			return fmt.Errorf("no value for field {%s}", seg.text)
		}
		sb.WriteString(v)
	}
	return nil
}
