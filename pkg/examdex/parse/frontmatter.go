package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/examdex/pkg/examdex/internalerr"
)

const fence = "---"

// paddedNumber matches plain scalars such as 0010 that YAML would read as
// octal or strip of their padding
var paddedNumber = regexp.MustCompile(`^0[0-9]+$`)

// Header is a decoded front-matter block
type Header map[string]any

// SplitFrontMatter separates a leading YAML front-matter block from the body.
// A document without a block yields an empty header and the whole text.
func SplitFrontMatter(raw string) (Header, string, error) {
	text := strings.TrimPrefix(raw, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != fence {
		return Header{}, text, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if t := strings.TrimSpace(lines[i]); t == fence || t == "..." {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, "", fmt.Errorf("%w: unterminated front-matter", internalerr.ErrMalformedRecord)
	}

	h := Header{}
	block := strings.Join(lines[1:end], "\n")
	if strings.TrimSpace(block) != "" {
		var root yaml.Node
		if err := yaml.Unmarshal([]byte(block), &root); err != nil {
			return nil, "", fmt.Errorf("%w: front-matter: %v", internalerr.ErrMalformedRecord, err)
		}
		keepPadded(&root)
		if root.Kind != 0 {
			if err := root.Decode(&h); err != nil {
				return nil, "", fmt.Errorf("%w: front-matter: %v", internalerr.ErrMalformedRecord, err)
			}
		}
	}

	body := strings.Join(lines[end+1:], "\n")
	return h, body, nil
}

// keepPadded retags zero-padded plain numbers as strings so they decode
// with their source text intact
func keepPadded(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.Style == 0 && paddedNumber.MatchString(n.Value) {
		n.Tag = "!!str"
	}
	for _, c := range n.Content {
		keepPadded(c)
	}
}

// Has reports whether key is present with a non-nil value
func (h Header) Has(key string) bool {
	v, ok := h[key]
	return ok && v != nil
}

// String returns a scalar value as text. Zero-padded numbers such as
// `id: 0010` keep their padding.
func (h Header) String(key string) string {
	return scalarString(h[key])
}

// Int returns an integer value or def when absent or unparsable
func (h Header) Int(key string, def int) int {
	switch v := h[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// List returns a scalar or sequence value as a list of strings
func (h Header) List(key string) []string {
	return stringList(h[key])
}

// Map returns a nested mapping, or an empty header
func (h Header) Map(key string) Header {
	switch v := h[key].(type) {
	case map[string]any:
		return Header(v)
	case Header:
		return v
	}
	return Header{}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case int, int64, float64, bool:
		return fmt.Sprint(t)
	case []any:
		if len(t) > 0 {
			return scalarString(t[0])
		}
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func stringList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := scalarString(v); s != "" {
		return []string{s}
	}
	return nil
}
