package xmltree

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"imf-reader/internal/imferr"
)

const urnPrefix = "urn:uuid:"

// EqualFold reports whether two element names match ignoring ASCII case.
// All element-name checks go through this function.
func EqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// FindChild returns the first direct child of e named name, or nil.
func FindChild(e *Element, name string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if EqualFold(c.Local, name) {
			return c
		}
	}
	return nil
}

// Children returns every direct child of e named name, in document order.
func Children(e *Element, name string) []*Element {
	if e == nil {
		return nil
	}
	var out []*Element
	for _, c := range e.Children {
		if EqualFold(c.Local, name) {
			out = append(out, c)
		}
	}
	return out
}

// ChildText returns the trimmed text of the named direct child and whether
// the child exists.
func ChildText(e *Element, name string) (string, bool) {
	c := FindChild(e, name)
	if c == nil {
		return "", false
	}
	return strings.TrimSpace(TextContent(c)), true
}

// ReadUUID decodes the text of e as a UUID. Both the urn:uuid: form and the
// bare 36-character dashed form are accepted.
func ReadUUID(e *Element) (uuid.UUID, error) {
	if e == nil {
		return uuid.Nil, imferr.InvalidData("missing UUID element")
	}
	text := strings.TrimSpace(TextContent(e))
	if len(text) == len(urnPrefix)+36 && EqualFold(text[:len(urnPrefix)], urnPrefix) {
		text = text[len(urnPrefix):]
	}
	if len(text) != 36 {
		return uuid.Nil, imferr.InvalidData("malformed UUID %q in <%s>", truncate(text), e.Local)
	}
	id, err := uuid.Parse(text)
	if err != nil {
		return uuid.Nil, imferr.InvalidData("malformed UUID %q in <%s>", truncate(text), e.Local)
	}
	return id, nil
}

// ReadUint decodes the text of e as a non-negative integer.
func ReadUint(e *Element) (uint64, error) {
	if e == nil {
		return 0, imferr.InvalidData("missing integer element")
	}
	text := strings.TrimSpace(TextContent(e))
	v, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, imferr.InvalidData("malformed integer %q in <%s>", truncate(text), e.Local)
	}
	return v, nil
}

// ReadRational decodes "numerator denominator" text, as used by EditRate.
// Both parts must be positive.
func ReadRational(e *Element) (int64, int64, error) {
	if e == nil {
		return 0, 0, imferr.InvalidData("missing rational element")
	}
	text := strings.TrimSpace(TextContent(e))
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, 0, imferr.InvalidData("malformed rational %q in <%s>", truncate(text), e.Local)
	}
	num, err1 := strconv.ParseInt(fields[0], 10, 64)
	den, err2 := strconv.ParseInt(fields[1], 10, 64)
	if err1 != nil || err2 != nil || num <= 0 || den <= 0 {
		return 0, 0, imferr.InvalidData("malformed rational %q in <%s>", truncate(text), e.Local)
	}
	return num, den, nil
}

// truncate keeps hostile element text out of error messages and logs.
func truncate(s string) string {
	const limit = 64
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
