package xmltree

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html/charset"

	"imf-reader/internal/imferr"
)

// MaxDepth bounds element nesting so hostile documents cannot exhaust the
// stack of open elements.
const MaxDepth = 256

// Document is a parsed XML document.
type Document struct {
	root *Element
}

// Root returns the document element.
func (d *Document) Root() *Element {
	if d == nil {
		return nil
	}
	return d.root
}

// Element is one node of the tree.
type Element struct {
	Space    string
	Local    string
	Attrs    []xml.Attr
	Children []*Element
	Parent   *Element

	// parts keeps text and child elements in document order for TextContent.
	parts []part
}

type part struct {
	text  string
	child *Element
}

// Name returns the element's local name.
func (e *Element) Name() string {
	if e == nil {
		return ""
	}
	return e.Local
}

// Attr returns the value of the attribute with the given local name.
func (e *Element) Attr(local string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attrs {
		if EqualFold(a.Name.Local, local) {
			return a.Value, true
		}
	}
	return "", false
}

// Parse builds a Document from data.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, imferr.InvalidData("empty XML document")
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	var stack []*Element
	var root *Element
	rootClosed := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, imferr.InvalidData("malformed XML: %v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return nil, imferr.InvalidData("unexpected element %s after document end", t.Name.Local)
			}
			if len(stack) >= MaxDepth {
				return nil, imferr.InvalidData("element nesting exceeds %d levels", MaxDepth)
			}
			elem := &Element{
				Space: t.Name.Space,
				Local: t.Name.Local,
				Attrs: t.Copy().Attr,
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, elem)
				parent.parts = append(parent.parts, part{child: elem})
				elem.Parent = parent
			} else {
				root = elem
			}
			stack = append(stack, elem)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
				if len(stack) == 0 && root != nil {
					rootClosed = true
				}
			}

		case xml.CharData:
			if len(stack) == 0 {
				if !isIgnorableOutsideRoot(string(t)) {
					return nil, imferr.InvalidData("unexpected character data outside root element")
				}
				continue
			}
			top := stack[len(stack)-1]
			top.parts = append(top.parts, part{text: string(t)})
		}
	}

	if root == nil {
		return nil, imferr.InvalidData("missing root node")
	}

	return &Document{root: root}, nil
}

func isIgnorableOutsideRoot(data string) bool {
	for _, r := range data {
		if r == '\uFEFF' {
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// TextContent returns the concatenated text of e and its descendants in
// document order. It returns "" for a nil element.
func TextContent(e *Element) string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	appendText(&b, e)
	return b.String()
}

func appendText(b *strings.Builder, e *Element) {
	for _, p := range e.parts {
		if p.child != nil {
			appendText(b, p.child)
			continue
		}
		b.WriteString(p.text)
	}
}
