// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns stored JATS XML into Markdown: a structural prune
// drops front and back matter, then an out-of-process pandoc service does
// the format conversion.
package convert

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// element is a generic XML tree node. children holds *element and string
// values in document order.
type element struct {
	name     xml.Name
	attrs    []xml.Attr
	children []any
}

// PruneJATS removes the front and back matter subtrees except any
// title-group and abstract elements they contain, and removes every xref
// element together with its content. The result is re-indented XML,
// still well-formed for the conversion service. Identical input yields
// byte-identical output.
func PruneJATS(doc string) (string, error) {
	root, err := parseTree(doc)
	if err != nil {
		return "", err
	}

	stripXrefs(root)
	for _, matter := range []string{"front", "back"} {
		if child := childNamed(root, matter); child != nil {
			child.children = collectKept(child)
			if len(child.children) == 0 {
				removeChild(root, child)
			}
		}
	}
	dropBlankText(root)

	var b strings.Builder
	b.WriteString(xml.Header)
	render(&b, root, 0)
	b.WriteString("\n")
	return b.String(), nil
}

// parseTree builds the element tree for the single root element, dropping
// comments, processing instructions, and directives.
func parseTree(doc string) (*element, error) {
	dec := xml.NewDecoder(strings.NewReader(doc))
	dec.Strict = false

	var root *element
	var stack []*element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name, attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].children = append(stack[len(stack)-1].children, string(t))
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	return root, nil
}

// stripXrefs removes xref elements and their content, recursively.
func stripXrefs(el *element) {
	kept := el.children[:0]
	for _, child := range el.children {
		sub, isElement := child.(*element)
		if isElement {
			if sub.name.Local == "xref" {
				continue
			}
			stripXrefs(sub)
		}
		kept = append(kept, child)
	}
	el.children = kept
}

// collectKept returns the title-group and abstract subtrees found anywhere
// under el, in document order.
func collectKept(el *element) []any {
	var out []any
	for _, child := range el.children {
		sub, isElement := child.(*element)
		if !isElement {
			continue
		}
		if sub.name.Local == "title-group" || sub.name.Local == "abstract" {
			out = append(out, sub)
			continue
		}
		out = append(out, collectKept(sub)...)
	}
	return out
}

func childNamed(el *element, name string) *element {
	for _, child := range el.children {
		if sub, isElement := child.(*element); isElement && sub.name.Local == name {
			return sub
		}
	}
	return nil
}

// dropBlankText removes formatting whitespace, recursively. In an element
// with no non-blank text child, leading and trailing text children are
// dropped and blank text between two element children collapses to a single
// space, so inline siblings stay separated when rendered inline.
// Mixed-content elements are left untouched.
func dropBlankText(el *element) {
	if !hasText(el) {
		kept := el.children[:0]
		for i, child := range el.children {
			if _, isText := child.(string); isText {
				if len(kept) > 0 && isElementChild(kept[len(kept)-1]) && anyElement(el.children[i+1:]) {
					kept = append(kept, " ")
				}
				continue
			}
			kept = append(kept, child)
		}
		el.children = kept
	}
	for _, child := range el.children {
		if sub, isElement := child.(*element); isElement {
			dropBlankText(sub)
		}
	}
}

func isElementChild(child any) bool {
	_, isElement := child.(*element)
	return isElement
}

// anyElement reports whether any of the children is an element.
func anyElement(children []any) bool {
	for _, child := range children {
		if isElementChild(child) {
			return true
		}
	}
	return false
}

func removeChild(el *element, target *element) {
	kept := el.children[:0]
	for _, child := range el.children {
		if child != any(target) {
			kept = append(kept, child)
		}
	}
	el.children = kept
}

// Namespace URIs the decoder expands; rendering maps them back to their
// conventional prefixes.
var nsPrefixes = map[string]string{
	"http://www.w3.org/1999/xlink":         "xlink",
	"http://www.w3.org/XML/1998/namespace": "xml",
	"http://www.w3.org/1998/Math/MathML":   "mml",
	"xmlns":                                "xmlns",
}

const indentUnit = "  "

// render writes el with two-space indentation. An element with non-blank
// text content is written inline to preserve mixed content; an element with
// only element children puts each on its own line.
func render(b *strings.Builder, el *element, depth int) {
	b.WriteString(strings.Repeat(indentUnit, depth))
	writeOpenTag(b, el)

	if !hasText(el) {
		elements := childElements(el)
		if len(elements) == 0 {
			return
		}
		for _, sub := range elements {
			b.WriteString("\n")
			render(b, sub, depth+1)
		}
		b.WriteString("\n")
		b.WriteString(strings.Repeat(indentUnit, depth))
		writeCloseTag(b, el)
		return
	}

	for _, child := range el.children {
		writeInline(b, child)
	}
	writeCloseTag(b, el)
}

// writeInline writes a child without introducing line breaks.
func writeInline(b *strings.Builder, child any) {
	switch c := child.(type) {
	case string:
		xml.EscapeText(b, []byte(c))
	case *element:
		writeOpenTag(b, c)
		if len(c.children) > 0 {
			for _, sub := range c.children {
				writeInline(b, sub)
			}
			writeCloseTag(b, c)
		}
	}
}

func writeOpenTag(b *strings.Builder, el *element) {
	b.WriteString("<")
	b.WriteString(tagName(el.name))
	for _, attr := range el.attrs {
		b.WriteString(" ")
		b.WriteString(tagName(attr.Name))
		b.WriteString(`="`)
		xml.EscapeText(b, []byte(attr.Value))
		b.WriteString(`"`)
	}
	if len(el.children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteString(">")
}

func writeCloseTag(b *strings.Builder, el *element) {
	b.WriteString("</")
	b.WriteString(tagName(el.name))
	b.WriteString(">")
}

func tagName(name xml.Name) string {
	if prefix, known := nsPrefixes[name.Space]; known {
		return prefix + ":" + name.Local
	}
	return name.Local
}

// hasText reports whether el has any non-blank text child.
func hasText(el *element) bool {
	for _, child := range el.children {
		if text, isText := child.(string); isText && strings.TrimSpace(text) != "" {
			return true
		}
	}
	return false
}

func childElements(el *element) []*element {
	var out []*element
	for _, child := range el.children {
		if sub, isElement := child.(*element); isElement {
			out = append(out, sub)
		}
	}
	return out
}
