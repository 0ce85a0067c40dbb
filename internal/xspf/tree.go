package xspf

import (
	"bytes"
	"encoding/xml"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// NodeKind distinguishes the node types kept by [Build].
type NodeKind int

const (
	DocumentNode NodeKind = iota
	ElementNode
	TextNode
)

// Node is an element, a run of character data, or the document itself.
type Node struct {
	Kind     NodeKind
	Name     string // Local element name; empty for text and document nodes
	Space    string // Resolved namespace URL, kept for callers that care
	Data     string // Character data of a text node
	Children []*Node
}

var (
	utf8BOM      = []byte{0xEF, 0xBB, 0xBF}
	replacement  = []byte("\uFFFD")
	encodingAttr = regexp.MustCompile(`encoding\s*=\s*["']([^"']*)["']`)
)

// Build parses text into a tree, recovering from malformed input.
//
// Undeclared invalid UTF-8 becomes U+FFFD and a '<' that cannot open markup is read as text.
// The returned document node is never nil. Elements still open when the input ends or
// turns unreadable remain in the tree with whatever children they had gathered.
func Build(text []byte) *Node {
	doc := &Node{Kind: DocumentNode}

	dec := xml.NewDecoder(bytes.NewReader(repair(bytes.TrimPrefix(text, utf8BOM))))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	stack := []*Node{doc}
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}

		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Node{Kind: ElementNode, Name: t.Name.Local, Space: t.Name.Space}
			top.Children = append(top.Children, el)
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if top.Kind == DocumentNode {
				continue
			}
			top.Children = append(top.Children, &Node{Kind: TextNode, Data: string(t)})
		}
	}

	return doc
}

// repair rewrites the two defects the decoder cannot step over.
func repair(text []byte) []byte {
	if !utf8.Valid(text) {
		switch declaredEncoding(text) {
		case "", "utf-8", "utf8":
			text = bytes.ToValidUTF8(text, replacement)
		}
	}
	return escapeStrayLT(text)
}

// declaredEncoding returns the lower-cased encoding named by the XML declaration, if any.
func declaredEncoding(text []byte) string {
	text = bytes.TrimLeft(text, " \t\r\n")
	if !bytes.HasPrefix(text, []byte("<?xml")) {
		return ""
	}
	end := bytes.Index(text, []byte("?>"))
	if end < 0 {
		return ""
	}
	m := encodingAttr.FindSubmatch(text[:end])
	if m == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(string(m[1])))
}

// escapeStrayLT replaces every '<' that starts no tag, comment, CDATA section or processing
// instruction with "&lt;". Comments, CDATA and processing instructions are copied untouched.
func escapeStrayLT(text []byte) []byte {
	var out bytes.Buffer
	last, i := 0, 0
	for {
		j := bytes.IndexByte(text[i:], '<')
		if j < 0 {
			break
		}
		i += j
		rest := text[i:]

		if n := opaqueLen(rest); n > 0 {
			i += n
			continue
		}
		if len(rest) > 1 && opensMarkup(rest[1]) {
			i++
			continue
		}

		out.Write(text[last:i])
		out.WriteString("&lt;")
		i++
		last = i
	}

	if last == 0 {
		return text
	}
	out.Write(text[last:])
	return out.Bytes()
}

// opaqueLen is the length of the comment, CDATA section or processing instruction at the start
// of rest, running to the end of input when unterminated, or 0 when rest starts none of them.
func opaqueLen(rest []byte) int {
	for _, delim := range [][2]string{{"<!--", "-->"}, {"<![CDATA[", "]]>"}, {"<?", "?>"}} {
		if !bytes.HasPrefix(rest, []byte(delim[0])) {
			continue
		}
		if end := bytes.Index(rest[len(delim[0]):], []byte(delim[1])); end >= 0 {
			return len(delim[0]) + end + len(delim[1])
		}
		return len(rest)
	}
	return 0
}

func opensMarkup(b byte) bool {
	switch {
	case b == '/' || b == '!' || b == '_' || b == ':':
		return true
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z':
		return true
	}
	return b >= utf8.RuneSelf
}

// Elements returns the direct element children of n named name, in document order.
func (n *Node) Elements(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == ElementNode && c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Content concatenates the character data of n and all of its descendants.
func (n *Node) Content() string {
	if n.Kind == TextNode {
		return n.Data
	}

	var sb strings.Builder
	var walk func(*Node)
	walk = func(node *Node) {
		for _, c := range node.Children {
			if c.Kind == TextNode {
				sb.WriteString(c.Data)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
