package editor

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockTypes = map[atom.Atom]string{
	atom.P:          NodeParagraph,
	atom.Ul:         NodeBulletList,
	atom.Ol:         NodeOrderedList,
	atom.Li:         NodeListItem,
	atom.Blockquote: NodeBlockquote,
	atom.Table:      NodeTable,
	atom.Tr:         NodeTableRow,
	atom.Td:         NodeTableCell,
	atom.Th:         NodeTableHeader,
}

var headingLevels = map[atom.Atom]string{
	atom.H1: "1", atom.H2: "2", atom.H3: "3",
	atom.H4: "4", atom.H5: "5", atom.H6: "6",
}

var markTypes = map[atom.Atom]string{
	atom.Strong: MarkBold,
	atom.B:      MarkBold,
	atom.Em:     MarkItalic,
	atom.I:      MarkItalic,
	atom.U:      MarkUnderline,
	atom.S:      MarkStrike,
	atom.Strike: MarkStrike,
	atom.Del:    MarkStrike,
	atom.Code:   MarkCode,
	atom.A:      MarkLink,
}

// Parse converts stored markup into the buffer's document tree. Inline
// content outside a block is gathered into paragraphs, the way the editor
// normalizes pasted text. Script and style elements are dropped.
func Parse(markup string) (Node, error) {
	doc := Node{Type: NodeDoc}
	if strings.TrimSpace(markup) == "" {
		return doc, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	fragment, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return Node{}, fmt.Errorf("parse markup: %w", err)
	}

	var b builder
	for _, n := range fragment {
		b.block(n)
	}
	doc.Content = b.finish()
	return doc, nil
}

// builder collects block nodes, wrapping stray inline runs in paragraphs.
type builder struct {
	blocks []Node
	inline []Node
}

func (b *builder) flush() {
	if len(b.inline) == 0 {
		return
	}
	if !onlyWhitespace(b.inline) {
		b.blocks = append(b.blocks, Node{Type: NodeParagraph, Content: b.inline})
	}
	b.inline = nil
}

func (b *builder) finish() []Node {
	b.flush()
	return b.blocks
}

func (b *builder) block(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.inline = append(b.inline, inlineNodes(n, nil)...)
		return
	case html.ElementNode:
	default:
		return
	}

	if dropped(n) {
		return
	}
	if typ, ok := blockTypes[n.DataAtom]; ok {
		b.flush()
		b.blocks = append(b.blocks, container(n, typ))
		return
	}
	if level, ok := headingLevels[n.DataAtom]; ok {
		b.flush()
		b.blocks = append(b.blocks, Node{Type: NodeHeading, Attrs: map[string]string{"level": level}, Content: inlineChildren(n, nil)})
		return
	}
	switch n.DataAtom {
	case atom.Pre:
		b.flush()
		b.blocks = append(b.blocks, codeBlock(n))
		return
	case atom.Hr:
		b.flush()
		b.blocks = append(b.blocks, Node{Type: NodeHorizontalRule})
		return
	case atom.Div, atom.Section, atom.Article, atom.Tbody, atom.Thead, atom.Tfoot:
		b.flush()
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			b.block(c)
		}
		b.flush()
		return
	}
	b.inline = append(b.inline, inlineNodes(n, nil)...)
}

// container builds a block whose children may be blocks (lists, quotes,
// tables) or inline content (paragraphs, cells).
func container(n *html.Node, typ string) Node {
	node := Node{Type: typ}
	switch typ {
	case NodeParagraph, NodeTableCell, NodeTableHeader:
		node.Content = inlineChildren(n, nil)
	case NodeListItem:
		if hasBlockChild(n) {
			node.Content = blockChildren(n)
		} else {
			node.Content = inlineChildren(n, nil)
		}
	default:
		node.Content = blockChildren(n)
	}
	return node
}

func blockChildren(n *html.Node) []Node {
	var b builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.block(c)
	}
	return b.finish()
}

func inlineChildren(n *html.Node, marks []Mark) []Node {
	var out []Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, inlineNodes(c, marks)...)
	}
	return out
}

func inlineNodes(n *html.Node, marks []Mark) []Node {
	switch n.Type {
	case html.TextNode:
		if n.Data == "" {
			return nil
		}
		return []Node{{Type: NodeText, Text: n.Data, Marks: copyMarks(marks)}}
	case html.ElementNode:
	default:
		return nil
	}
	if dropped(n) {
		return nil
	}
	if n.DataAtom == atom.Br {
		return []Node{{Type: NodeHardBreak}}
	}
	if typ, ok := markTypes[n.DataAtom]; ok {
		mark := Mark{Type: typ}
		if typ == MarkLink {
			mark.Attrs = map[string]string{"href": attr(n, "href")}
		}
		marks = append(copyMarks(marks), mark)
	}
	return inlineChildren(n, marks)
}

func codeBlock(n *html.Node) Node {
	var text strings.Builder
	var collect func(*html.Node)
	collect = func(c *html.Node) {
		if c.Type == html.TextNode {
			text.WriteString(c.Data)
			return
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	node := Node{Type: NodeCodeBlock}
	if text.Len() > 0 {
		node.Content = []Node{{Type: NodeText, Text: text.String()}}
	}
	return node
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if _, ok := blockTypes[c.DataAtom]; ok {
			return true
		}
		if _, ok := headingLevels[c.DataAtom]; ok {
			return true
		}
		if c.DataAtom == atom.Pre || c.DataAtom == atom.Hr {
			return true
		}
	}
	return false
}

func dropped(n *html.Node) bool {
	return n.DataAtom == atom.Script || n.DataAtom == atom.Style
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func copyMarks(marks []Mark) []Mark {
	if len(marks) == 0 {
		return nil
	}
	return append([]Mark(nil), marks...)
}

func onlyWhitespace(nodes []Node) bool {
	for _, n := range nodes {
		if n.Type != NodeText || strings.TrimSpace(n.Text) != "" {
			return false
		}
	}
	return true
}
