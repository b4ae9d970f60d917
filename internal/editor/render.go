package editor

import (
	"fmt"
	"strings"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\u00a0", "&nbsp;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "\u00a0", "&nbsp;")
)

// Render serializes a document tree back to markup, the inverse of Parse.
func Render(doc Node) string {
	var out strings.Builder
	renderNode(&out, doc)
	return out.String()
}

func renderNode(out *strings.Builder, node Node) {
	switch node.Type {
	case NodeDoc:
		renderContent(out, node.Content)
	case NodeParagraph:
		wrap(out, "p", node.Content)
	case NodeHeading:
		level := node.Attrs["level"]
		if level < "1" || level > "6" || len(level) != 1 {
			level = "1"
		}
		wrap(out, "h"+level, node.Content)
	case NodeBulletList:
		wrap(out, "ul", node.Content)
	case NodeOrderedList:
		wrap(out, "ol", node.Content)
	case NodeListItem:
		wrap(out, "li", node.Content)
	case NodeBlockquote:
		wrap(out, "blockquote", node.Content)
	case NodeCodeBlock:
		out.WriteString("<pre><code>")
		for _, child := range node.Content {
			out.WriteString(textEscaper.Replace(child.Text))
		}
		out.WriteString("</code></pre>")
	case NodeText:
		out.WriteString(renderTextWithMarks(node.Text, node.Marks))
	case NodeHardBreak:
		out.WriteString("<br>")
	case NodeTable:
		wrap(out, "table", node.Content)
	case NodeTableRow:
		wrap(out, "tr", node.Content)
	case NodeTableCell:
		wrap(out, "td", node.Content)
	case NodeTableHeader:
		wrap(out, "th", node.Content)
	case NodeHorizontalRule:
		out.WriteString("<hr>")
	default:
		renderContent(out, node.Content)
	}
}

func wrap(out *strings.Builder, tag string, content []Node) {
	out.WriteString("<" + tag + ">")
	renderContent(out, content)
	out.WriteString("</" + tag + ">")
}

func renderContent(out *strings.Builder, content []Node) {
	for _, child := range content {
		renderNode(out, child)
	}
}

// renderTextWithMarks applies marks from the outside in.
func renderTextWithMarks(text string, marks []Mark) string {
	if text == "" {
		return ""
	}
	htmlText := textEscaper.Replace(text)
	for i := len(marks) - 1; i >= 0; i-- {
		switch marks[i].Type {
		case MarkBold:
			htmlText = fmt.Sprintf("<strong>%s</strong>", htmlText)
		case MarkItalic:
			htmlText = fmt.Sprintf("<em>%s</em>", htmlText)
		case MarkCode:
			htmlText = fmt.Sprintf("<code>%s</code>", htmlText)
		case MarkLink:
			htmlText = fmt.Sprintf(`<a href="%s">%s</a>`, attrEscaper.Replace(marks[i].Attrs["href"]), htmlText)
		case MarkStrike:
			htmlText = fmt.Sprintf("<s>%s</s>", htmlText)
		case MarkUnderline:
			htmlText = fmt.Sprintf("<u>%s</u>", htmlText)
		}
	}
	return htmlText
}

// PlainText flattens a document tree for terminal display: blocks become
// lines, list items get a bullet, table cells are tab separated.
func PlainText(doc Node) string {
	var lines []string
	var current strings.Builder
	flush := func() {
		if line := strings.TrimRight(current.String(), " \t"); line != "" {
			lines = append(lines, line)
		}
		current.Reset()
	}

	var walk func(Node, string)
	walk = func(node Node, prefix string) {
		switch node.Type {
		case NodeText:
			current.WriteString(node.Text)
		case NodeHardBreak:
			flush()
		case NodeHorizontalRule:
			flush()
			lines = append(lines, "----")
		case NodeListItem:
			flush()
			current.WriteString(prefix + "- ")
			for _, child := range node.Content {
				walk(child, prefix+"  ")
			}
			flush()
		case NodeTableCell, NodeTableHeader:
			for _, child := range node.Content {
				walk(child, prefix)
			}
			current.WriteString("\t")
		case NodeParagraph, NodeHeading, NodeCodeBlock, NodeTableRow, NodeBlockquote:
			if node.Type != NodeTableRow {
				flush()
			}
			for _, child := range node.Content {
				walk(child, prefix)
			}
			flush()
		default:
			for _, child := range node.Content {
				walk(child, prefix)
			}
		}
	}
	walk(doc, "")
	flush()
	return strings.Join(lines, "\n")
}
