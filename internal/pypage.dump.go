package internal

import (
	"fmt"
	"strings"
)

// DumpTree renders an indented outline of the tree for debugging.
// Blank lines inside text and code bodies are dropped.
func DumpTree(root *RootNode) string {
	return section(DumpRootHeader, dumpNodes(root.Children))
}

// section places body, indented one level, under header
func section(header, body string) string {
	if body == StringValueEmpty {
		return header
	}
	return header + string(CharNewline) + indent(body, 1)
}

func dumpNodes(nodes []Node) string {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		parts = append(parts, dumpNode(n))
	}
	return strings.Join(parts, string(CharNewline))
}

func dumpNode(node Node) string {
	switch n := node.(type) {
	case *TextNode:
		return section(DumpTextHeader, filterBlankLines(n.Content))
	case *CodeNode:
		return section(DumpCodeHeader, filterBlankLines(n.Source))
	case Tag:
		header := fmt.Sprintf(DumpTagHeaderFmt, StrTagOpen, n.Source(), StrTagClose)
		return section(header, dumpNodes(n.Nodes()))
	case *CloseTag:
		return DumpCloseHeader
	default:
		return node.String()
	}
}

func filterBlankLines(text string) string {
	var kept []string
	for _, line := range strings.Split(text, string(CharNewline)) {
		if strings.TrimSpace(line) != StringValueEmpty {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, string(CharNewline))
}

func indent(text string, level int) string {
	if text == StringValueEmpty {
		return text
	}
	prefix := strings.Repeat(" ", DumpIndentWidth*level)
	lines := strings.Split(text, string(CharNewline))
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, string(CharNewline))
}
