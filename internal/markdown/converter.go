package markdown

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-server-docs/internal/logging"
	"github.com/goliatone/go-server-docs/pkg/interfaces"
)

// Converter translates document bodies between rich text markup and
// Markdown. Both directions are best effort: malformed markup degrades to
// plain text instead of failing, so conversion never loses the document's
// textual content.
type Converter struct {
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
	logger    interfaces.Logger
}

// ConverterOption configures the converter.
type ConverterOption func(*Converter)

// WithConverterLogger attaches a logger to the converter.
func WithConverterLogger(logger interfaces.Logger) ConverterOption {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConverter creates a converter with a GitHub flavored Markdown parser
// and a UGC sanitation policy for the rich text direction.
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
		),
		sanitizer: bluemonday.UGCPolicy(),
		logger:    logging.NoOp(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ToHTML renders Markdown as sanitized rich text markup. The sanitizer keeps
// the usual user generated content elements and restricts link targets to
// safe URL schemes.
func (c *Converter) ToHTML(input string) (string, error) {
	var buf bytes.Buffer
	if err := c.markdown.Convert([]byte(input), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(c.sanitizer.Sanitize(buf.String())), nil
}

// ToMarkdown converts rich text markup into Markdown. The input is parsed
// into a node tree, so nested or unbalanced markup cannot corrupt the
// output: elements without a Markdown equivalent contribute their text
// content only.
func (c *Converter) ToMarkdown(input string) string {
	root, err := html.Parse(strings.NewReader(input))
	if err != nil {
		c.logger.Warn("rich text parse failed, stripping tags", "error", err)
		return normalizeMarkdown(stripTags(input))
	}

	var b strings.Builder
	renderBlocks(&b, root)
	return normalizeMarkdown(b.String())
}

// renderBlocks walks block level nodes, emitting each as a Markdown block
// terminated by a blank line.
func renderBlocks(b *strings.Builder, node *html.Node) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			if text := collapseWhitespace(child.Data); strings.TrimSpace(text) != "" {
				writeBlock(b, strings.TrimSpace(text))
			}
		case html.ElementNode:
			renderElement(b, child)
		case html.DocumentNode:
			renderBlocks(b, child)
		}
	}
}

func renderElement(b *strings.Builder, node *html.Node) {
	switch node.DataAtom {
	case atom.Style, atom.Script, atom.Head, atom.Title:
		return
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(node.Data[1] - '0')
		writeBlock(b, strings.Repeat("#", level)+" "+inlineContent(node))
	case atom.P:
		if text := inlineContent(node); text != "" {
			writeBlock(b, text)
		}
	case atom.Div:
		renderContainer(b, node)
	case atom.Pre:
		writeBlock(b, "```\n"+codeContent(node)+"\n```")
	case atom.Blockquote:
		if text := inlineContent(node); text != "" {
			writeBlock(b, "> "+text)
		}
	case atom.Ul:
		renderList(b, node, false)
	case atom.Ol:
		renderList(b, node, true)
	case atom.Hr:
		writeBlock(b, "---")
	case atom.Table:
		renderTable(b, node)
	case atom.Html, atom.Body:
		renderBlocks(b, node)
	default:
		renderContainer(b, node)
	}
}

// renderContainer handles div wrappers and unknown elements. Containers
// holding block structure recurse so nested headings, lists and tables keep
// their Markdown form; pure-inline content flattens to a single block.
func renderContainer(b *strings.Builder, node *html.Node) {
	if containsBlock(node) {
		renderBlocks(b, node)
		return
	}
	if text := inlineContent(node); text != "" {
		writeBlock(b, text)
	}
}

func containsBlock(node *html.Node) bool {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		switch child.DataAtom {
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
			atom.P, atom.Div, atom.Pre, atom.Blockquote,
			atom.Ul, atom.Ol, atom.Hr, atom.Table:
			return true
		}
		if containsBlock(child) {
			return true
		}
	}
	return false
}

// renderList emits one line per item. Item content is flattened to inline
// text; ordered items are renumbered from 1 regardless of source numbering.
func renderList(b *strings.Builder, node *html.Node, ordered bool) {
	var lines []string
	index := 0
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || child.DataAtom != atom.Li {
			continue
		}
		index++
		prefix := "- "
		if ordered {
			prefix = strconv.Itoa(index) + ". "
		}
		lines = append(lines, prefix+inlineContent(child))
	}
	if len(lines) > 0 {
		writeBlock(b, strings.Join(lines, "\n"))
	}
}

// renderTable extracts header cells from a thead row when present, falling
// back to the first row. Body rows shorter than the header are padded with
// empty cells.
func renderTable(b *strings.Builder, node *html.Node) {
	var header []string
	var rows [][]string

	allRows := collectRows(node)
	if len(allRows) == 0 {
		return
	}

	if headRow := firstHeadRow(node); headRow != nil {
		header = rowCells(headRow)
		for _, row := range allRows {
			if row == headRow {
				continue
			}
			rows = append(rows, rowCells(row))
		}
	} else {
		header = rowCells(allRows[0])
		for _, row := range allRows[1:] {
			rows = append(rows, rowCells(row))
		}
	}

	if len(header) == 0 {
		return
	}

	var lines []string
	lines = append(lines, strings.Join(header, " | "))

	separator := make([]string, len(header))
	for i := range separator {
		separator[i] = "---"
	}
	lines = append(lines, strings.Join(separator, "|"))

	for _, row := range rows {
		for len(row) < len(header) {
			row = append(row, "")
		}
		lines = append(lines, strings.Join(row, " | "))
	}

	writeBlock(b, strings.Join(lines, "\n"))
}

func collectRows(node *html.Node) []*html.Node {
	var rows []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			if child.DataAtom == atom.Tr {
				rows = append(rows, child)
				continue
			}
			walk(child)
		}
	}
	walk(node)
	return rows
}

func firstHeadRow(table *html.Node) *html.Node {
	for child := table.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.DataAtom == atom.Thead {
			rows := collectRows(child)
			if len(rows) > 0 {
				return rows[0]
			}
		}
	}
	return nil
}

func rowCells(row *html.Node) []string {
	var cells []string
	for child := row.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		if child.DataAtom == atom.Td || child.DataAtom == atom.Th {
			cells = append(cells, inlineContent(child))
		}
	}
	return cells
}

// inlineContent renders a node's children as inline Markdown, flattening any
// nested block structure to text.
func inlineContent(node *html.Node) string {
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		renderInline(&b, child)
	}
	return strings.TrimSpace(b.String())
}

func renderInline(b *strings.Builder, node *html.Node) {
	switch node.Type {
	case html.TextNode:
		b.WriteString(collapseWhitespace(node.Data))
		return
	case html.ElementNode:
	default:
		return
	}

	switch node.DataAtom {
	case atom.Style, atom.Script:
		return
	case atom.Code:
		b.WriteString("`" + textContent(node) + "`")
	case atom.Strong, atom.B:
		b.WriteString("**" + inlineContent(node) + "**")
	case atom.Em, atom.I:
		b.WriteString("*" + inlineContent(node) + "*")
	case atom.Del, atom.S, atom.Strike:
		b.WriteString("~~" + inlineContent(node) + "~~")
	case atom.A:
		b.WriteString("[" + inlineContent(node) + "](" + attrValue(node, "href") + ")")
	case atom.Img:
		b.WriteString("![" + attrValue(node, "alt") + "](" + attrValue(node, "src") + ")")
	case atom.Br:
		b.WriteString("\n")
	default:
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			renderInline(b, child)
		}
	}
}

// codeContent returns a pre block's text verbatim, preserving whitespace.
func codeContent(node *html.Node) string {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.DataAtom == atom.Code {
			return strings.Trim(textContent(child), "\n")
		}
	}
	return strings.Trim(textContent(node), "\n")
}

func textContent(node *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return b.String()
}

func attrValue(node *html.Node, name string) string {
	for _, attr := range node.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

func writeBlock(b *strings.Builder, block string) {
	if block == "" {
		return
	}
	b.WriteString(block)
	b.WriteString("\n\n")
}

var (
	whitespaceRuns = regexp.MustCompile(`[ \t\r\n]+`)
	blankLineRuns  = regexp.MustCompile(`\n{3,}`)
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
)

func collapseWhitespace(text string) string {
	return whitespaceRuns.ReplaceAllString(text, " ")
}

func stripTags(input string) string {
	return tagPattern.ReplaceAllString(input, "")
}

// normalizeMarkdown collapses runs of blank lines to a single blank line,
// right trims every line and trims the document.
func normalizeMarkdown(input string) string {
	input = blankLineRuns.ReplaceAllString(input, "\n\n")
	lines := strings.Split(input, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
