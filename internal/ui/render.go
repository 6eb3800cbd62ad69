package ui

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"
)

// Compiled regex patterns for markdown parsing
var (
	boldPattern       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
	numberedPattern   = regexp.MustCompile(`^(\d{1,2})\. (.*)$`)
)

// Block kinds produced by renderMarkdown. Each becomes an element in the
// transcript tree so paragraph selection can use block boundaries.
const (
	blockParagraph = "p"
	blockCode      = "code"
	blockHeading   = "heading"
	blockItem      = "item"
	blockQuote     = "quote"
	blockGap       = "gap"
)

// block is a run of rendered lines that belong together.
type block struct {
	kind  string
	lines []string
}

// highlightCode applies syntax highlighting to code using chroma
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(CurrentTheme().CodeStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return buf.String()
}

// renderInlineMarkdown applies bold and inline code formatting to a line
func renderInlineMarkdown(line string) string {
	// Protect code spans from bold processing
	var codeSpans []string
	line = inlineCodePattern.ReplaceAllStringFunc(line, func(match string) string {
		code := inlineCodePattern.FindStringSubmatch(match)[1]
		codeSpans = append(codeSpans, MarkdownInlineCodeStyle.Render(code))
		return fmt.Sprintf("\x00CODE%d\x00", len(codeSpans)-1)
	})

	line = boldPattern.ReplaceAllStringFunc(line, func(match string) string {
		return MarkdownBoldStyle.Render(boldPattern.FindStringSubmatch(match)[1])
	})

	for i, rendered := range codeSpans {
		line = strings.Replace(line, fmt.Sprintf("\x00CODE%d\x00", i), rendered, 1)
	}
	return line
}

// wrapLines wraps text to width, handling ANSI escape codes, and splits it
// into lines.
func wrapLines(text string, width int) []string {
	if width > 0 {
		text = ansi.Wrap(text, width, "")
	}
	return strings.Split(text, "\n")
}

// indentContinuation prefixes every line after the first with pad.
func indentContinuation(lines []string, first, pad string) []string {
	for i := range lines {
		if i == 0 {
			lines[i] = first + lines[i]
		} else {
			lines[i] = pad + lines[i]
		}
	}
	return lines
}

// renderMarkdown renders markdown content into blocks of display lines,
// with syntax-highlighted code blocks. Lines never exceed width cells.
func renderMarkdown(content string, width int) []block {
	if width <= 0 {
		width = DefaultWrapWidth
	}

	var blocks []block
	var para []string
	inCodeBlock := false
	codeBlockLang := ""
	var code strings.Builder

	flushPara := func() {
		if len(para) == 0 {
			return
		}
		text := renderInlineMarkdown(strings.Join(para, " "))
		blocks = append(blocks, block{kind: blockParagraph, lines: wrapLines(text, width)})
		para = nil
	}
	flushCode := func() {
		// The formatter may close the final newline token on a line of its
		// own, leaving a line that holds only escape codes.
		raw := strings.Split(highlightCode(code.String(), codeBlockLang), "\n")
		for len(raw) > 1 && strings.TrimSpace(ansi.Strip(raw[len(raw)-1])) == "" {
			raw = raw[:len(raw)-1]
		}
		raw[len(raw)-1] += ansi.ResetStyle

		var lines []string
		for _, l := range raw {
			lines = append(lines, wrapLines(l, width)...)
		}
		blocks = append(blocks, block{kind: blockCode, lines: lines})
		code.Reset()
		codeBlockLang = ""
	}
	gap := func() {
		if len(blocks) > 0 && blocks[len(blocks)-1].kind != blockGap {
			blocks = append(blocks, block{kind: blockGap, lines: []string{""}})
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "```") {
			if !inCodeBlock {
				flushPara()
				inCodeBlock = true
				codeBlockLang = strings.TrimSpace(strings.TrimPrefix(line, "```"))
			} else {
				inCodeBlock = false
				flushCode()
			}
			continue
		}
		if inCodeBlock {
			if code.Len() > 0 {
				code.WriteString("\n")
			}
			code.WriteString(line)
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flushPara()
			gap()

		case strings.HasPrefix(trimmed, "#"):
			flushPara()
			heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			blocks = append(blocks, block{kind: blockHeading, lines: wrapLines(MarkdownHeadingStyle.Render(heading), width)})

		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			flushPara()
			bullet := "  " + MarkdownListBulletStyle.Render("•") + " "
			lines := wrapLines(renderInlineMarkdown(trimmed[2:]), width-4)
			blocks = append(blocks, block{kind: blockItem, lines: indentContinuation(lines, bullet, "    ")})

		case numberedPattern.MatchString(trimmed):
			flushPara()
			m := numberedPattern.FindStringSubmatch(trimmed)
			number := "  " + MarkdownListBulletStyle.Render(m[1]+".") + " "
			pad := strings.Repeat(" ", 3+len(m[1])+1)
			lines := wrapLines(renderInlineMarkdown(m[2]), width-len(pad))
			blocks = append(blocks, block{kind: blockItem, lines: indentContinuation(lines, number, pad)})

		case strings.HasPrefix(trimmed, "> "):
			flushPara()
			lines := wrapLines(MarkdownBlockquoteStyle.Render(strings.TrimPrefix(trimmed, "> ")), width-2)
			blocks = append(blocks, block{kind: blockQuote, lines: indentContinuation(lines, "│ ", "│ ")})

		default:
			para = append(para, trimmed)
		}
	}

	// An unterminated fence is still shown, which is the normal state while
	// a response streams.
	if inCodeBlock {
		flushCode()
	}
	flushPara()

	// No trailing gap.
	for len(blocks) > 0 && blocks[len(blocks)-1].kind == blockGap {
		blocks = blocks[:len(blocks)-1]
	}
	return blocks
}
