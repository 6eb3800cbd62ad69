package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/zhubert/followup/internal/selection"
	"github.com/zhubert/followup/internal/transcript"
)

// Element kinds in the transcript tree.
const (
	kindRoot      = "transcript"
	kindMessage   = "message"
	kindLabel     = "label"
	kindBody      = "body"
	kindIndicator = "indicator"
	kindControl   = "control"
	kindText      = "#text"
)

// attrID carries the message ID on message elements.
const attrID = "id"

// docNode is a node of the rendered transcript. Every displayed line is a
// text node; elements group lines into blocks, messages and the root.
type docNode struct {
	kind     string
	parent   *docNode
	children []*docNode
	attrs    map[string]string
	line     int // content line of a text node, -1 for elements
}

func newElement(kind string, attrs map[string]string) *docNode {
	return &docNode{kind: kind, attrs: attrs, line: -1}
}

func (n *docNode) appendChild(c *docNode) *docNode {
	c.parent = n
	n.children = append(n.children, c)
	return c
}

// Parent returns a nil interface at the root.
func (n *docNode) Parent() selection.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *docNode) Children() []selection.Node {
	out := make([]selection.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *docNode) IsText() bool { return n.kind == kindText }

func (n *docNode) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// lineSpan returns the first and last content line under n, or ok=false for
// an element without rendered lines.
func (n *docNode) lineSpan() (first, last int, ok bool) {
	if n.IsText() {
		return n.line, n.line, true
	}
	first, last = -1, -1
	for _, c := range n.children {
		f, l, cok := c.lineSpan()
		if !cok {
			continue
		}
		if first < 0 {
			first = f
		}
		last = l
	}
	return first, last, first >= 0
}

// Document is the transcript rendered to display lines plus the node tree
// over them. It is rebuilt whenever the transcript, width or theme changes.
type Document struct {
	root    *docNode
	control *docNode
	lines   []string   // styled lines
	plain   []string   // lines with escape codes removed
	nodes   []*docNode // text node for each line
}

// BuildDocument renders tr at width. Assistant messages carry the role
// marker value from markers; streaming messages get an indicator node with
// the streaming marker showing spinner.
func BuildDocument(tr *transcript.Transcript, width int, markers selection.Markers, spinner string) *Document {
	d := &Document{root: newElement(kindRoot, nil)}

	if tr == nil || len(tr.Messages) == 0 {
		d.addLine(d.root, ChatPlaceholderStyle.Render("No messages yet. Load a transcript with --transcript."))
	} else {
		for i, msg := range tr.Messages {
			if i > 0 {
				d.addLine(d.root, "")
			}
			d.addMessage(msg, width, markers, spinner)
		}
	}

	// The control is part of the tree so clicks on it can be recognized; it
	// is drawn as an overlay and owns no lines.
	d.control = d.root.appendChild(newElement(kindControl, map[string]string{markers.ControlAttr: "true"}))
	return d
}

func (d *Document) addMessage(msg transcript.Message, width int, markers selection.Markers, spinner string) {
	role := msg.Role
	roleStyle, roleName := ChatUserStyle, "You"
	if msg.Role == transcript.RoleAssistant {
		role = markers.AssistantRole
		roleStyle, roleName = ChatAssistantStyle, "Assistant"
	}

	el := d.root.appendChild(newElement(kindMessage, map[string]string{
		markers.RoleAttr: role,
		attrID:           msg.ID,
	}))

	label := el.appendChild(newElement(kindLabel, nil))
	d.addLine(label, roleStyle.Render(roleName+":"))

	body := el.appendChild(newElement(kindBody, nil))
	for _, b := range renderMarkdown(strings.TrimSpace(msg.Content), width) {
		blockEl := body.appendChild(newElement(b.kind, nil))
		for _, line := range b.lines {
			d.addLine(blockEl, line)
		}
	}

	if msg.Streaming {
		ind := el.appendChild(newElement(kindIndicator, map[string]string{markers.StreamingAttr: "true"}))
		d.addLine(ind, StatusLoadingStyle.Render(spinner+" generating..."))
	}
}

func (d *Document) addLine(parent *docNode, styled string) {
	n := newElement(kindText, nil)
	n.line = len(d.lines)
	parent.appendChild(n)
	d.lines = append(d.lines, styled)
	d.plain = append(d.plain, ansi.Strip(styled))
	d.nodes = append(d.nodes, n)
}

// Lines returns the styled display lines.
func (d *Document) Lines() []string { return d.lines }

// LineCount returns the number of display lines.
func (d *Document) LineCount() int { return len(d.lines) }

// Root returns the transcript element.
func (d *Document) Root() selection.Node { return d.root }

// Control returns the follow-up control element.
func (d *Document) Control() selection.Node { return d.control }

// NodeAt returns the text node on line, or the root when line is outside
// the document.
func (d *Document) NodeAt(line int) selection.Node {
	if line < 0 || line >= len(d.nodes) {
		return d.root
	}
	return d.nodes[line]
}

// LineWidth returns the display width of line in cells.
func (d *Document) LineWidth(line int) int {
	if line < 0 || line >= len(d.plain) {
		return 0
	}
	return ansi.StringWidth(d.plain[line])
}

// Plain returns line without escape codes.
func (d *Document) Plain(line int) string {
	if line < 0 || line >= len(d.plain) {
		return ""
	}
	return d.plain[line]
}

// BlockSpan returns the lines of the block element containing line. Lines
// directly under the root or a message form a block of one line.
func (d *Document) BlockSpan(line int) (first, last int) {
	if line < 0 || line >= len(d.nodes) {
		return line, line
	}
	parent := d.nodes[line].parent
	if parent == nil || parent == d.root || parent.kind == kindMessage || parent.kind == kindBody {
		return line, line
	}
	first, last, _ = parent.lineSpan()
	return first, last
}

// MessageAt returns the ID of the message that owns line, or "".
func (d *Document) MessageAt(line int) string {
	if line < 0 || line >= len(d.nodes) {
		return ""
	}
	for n := d.nodes[line]; n != nil; n = n.parent {
		if n.kind == kindMessage {
			return n.attrs[attrID]
		}
	}
	return ""
}

// Text returns the plain text between two points, cut on cell columns.
// from must not come after to.
func (d *Document) Text(from, to point) string {
	if len(d.lines) == 0 {
		return ""
	}
	var sb strings.Builder
	for y := from.line; y <= to.line && y < len(d.lines); y++ {
		if y < 0 {
			continue
		}
		start, end := 0, d.LineWidth(y)
		if y == from.line {
			start = from.col
		}
		if y == to.line && to.col < end {
			end = to.col
		}
		if start < end {
			sb.WriteString(ansi.Cut(d.plain[y], start, end))
		}
		if y < to.line {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
