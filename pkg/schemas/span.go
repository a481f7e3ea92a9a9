// Package schemas defines the diagnostic wire types shared by the analyzer
// core and its transport layer
package schemas

// Span locates a region of the analyzed command text.
// Lines and columns are 0-based and already adjusted by any caller-supplied
// line/column offsets, so editors can use them directly as cursor positions.
type Span struct {
	StartLine   int `json:"start_line"`
	StartColumn int `json:"start_column"`
	EndLine     int `json:"end_line"`
	EndColumn   int `json:"end_column"`
}

// Severity is the level of a diagnostic
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// StreamType classifies a media stream
type StreamType string

const (
	StreamVideo    StreamType = "video"
	StreamAudio    StreamType = "audio"
	StreamSubtitle StreamType = "subtitle"
	StreamData     StreamType = "data"
	StreamUnknown  StreamType = "unknown"
)

// Matches reports whether two stream types are compatible.
// Unknown acts as a wildcard and matches everything.
func (t StreamType) Matches(other StreamType) bool {
	if t == StreamUnknown || other == StreamUnknown {
		return true
	}
	return t == other
}

// Label returns the capitalized form used in diagnostic message text
func (t StreamType) Label() string {
	switch t {
	case StreamVideo:
		return "Video"
	case StreamAudio:
		return "Audio"
	case StreamSubtitle:
		return "Subtitle"
	case StreamData:
		return "Data"
	default:
		return "Unknown"
	}
}

// SpanRole describes how a span relates to its diagnostic
type SpanRole string

const (
	// SpanRoleTarget marks the primary fault location
	SpanRoleTarget SpanRole = "target"
	// SpanRoleReference points at why the fault occurs, never at the fault itself
	SpanRoleReference SpanRole = "reference"
	// SpanRoleSuggestion carries a replacement for the spanned text
	SpanRoleSuggestion SpanRole = "suggestion"
)

// DiagnosticSpan is one attributed source location of a diagnostic
type DiagnosticSpan struct {
	Span Span     `json:"span"`
	Role SpanRole `json:"role"`
	// Replacement is set only for suggestion spans
	Replacement string `json:"replacement,omitempty"`
	Message     string `json:"message"`
}

// TargetSpan builds a target-role diagnostic span
func TargetSpan(span Span, message string) DiagnosticSpan {
	return DiagnosticSpan{Span: span, Role: SpanRoleTarget, Message: message}
}

// ReferenceSpan builds a reference-role diagnostic span
func ReferenceSpan(span Span, message string) DiagnosticSpan {
	return DiagnosticSpan{Span: span, Role: SpanRoleReference, Message: message}
}

// SuggestionSpan builds a suggestion-role diagnostic span
func SuggestionSpan(span Span, replacement, message string) DiagnosticSpan {
	return DiagnosticSpan{Span: span, Role: SpanRoleSuggestion, Replacement: replacement, Message: message}
}

// RichBlock is one presentation block of rich diagnostic content,
// either GFM markdown or a Mermaid diagram
type RichBlock struct {
	Type     string `json:"type"` // "markdown" or "mermaid"
	Markdown string `json:"markdown,omitempty"`
	Mermaid  string `json:"mermaid,omitempty"`
}

// MarkdownBlock builds a markdown rich block
func MarkdownBlock(markdown string) RichBlock {
	return RichBlock{Type: "markdown", Markdown: markdown}
}

// MermaidBlock builds a Mermaid diagram rich block
func MermaidBlock(mermaid string) RichBlock {
	return RichBlock{Type: "mermaid", Mermaid: mermaid}
}

// Rich is optional explanatory content attached to a diagnostic.
// It is purely additive; consumers that cannot render it lose nothing
// required for correctness.
type Rich struct {
	Blocks []RichBlock `json:"blocks"`
}

// NewRich wraps blocks into a Rich value, or returns nil for no blocks
func NewRich(blocks ...RichBlock) *Rich {
	if len(blocks) == 0 {
		return nil
	}
	return &Rich{Blocks: blocks}
}
