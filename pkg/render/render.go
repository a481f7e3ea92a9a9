// Package render builds rich diagnostic content: markdown explanations and
// Mermaid diagrams visualizing command pipelines and compatibility rules.
package render

import (
	"fmt"
	"strings"

	"github.com/mediakit/ffcheck/pkg/knowledge"
	"github.com/mediakit/ffcheck/pkg/parser"
	"github.com/mediakit/ffcheck/pkg/schemas"
	"github.com/mediakit/ffcheck/pkg/tracker"
)

// PipelineDiagram renders a Mermaid flow diagram of the command: inputs with
// their inferred streams, codec and filter nodes, and outputs with their
// inferred container formats.
func PipelineDiagram(cmd *parser.Command, tr *tracker.StreamTracker, db *knowledge.Database) string {
	var b strings.Builder
	b.WriteString("graph LR\n")
	nodeID := 0

	type inputNode struct {
		id      string
		streams []schemas.StreamType
	}
	var inputNodes []inputNode

	for idx, input := range cmd.Inputs {
		streams := tr.StreamsForInput(idx)
		id := fmt.Sprintf("I%d", nodeID)
		nodeID++

		label := sanitizeLabel(input.FilePath)
		if desc := formatStreamTypes(streams); desc != "" {
			label += "<br/>" + desc
		}
		fmt.Fprintf(&b, "  %s[%s]\n", id, label)
		inputNodes = append(inputNodes, inputNode{id: id, streams: streams})
	}

	for _, output := range cmd.Outputs {
		outputID := fmt.Sprintf("O%d", nodeID)
		nodeID++

		var videoCodec, audioCodec string
		var videoFilters []string
		for _, opt := range output.Options {
			switch o := opt.(type) {
			case parser.VideoCodecOption:
				videoCodec = o.Codec
			case parser.AudioCodecOption:
				audioCodec = o.Codec
			case parser.CodecOption:
				if info, ok := db.Codec(o.Codec); ok {
					switch info.StreamType {
					case schemas.StreamVideo:
						videoCodec = o.Codec
					case schemas.StreamAudio:
						audioCodec = o.Codec
					}
				}
			case parser.VideoFilterOption:
				videoFilters = append(videoFilters, o.Filter.Raw)
			}
		}

		var lastVideo, lastAudio string
		for _, in := range inputNodes {
			if containsStream(in.streams, schemas.StreamVideo) {
				if videoCodec != "" {
					id := fmt.Sprintf("VC%d", nodeID)
					nodeID++
					fmt.Fprintf(&b, "  %s[%s]\n", id, sanitizeLabel(videoCodec))
					fmt.Fprintf(&b, "  %s -->|video| %s\n", in.id, id)
					lastVideo = id
				} else {
					lastVideo = in.id
				}
			}
			if containsStream(in.streams, schemas.StreamAudio) {
				if audioCodec != "" {
					id := fmt.Sprintf("AC%d", nodeID)
					nodeID++
					fmt.Fprintf(&b, "  %s[%s]\n", id, sanitizeLabel(audioCodec))
					fmt.Fprintf(&b, "  %s -->|audio| %s\n", in.id, id)
					lastAudio = id
				} else {
					lastAudio = in.id
				}
			}
		}

		for _, raw := range videoFilters {
			id := fmt.Sprintf("F%d", nodeID)
			nodeID++
			fmt.Fprintf(&b, "  %s[%s]\n", id, sanitizeLabel(raw))
			if lastVideo != "" {
				fmt.Fprintf(&b, "  %s --> %s\n", lastVideo, id)
				lastVideo = id
			}
		}

		label := sanitizeLabel(output.FilePath)
		if format := db.InferFormatFromFilename(output.FilePath); format != "" {
			label += "<br/>" + format
		}
		fmt.Fprintf(&b, "  %s[%s]\n", outputID, label)

		if lastVideo != "" {
			fmt.Fprintf(&b, "  %s --> %s\n", lastVideo, outputID)
		}
		if lastAudio != "" {
			fmt.Fprintf(&b, "  %s --> %s\n", lastAudio, outputID)
		}
	}

	return b.String()
}

// compatibilityRules maps well-known codecs to the container names shown in
// the compatibility matrix. Presentation only; authoritative compatibility
// lives in the knowledge base.
var compatibilityRules = map[string]struct {
	streamType   schemas.StreamType
	compatible   []string
	incompatible []string
}{
	"vp9":     {schemas.StreamVideo, []string{"WebM", "MKV"}, []string{"MP4", "AVI"}},
	"vp8":     {schemas.StreamVideo, []string{"WebM", "MKV"}, []string{"MP4", "AVI"}},
	"av1":     {schemas.StreamVideo, []string{"WebM", "MKV", "MP4"}, []string{"AVI"}},
	"libx264": {schemas.StreamVideo, []string{"MP4", "MKV", "AVI", "MOV"}, []string{"WebM"}},
	"h264":    {schemas.StreamVideo, []string{"MP4", "MKV", "AVI", "MOV"}, []string{"WebM"}},
	"libx265": {schemas.StreamVideo, []string{"MP4", "MKV", "MOV"}, []string{"WebM", "AVI"}},
	"hevc":    {schemas.StreamVideo, []string{"MP4", "MKV", "MOV"}, []string{"WebM", "AVI"}},
	"opus":    {schemas.StreamAudio, []string{"WebM", "MKV", "OGG"}, []string{"MP4", "MP3"}},
	"vorbis":  {schemas.StreamAudio, []string{"OGG", "WebM", "MKV"}, []string{"MP4", "MP3"}},
	"aac":     {schemas.StreamAudio, []string{"MP4", "MKV", "MOV"}, []string{"WebM", "OGG"}},
}

// CodecCompatibilityMatrix renders a Mermaid diagram of which containers
// accept the codec. When attemptedFormat names one of the incompatible
// containers it is highlighted.
func CodecCompatibilityMatrix(codecName string, streamType schemas.StreamType, attemptedFormat string) string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	rule, ok := compatibilityRules[codecName]
	if ok && rule.streamType != streamType {
		ok = false
	}

	fmt.Fprintf(&b, "  Codec[%s]\n", sanitizeLabel(codecName))
	if !ok {
		return b.String()
	}

	for _, f := range rule.compatible {
		id := "C" + strings.ReplaceAll(f, ".", "")
		fmt.Fprintf(&b, "  %s[✓ %s]\n", id, f)
		fmt.Fprintf(&b, "  Codec --> %s\n", id)
		fmt.Fprintf(&b, "  style %s fill:#2a4,stroke:#6f6\n", id)
	}
	for _, f := range rule.incompatible {
		id := "I" + strings.ReplaceAll(f, ".", "")
		fmt.Fprintf(&b, "  %s[✗ %s]\n", id, f)
		fmt.Fprintf(&b, "  Codec -.-> %s\n", id)
		if attemptedFormat != "" && strings.EqualFold(attemptedFormat, f) {
			fmt.Fprintf(&b, "  style %s fill:#a22,stroke:#f66\n", id)
		} else {
			fmt.Fprintf(&b, "  style %s fill:#444,stroke:#888\n", id)
		}
	}

	return b.String()
}

// ExplainCodecFormatIncompatibility renders a markdown explanation of why a
// codec cannot go in a container and what would work instead
func ExplainCodecFormatIncompatibility(codecName, formatName string, compatibleFormats []string) string {
	var list strings.Builder
	for i, f := range compatibleFormats {
		if i > 0 {
			list.WriteString("\n")
		}
		fmt.Fprintf(&list, "- `%s`", f)
	}

	return fmt.Sprintf(
		"## Codec/Container Incompatibility\n\n"+
			"The **%s** codec cannot be used with **%s** containers.\n\n"+
			"### Compatible Containers\n%s\n\n"+
			"### Solution\n"+
			"Change the output file extension to use a compatible container format.",
		codecName, formatName, list.String(),
	)
}

// ExplainMissingStream renders a markdown explanation of a stream that an
// operation needs but no input provides
func ExplainMissingStream(streamType schemas.StreamType, operation string, available []schemas.StreamType) string {
	availableList := "None"
	if len(available) > 0 {
		var list strings.Builder
		for i, s := range available {
			if i > 0 {
				list.WriteString("\n")
			}
			fmt.Fprintf(&list, "- %s", s.Label())
		}
		availableList = list.String()
	}

	return fmt.Sprintf(
		"## Missing %s Stream\n\n"+
			"The operation **%s** requires a %s stream, but none is available in the inputs.\n\n"+
			"### Available Streams\n%s\n\n"+
			"### Solution\n"+
			"- Use an input file that contains a %s stream, or\n"+
			"- Remove the %s-specific option from the command",
		streamType.Label(), operation, streamType.Label(), availableList, streamType.Label(), streamType.Label(),
	)
}

// FilterMismatchBlocks builds the rich content attached to a filter
// stream-type mismatch: a short explanation plus a diagram of the broken
// connection
func FilterMismatchBlocks(filterName string, expected, found schemas.StreamType) []schemas.RichBlock {
	name := sanitizeMermaidID(filterName)
	diagram := fmt.Sprintf(
		"graph TD; in_%s([%s]) --x--> f_%s[%s]; f_%s --x--> out([%s])",
		expected, expected, name, sanitizeLabel(filterName), name, expected,
	)
	return []schemas.RichBlock{
		schemas.MarkdownBlock(fmt.Sprintf("Filter '%s' expects %s input.", filterName, found)),
		schemas.MermaidBlock(diagram),
	}
}

func formatStreamTypes(streams []schemas.StreamType) string {
	if len(streams) == 0 {
		return ""
	}
	parts := make([]string, 0, len(streams))
	for _, s := range streams {
		switch s {
		case schemas.StreamVideo:
			parts = append(parts, "V")
		case schemas.StreamAudio:
			parts = append(parts, "A")
		default:
			parts = append(parts, "?")
		}
	}
	return strings.Join(parts, "+")
}

func containsStream(streams []schemas.StreamType, st schemas.StreamType) bool {
	for _, s := range streams {
		if s == st {
			return true
		}
	}
	return false
}

// sanitizeLabel escapes characters that break Mermaid node labels
func sanitizeLabel(s string) string {
	r := strings.NewReplacer(
		"[", "&#91;",
		"]", "&#93;",
		"(", "&#40;",
		")", "&#41;",
	)
	return r.Replace(s)
}

// sanitizeMermaidID strips characters that are not legal in Mermaid node ids
func sanitizeMermaidID(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			b.WriteRune(c)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
