// Package analyzer orchestrates the two-phase command analysis: stream
// discovery from inputs, then per-output option validation.
package analyzer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mediakit/ffcheck/pkg/knowledge"
	"github.com/mediakit/ffcheck/pkg/parser"
	"github.com/mediakit/ffcheck/pkg/render"
	"github.com/mediakit/ffcheck/pkg/schemas"
	"github.com/mediakit/ffcheck/pkg/tracker"
)

// Bitrate values above these (video first, audio second) draw a W101
// warning. Audio bitrates conventionally arrive in kbps, hence the much
// lower cutoff.
const (
	videoBitrateThreshold = 50000
	audioBitrateThreshold = 500
)

// maxParseErrorSpan caps the width of the synthetic span reported for
// unparsable command text
const maxParseErrorSpan = 100

// Analyzer validates parsed commands against a knowledge base. The zero
// value is not usable; construct with New or NewWithDatabase.
type Analyzer struct {
	db *knowledge.Database
}

// New returns an analyzer over the built-in knowledge base
func New() *Analyzer {
	return &Analyzer{db: knowledge.Default()}
}

// NewWithDatabase returns an analyzer over a custom knowledge base, usually
// one extended from a user-provided YAML document
func NewWithDatabase(db *knowledge.Database) *Analyzer {
	return &Analyzer{db: db}
}

// AnalyzeText parses and analyzes raw command text. Offsets shift every
// reported span so commands embedded in larger documents map back to
// document coordinates. Parse failures are reported as a single E000
// diagnostic rather than an error; analysis itself never fails.
func (a *Analyzer) AnalyzeText(text string, lineOffset, columnOffset int) schemas.AnalyzerDiagnostics {
	cmd, err := parser.Parse(text, lineOffset, columnOffset)
	if err != nil {
		width := len(text)
		if width > maxParseErrorSpan {
			width = maxParseErrorSpan
		}
		span := schemas.Span{
			StartLine:   lineOffset,
			StartColumn: columnOffset,
			EndLine:     lineOffset,
			EndColumn:   columnOffset + width,
		}
		return schemas.AnalyzerDiagnostics{Messages: []schemas.Diagnostic{{
			Code:     "E000",
			Severity: schemas.SeverityError,
			Kind:     schemas.ParseError{Message: err.Error()},
			Message:  fmt.Sprintf("Failed to parse FFmpeg command: %v", err),
			Spans:    []schemas.DiagnosticSpan{schemas.TargetSpan(span, "parse error here")},
		}}}
	}
	return a.Analyze(cmd)
}

// Analyze runs the two analysis phases over a parsed command and returns
// all diagnostics in declaration order: input diagnostics first, then each
// output's diagnostics in option order. No deduplication or severity
// reordering happens.
func (a *Analyzer) Analyze(cmd *parser.Command) schemas.AnalyzerDiagnostics {
	var diagnostics []schemas.Diagnostic

	builder := tracker.NewBuilder(a.db)
	diagnostics = append(diagnostics, builder.AnalyzeInputs(cmd.Inputs)...)
	tr := builder.Freeze()

	for _, output := range cmd.Outputs {
		diagnostics = append(diagnostics, a.analyzeOutput(output, tr)...)
	}

	return schemas.AnalyzerDiagnostics{Messages: diagnostics}
}

// trackedCodec is a codec selection remembered for the post-loop
// codec/container compatibility check
type trackedCodec struct {
	name string
	span schemas.Span
}

func (a *Analyzer) analyzeOutput(output parser.OutputSpec, tr *tracker.StreamTracker) []schemas.Diagnostic {
	var diagnostics []schemas.Diagnostic

	var videoCodec, audioCodec *trackedCodec
	format := a.db.InferFormatFromFilename(output.FilePath)

	for _, opt := range output.Options {
		switch o := opt.(type) {
		case parser.VideoCodecOption:
			videoCodec = &trackedCodec{name: o.Codec, span: o.CodecSpan}

			if d := tr.ValidateCodec(o.Codec, schemas.StreamVideo, o.CodecSpan); d != nil {
				diagnostics = append(diagnostics, *d)
			}
			if !tr.HasStreamType(schemas.StreamVideo) && o.Codec != "copy" {
				diagnostics = append(diagnostics, schemas.Diagnostic{
					Code:     "E104",
					Severity: schemas.SeverityError,
					Kind: schemas.MissingStream{
						StreamType: schemas.StreamVideo,
						Operation:  "video encoding",
					},
					Message: "Video codec specified but no video stream available in inputs",
					Spans:   []schemas.DiagnosticSpan{schemas.TargetSpan(o.CodecSpan, "filter requires video")},
				})
			}

		case parser.AudioCodecOption:
			audioCodec = &trackedCodec{name: o.Codec, span: o.CodecSpan}

			if d := tr.ValidateCodec(o.Codec, schemas.StreamAudio, o.CodecSpan); d != nil {
				diagnostics = append(diagnostics, *d)
			}
			if !tr.HasStreamType(schemas.StreamAudio) && o.Codec != "copy" {
				diagnostics = append(diagnostics, schemas.Diagnostic{
					Code:     "E105",
					Severity: schemas.SeverityError,
					Kind: schemas.MissingStream{
						StreamType: schemas.StreamAudio,
						Operation:  "audio encoding",
					},
					Message: "Audio codec specified but no audio stream available in inputs",
					Spans:   []schemas.DiagnosticSpan{schemas.TargetSpan(o.CodecSpan, "codec requires audio")},
				})
			}

		case parser.CodecOption:
			// Bare -c: resolve the stream kind from the knowledge base and
			// quietly take it as that kind's codec. Unknown names are left
			// for the compatibility check to ignore.
			if info, ok := a.db.Codec(o.Codec); ok {
				switch info.StreamType {
				case schemas.StreamVideo:
					videoCodec = &trackedCodec{name: o.Codec, span: o.CodecSpan}
				case schemas.StreamAudio:
					audioCodec = &trackedCodec{name: o.Codec, span: o.CodecSpan}
				}
			}

		case parser.FormatOption:
			format = o.Format

		case parser.VideoFilterOption:
			diagnostics = a.appendFilterDiagnostic(diagnostics, tr, o.Filter, schemas.StreamVideo, o.OptionSpan)

		case parser.AudioFilterOption:
			diagnostics = a.appendFilterDiagnostic(diagnostics, tr, o.Filter, schemas.StreamAudio, o.OptionSpan)

		case parser.ResolutionOption:
			if d := validateResolution(o.Resolution, o.ResolutionSpan); d != nil {
				diagnostics = append(diagnostics, *d)
			}

		case parser.VideoBitrateOption:
			if d := validateBitrate(o.Bitrate, o.BitrateSpan, true); d != nil {
				diagnostics = append(diagnostics, *d)
			}

		case parser.AudioBitrateOption:
			if d := validateBitrate(o.Bitrate, o.BitrateSpan, false); d != nil {
				diagnostics = append(diagnostics, *d)
			}

		case parser.FrameRateOption:
			if d := validateFrameRate(o.Rate, o.RateSpan); d != nil {
				diagnostics = append(diagnostics, *d)
			}

		case parser.MapOption:
			if d := validateMapping(o.Mapping, o.MappingSpan, tr); d != nil {
				diagnostics = append(diagnostics, *d)
			}
		}
	}

	if format != "" {
		if videoCodec != nil {
			if d := tr.ValidateCodecFormatCompatibility(videoCodec.name, format, videoCodec.span, output.FilePathSpan); d != nil {
				diagnostics = append(diagnostics, *d)
			}
		}
		if audioCodec != nil {
			if d := tr.ValidateCodecFormatCompatibility(audioCodec.name, format, audioCodec.span, output.FilePathSpan); d != nil {
				diagnostics = append(diagnostics, *d)
			}
		}
	}

	return diagnostics
}

func (a *Analyzer) appendFilterDiagnostic(diagnostics []schemas.Diagnostic, tr *tracker.StreamTracker, filter parser.FilterSpec, context schemas.StreamType, span schemas.Span) []schemas.Diagnostic {
	name := ExtractFilterName(filter.Raw)
	d := tr.ValidateFilter(name, context, span)
	if d == nil {
		return diagnostics
	}

	// Type-mismatch findings get a visual explanation; everything else
	// stays plain
	if kind, ok := d.Kind.(schemas.StreamTypeMismatch); ok {
		d.Rich = schemas.NewRich(render.FilterMismatchBlocks(name, kind.Expected, kind.Found)...)
	}

	return append(diagnostics, *d)
}

// ExtractFilterName returns the leading filter name of a raw filter
// expression: the substring before the first '=', ',' or ':', trimmed
func ExtractFilterName(raw string) string {
	if idx := strings.IndexAny(raw, "=,:"); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}

func validateResolution(resolution string, span schemas.Span) *schemas.Diagnostic {
	parts := strings.Split(resolution, "x")
	if len(parts) != 2 {
		return &schemas.Diagnostic{
			Code:     "E401",
			Severity: schemas.SeverityError,
			Kind:     schemas.InvalidResolution{Value: resolution},
			Message:  fmt.Sprintf("Invalid resolution format '%s' (expected format: WIDTHxHEIGHT)", resolution),
			Spans:    []schemas.DiagnosticSpan{schemas.TargetSpan(span, "invalid resolution format")},
		}
	}

	_, errW := strconv.ParseUint(parts[0], 10, 32)
	_, errH := strconv.ParseUint(parts[1], 10, 32)
	if errW != nil || errH != nil {
		return &schemas.Diagnostic{
			Code:     "E401",
			Severity: schemas.SeverityError,
			Kind:     schemas.InvalidResolution{Value: resolution},
			Message:  fmt.Sprintf("Invalid resolution '%s' (width and height must be numbers)", resolution),
			Spans:    []schemas.DiagnosticSpan{schemas.TargetSpan(span, "width/height must be numbers")},
		}
	}

	return nil
}

func validateBitrate(bitrate string, span schemas.Span, isVideo bool) *schemas.Diagnostic {
	numeric := strings.TrimRightFunc(bitrate, unicode.IsLetter)

	value, err := strconv.ParseUint(numeric, 10, 32)
	if err != nil {
		return &schemas.Diagnostic{
			Code:     "E402",
			Severity: schemas.SeverityError,
			Kind:     schemas.InvalidBitrate{Value: bitrate},
			Message:  fmt.Sprintf("Invalid bitrate format '%s'", bitrate),
			Spans:    []schemas.DiagnosticSpan{schemas.TargetSpan(span, "invalid bitrate")},
		}
	}

	threshold := uint64(audioBitrateThreshold)
	if isVideo {
		threshold = videoBitrateThreshold
	}
	if value > threshold {
		return &schemas.Diagnostic{
			Code:     "W101",
			Severity: schemas.SeverityWarning,
			Kind:     schemas.HighBitrateWarning{Bitrate: bitrate},
			Message:  fmt.Sprintf("Extremely high bitrate specified: %s", bitrate),
			Spans:    []schemas.DiagnosticSpan{schemas.TargetSpan(span, "high bitrate")},
		}
	}

	return nil
}

func validateFrameRate(rate string, span schemas.Span) *schemas.Diagnostic {
	fps, err := strconv.ParseFloat(rate, 64)
	if err != nil {
		return &schemas.Diagnostic{
			Code:     "E403",
			Severity: schemas.SeverityError,
			Kind:     schemas.InvalidFrameRate{Value: rate},
			Message:  fmt.Sprintf("Invalid frame rate format '%s'", rate),
			Spans:    []schemas.DiagnosticSpan{schemas.TargetSpan(span, "invalid frame rate format")},
		}
	}

	if fps <= 0 || fps > 1000 {
		return &schemas.Diagnostic{
			Code:     "E403",
			Severity: schemas.SeverityError,
			Kind:     schemas.InvalidFrameRate{Value: rate},
			Message:  fmt.Sprintf("Invalid frame rate '%s' (must be between 0 and 1000)", rate),
			Spans:    []schemas.DiagnosticSpan{schemas.TargetSpan(span, "invalid frame rate")},
		}
	}

	return nil
}

func validateMapping(mapping string, span schemas.Span, tr *tracker.StreamTracker) *schemas.Diagnostic {
	if strings.HasPrefix(mapping, "[") && strings.HasSuffix(mapping, "]") {
		label := mapping[1 : len(mapping)-1]
		if !tr.HasFilterOutput(label) {
			return &schemas.Diagnostic{
				Code:     "E303",
				Severity: schemas.SeverityError,
				Kind: schemas.StreamMappingError{
					Mapping: mapping,
					Reason:  fmt.Sprintf("Filter output label '%s' does not exist", label),
				},
				Message: fmt.Sprintf("Referenced filter output '%s' does not exist", label),
				Spans:   []schemas.DiagnosticSpan{schemas.TargetSpan(span, "unknown label")},
			}
		}
		return nil
	}

	first := mapping
	if idx := strings.Index(mapping, ":"); idx >= 0 {
		first = mapping[:idx]
	}
	inputIdx, err := strconv.ParseUint(first, 10, 32)
	if err != nil {
		return nil
	}
	if int(inputIdx) > tr.MaxInputIndex() {
		return &schemas.Diagnostic{
			Code:     "E301",
			Severity: schemas.SeverityError,
			Kind:     schemas.NonExistentStream{StreamRef: mapping},
			Message:  fmt.Sprintf("Input index %d does not exist", inputIdx),
			Spans:    []schemas.DiagnosticSpan{schemas.TargetSpan(span, "non-existent input index")},
		}
	}

	return nil
}
