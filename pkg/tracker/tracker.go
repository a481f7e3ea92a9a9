// Package tracker follows media streams from input declarations through the
// command pipeline and answers the analyzer's availability and compatibility
// questions.
package tracker

import (
	"fmt"
	"strings"

	"github.com/mediakit/ffcheck/pkg/knowledge"
	"github.com/mediakit/ffcheck/pkg/parser"
	"github.com/mediakit/ffcheck/pkg/schemas"
)

// Builder accumulates stream knowledge while the command's inputs and filter
// graphs are walked. Freeze it to get the read-only StreamTracker the
// validation passes use; the split keeps any mutation out of the validation
// phase.
type Builder struct {
	inputStreams   []parser.StreamInfo
	inputFileSpans []schemas.Span
	filterOutputs  map[string]schemas.StreamType
	db             *knowledge.Database
}

// NewBuilder starts an empty builder over the given knowledge base
func NewBuilder(db *knowledge.Database) *Builder {
	return &Builder{
		filterOutputs: make(map[string]schemas.StreamType),
		db:            db,
	}
}

// AnalyzeInputs infers the streams each input contributes, in declaration
// order. Inputs whose stream types cannot be determined produce a W200
// warning.
func (b *Builder) AnalyzeInputs(inputs []parser.InputSpec) []schemas.Diagnostic {
	var diagnostics []schemas.Diagnostic

	for inputIdx, input := range inputs {
		b.inputFileSpans = append(b.inputFileSpans, input.FilePathSpan)

		streams := b.inferInputStreams(input)
		for streamIdx, st := range streams {
			b.inputStreams = append(b.inputStreams, parser.StreamInfo{
				StreamType: st,
				Index:      streamIdx,
				InputIndex: inputIdx,
			})
		}

		if len(streams) == 0 {
			diagnostics = append(diagnostics, schemas.Diagnostic{
				Code:     "W200",
				Severity: schemas.SeverityWarning,
				Kind:     schemas.ParseError{Message: "Could not determine stream types from input"},
				Message:  fmt.Sprintf("Unknown stream types for input: %s", input.FilePath),
				Spans:    []schemas.DiagnosticSpan{schemas.TargetSpan(input.FilePathSpan, "unknown streams")},
			})
		}
	}

	return diagnostics
}

// RegisterFilterOutput records a named pad produced by a filter_complex graph
func (b *Builder) RegisterFilterOutput(label string, st schemas.StreamType) {
	b.filterOutputs[label] = st
}

// Freeze seals the builder into a read-only tracker
func (b *Builder) Freeze() *StreamTracker {
	return &StreamTracker{
		inputStreams:   b.inputStreams,
		inputFileSpans: b.inputFileSpans,
		filterOutputs:  b.filterOutputs,
		db:             b.db,
	}
}

func (b *Builder) inferInputStreams(input parser.InputSpec) []schemas.StreamType {
	// An explicit -f overrides whatever the filename suggests
	for _, opt := range input.Options {
		if f, ok := opt.(parser.FormatOption); ok {
			return InferStreamsFromFilename("file." + f.Format)
		}
	}
	return InferStreamsFromFilename(input.FilePath)
}

// InferStreamsFromFilename guesses the streams a file contributes from its
// extension. Container formats are assumed to carry both video and audio;
// unrecognized extensions get the same permissive guess so downstream checks
// stay quiet rather than wrong.
func InferStreamsFromFilename(filename string) []schemas.StreamType {
	ext := filename
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		ext = filename[idx+1:]
	}

	switch ext {
	case "mp4", "mkv", "avi", "mov", "webm", "flv", "wmv", "m4v":
		return []schemas.StreamType{schemas.StreamVideo, schemas.StreamAudio}
	case "mp3", "aac", "flac", "wav", "ogg", "opus", "m4a", "wma":
		return []schemas.StreamType{schemas.StreamAudio}
	case "png", "jpg", "jpeg", "bmp", "gif":
		return []schemas.StreamType{schemas.StreamVideo}
	case "srt", "ass", "ssa", "vtt":
		return []schemas.StreamType{schemas.StreamSubtitle}
	default:
		return []schemas.StreamType{schemas.StreamVideo, schemas.StreamAudio}
	}
}

// StreamTracker is the frozen view of the command's stream topology. All
// methods are read-only.
type StreamTracker struct {
	inputStreams   []parser.StreamInfo
	inputFileSpans []schemas.Span
	filterOutputs  map[string]schemas.StreamType
	db             *knowledge.Database
}

// HasStreamType reports whether any input contributes a matching stream
func (t *StreamTracker) HasStreamType(st schemas.StreamType) bool {
	for _, s := range t.inputStreams {
		if s.StreamType.Matches(st) {
			return true
		}
	}
	return false
}

// StreamsOfType returns all input streams matching the given type
func (t *StreamTracker) StreamsOfType(st schemas.StreamType) []parser.StreamInfo {
	var out []parser.StreamInfo
	for _, s := range t.inputStreams {
		if s.StreamType.Matches(st) {
			out = append(out, s)
		}
	}
	return out
}

// StreamsForInput returns the stream types one input contributes, in order
func (t *StreamTracker) StreamsForInput(inputIdx int) []schemas.StreamType {
	var out []schemas.StreamType
	for _, s := range t.inputStreams {
		if s.InputIndex == inputIdx {
			out = append(out, s.StreamType)
		}
	}
	return out
}

// MaxInputIndex returns the highest input index any stream belongs to, or 0
// when no streams were inferred
func (t *StreamTracker) MaxInputIndex() int {
	max := 0
	for _, s := range t.inputStreams {
		if s.InputIndex > max {
			max = s.InputIndex
		}
	}
	return max
}

// HasFilterOutput reports whether a filter graph declared the named pad
func (t *StreamTracker) HasFilterOutput(label string) bool {
	_, ok := t.filterOutputs[label]
	return ok
}

// ValidateFilter checks a filter occurrence against the available streams
// and the context it is used in. Returns nil when the filter is fine.
func (t *StreamTracker) ValidateFilter(filterName string, expected schemas.StreamType, span schemas.Span) *schemas.Diagnostic {
	info, known := t.db.Filter(filterName)
	if !known {
		return &schemas.Diagnostic{
			Code:     "E502",
			Severity: schemas.SeverityWarning,
			Kind:     schemas.UnknownFilter{Filter: filterName},
			Message:  fmt.Sprintf("Unknown filter: '%s'", filterName),
			Spans:    []schemas.DiagnosticSpan{schemas.TargetSpan(span, "unknown filter")},
		}
	}

	if !t.HasStreamType(info.InputType) {
		spans := []schemas.DiagnosticSpan{schemas.TargetSpan(span, "missing required stream")}
		refMsg := fmt.Sprintf("no %s stream in input", info.InputType.Label())

		refAdded := false
		for idx, inputSpan := range t.inputFileSpans {
			if !t.inputHasType(idx, info.InputType) {
				spans = append(spans, schemas.ReferenceSpan(inputSpan, refMsg))
				refAdded = true
				break
			}
		}
		if !refAdded && len(t.inputFileSpans) > 0 {
			spans = append(spans, schemas.ReferenceSpan(t.inputFileSpans[0], refMsg))
		}

		return &schemas.Diagnostic{
			Code:     "E104",
			Severity: schemas.SeverityError,
			Kind: schemas.MissingStream{
				StreamType: info.InputType,
				Operation:  fmt.Sprintf("filter '%s'", filterName),
			},
			Message: fmt.Sprintf(
				"Filter '%s' requires %s stream, but no %s stream is available",
				filterName, info.InputType.Label(), info.InputType.Label(),
			),
			Spans: spans,
		}
	}

	if !info.InputType.Matches(expected) {
		return &schemas.Diagnostic{
			Code:     "E101",
			Severity: schemas.SeverityError,
			Kind: schemas.StreamTypeMismatch{
				Filter:   filterName,
				Expected: expected,
				Found:    info.InputType,
			},
			Message: fmt.Sprintf(
				"Filter '%s' expects %s stream but is being used in %s context",
				filterName, info.InputType.Label(), expected.Label(),
			),
			Spans: []schemas.DiagnosticSpan{schemas.TargetSpan(span, "missing required stream")},
		}
	}

	return nil
}

// ValidateCodec checks a codec occurrence against the stream type it is
// applied to. "copy" passes through unconditionally.
func (t *StreamTracker) ValidateCodec(codecName string, expected schemas.StreamType, span schemas.Span) *schemas.Diagnostic {
	if codecName == "copy" {
		return nil
	}

	info, known := t.db.Codec(codecName)
	if !known {
		return &schemas.Diagnostic{
			Code:     "W201",
			Severity: schemas.SeverityWarning,
			Kind:     schemas.ParseError{Message: fmt.Sprintf("Unknown codec: '%s'", codecName)},
			Message:  fmt.Sprintf("Unknown codec: '%s'", codecName),
			Spans:    []schemas.DiagnosticSpan{schemas.TargetSpan(span, "unknown codec")},
		}
	}

	if !info.StreamType.Matches(expected) {
		return &schemas.Diagnostic{
			Code:     "E205",
			Severity: schemas.SeverityError,
			Kind: schemas.InvalidCodecForStream{
				Codec:      codecName,
				StreamType: expected,
			},
			Message: fmt.Sprintf(
				"Codec '%s' is a %s codec but is being used for %s stream",
				codecName, info.StreamType.Label(), expected.Label(),
			),
			Spans: []schemas.DiagnosticSpan{schemas.TargetSpan(span, "invalid codec for stream")},
		}
	}

	return nil
}

// ValidateCodecFormatCompatibility checks that the output container accepts
// the codec. "copy" passes through unconditionally.
func (t *StreamTracker) ValidateCodecFormatCompatibility(codecName, format string, codecSpan, formatSpan schemas.Span) *schemas.Diagnostic {
	if codecName == "copy" {
		return nil
	}

	if t.db.IsCodecSupportedInFormat(codecName, format) {
		return nil
	}

	reason := fmt.Sprintf("Codec '%s' is not supported in '%s' container", codecName, format)
	return &schemas.Diagnostic{
		Code:     "E201",
		Severity: schemas.SeverityError,
		Kind: schemas.CodecFormatIncompatible{
			Codec:  codecName,
			Format: format,
			Reason: reason,
		},
		Message: reason,
		Spans: []schemas.DiagnosticSpan{
			schemas.TargetSpan(codecSpan, "codec"),
			schemas.ReferenceSpan(formatSpan, fmt.Sprintf("%s container", format)),
		},
	}
}

func (t *StreamTracker) inputHasType(inputIdx int, st schemas.StreamType) bool {
	for _, s := range t.inputStreams {
		if s.InputIndex == inputIdx && s.StreamType.Matches(st) {
			return true
		}
	}
	return false
}
