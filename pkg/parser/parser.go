package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mediakit/ffcheck/pkg/schemas"
)

// globalFlagNames are options that belong to the command as a whole when
// they appear before the first -i
var globalFlagNames = map[string]bool{
	"-y":           true,
	"-n":           true,
	"-hide_banner": true,
	"-nostdin":     true,
	"-stats":       true,
	"-nostats":     true,
	"-loglevel":    true,
	"-v":           true,
	"-report":      true,
	"-benchmark":   true,
	"-xerror":      true,
}

// booleanFlagNames are options known to never take a value
var booleanFlagNames = map[string]bool{
	"-an":           true,
	"-vn":           true,
	"-sn":           true,
	"-dn":           true,
	"-y":            true,
	"-n":            true,
	"-shortest":     true,
	"-copyts":       true,
	"-re":           true,
	"-hide_banner":  true,
	"-nostdin":      true,
	"-stats":        true,
	"-nostats":      true,
	"-autorotate":   true,
	"-noautorotate": true,
	"-report":       true,
	"-benchmark":    true,
	"-xerror":       true,
}

// Parse parses a single logical FFmpeg command. The text conventionally
// begins with the program name and may be embedded at lineOffset/columnOffset
// inside a larger document; all spans in the returned AST are expressed in
// the coordinate system of that containing document (0-based), with the
// column offset applying to spans on the text's first line only.
func Parse(text string, lineOffset, columnOffset int) (*Command, error) {
	tokens := lex(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	p := &parser{tokens: tokens, lineOffset: lineOffset, columnOffset: columnOffset}
	return p.parseCommand()
}

type parser struct {
	tokens       []token
	lineOffset   int
	columnOffset int
}

func (p *parser) parseCommand() (*Command, error) {
	prog := p.tokens[0]
	if isFlagToken(prog.text) {
		return nil, fmt.Errorf("expected program name, found option %q at column %d", prog.text, prog.col)
	}

	cmd := &Command{
		Span: mergeSpans(p.span(p.tokens[0]), p.span(p.tokens[len(p.tokens)-1])),
	}

	var pending []OptionNode
	seenInput := false

	i := 1
	for i < len(p.tokens) {
		tok := p.tokens[i]

		switch {
		case tok.text == "-i":
			if i+1 >= len(p.tokens) || isFlagToken(p.tokens[i+1].text) {
				return nil, fmt.Errorf("expected input file after -i at column %d", tok.col)
			}
			path := p.tokens[i+1]
			spec := InputSpec{
				Options:      pending,
				FilePath:     unquote(path.text),
				FilePathSpan: p.span(path),
			}
			spec.Span = mergeSpans(p.sectionStart(pending, tok), p.span(path))
			cmd.Inputs = append(cmd.Inputs, spec)
			pending = nil
			seenInput = true
			i += 2

		case isFlagToken(tok.text):
			opt, next, err := p.parseOption(i)
			if err != nil {
				return nil, err
			}
			if !seenInput && isGlobalOption(opt) {
				cmd.GlobalOptions = append(cmd.GlobalOptions, opt)
			} else {
				pending = append(pending, opt)
			}
			i = next

		default:
			// Bare token: an output destination closes the current section
			spec := OutputSpec{
				Options:      pending,
				FilePath:     unquote(tok.text),
				FilePathSpan: p.span(tok),
			}
			spec.Span = mergeSpans(p.sectionStart(pending, tok), p.span(tok))
			cmd.Outputs = append(cmd.Outputs, spec)
			pending = nil
			i++
		}
	}

	if len(pending) > 0 {
		return nil, fmt.Errorf("trailing options without an output file")
	}
	if len(cmd.Inputs) == 0 {
		return nil, fmt.Errorf("expected at least one input (-i)")
	}
	if len(cmd.Outputs) == 0 {
		return nil, fmt.Errorf("expected at least one output file")
	}

	return cmd, nil
}

// parseOption parses the option starting at index i and returns the node
// plus the index of the first unconsumed token
func (p *parser) parseOption(i int) (OptionNode, int, error) {
	flag := p.tokens[i]
	name := flag.text

	switch {
	case isCodecFlag(name):
		value, err := p.value(i)
		if err != nil {
			return nil, 0, err
		}
		codec := unquote(value.text)
		outer := mergeSpans(p.span(flag), p.span(value))
		inner := p.span(value)
		switch {
		case strings.Contains(name, ":v") || strings.Contains(name, "vcodec"):
			return VideoCodecOption{Codec: codec, CodecSpan: inner, OptionSpan: outer}, i + 2, nil
		case strings.Contains(name, ":a") || strings.Contains(name, "acodec"):
			return AudioCodecOption{Codec: codec, CodecSpan: inner, OptionSpan: outer}, i + 2, nil
		default:
			return CodecOption{Codec: codec, CodecSpan: inner, OptionSpan: outer}, i + 2, nil
		}

	case isBitrateFlag(name):
		value, err := p.value(i)
		if err != nil {
			return nil, 0, err
		}
		outer := mergeSpans(p.span(flag), p.span(value))
		inner := p.span(value)
		if strings.Contains(name, ":v") || name == "-vb" {
			return VideoBitrateOption{Bitrate: value.text, BitrateSpan: inner, OptionSpan: outer}, i + 2, nil
		}
		return AudioBitrateOption{Bitrate: value.text, BitrateSpan: inner, OptionSpan: outer}, i + 2, nil

	case name == "-s" || strings.HasPrefix(name, "-s:"):
		value, err := p.value(i)
		if err != nil {
			return nil, 0, err
		}
		return ResolutionOption{
			Resolution:     value.text,
			ResolutionSpan: p.span(value),
			OptionSpan:     mergeSpans(p.span(flag), p.span(value)),
		}, i + 2, nil

	case name == "-r" || strings.HasPrefix(name, "-r:"):
		value, err := p.value(i)
		if err != nil {
			return nil, 0, err
		}
		return FrameRateOption{
			Rate:       value.text,
			RateSpan:   p.span(value),
			OptionSpan: mergeSpans(p.span(flag), p.span(value)),
		}, i + 2, nil

	case name == "-vf" || name == "-filter:v":
		spec, next, err := p.filterSpec(i)
		if err != nil {
			return nil, 0, err
		}
		return VideoFilterOption{Filter: spec, OptionSpan: mergeSpans(p.span(flag), spec.Span)}, next, nil

	case name == "-af" || name == "-filter:a":
		spec, next, err := p.filterSpec(i)
		if err != nil {
			return nil, 0, err
		}
		return AudioFilterOption{Filter: spec, OptionSpan: mergeSpans(p.span(flag), spec.Span)}, next, nil

	case name == "-filter_complex" || name == "-lavfi":
		spec, next, err := p.filterSpec(i)
		if err != nil {
			return nil, 0, err
		}
		return FilterComplexOption{Filter: spec, OptionSpan: mergeSpans(p.span(flag), spec.Span)}, next, nil

	case name == "-map":
		value, err := p.value(i)
		if err != nil {
			return nil, 0, err
		}
		return MapOption{
			Mapping:     unquote(value.text),
			MappingSpan: p.span(value),
			OptionSpan:  mergeSpans(p.span(flag), p.span(value)),
		}, i + 2, nil

	case name == "-f":
		value, err := p.value(i)
		if err != nil {
			return nil, 0, err
		}
		return FormatOption{
			Format:     value.text,
			FormatSpan: p.span(value),
			OptionSpan: mergeSpans(p.span(flag), p.span(value)),
		}, i + 2, nil

	case name == "-ss":
		value, err := p.value(i)
		if err != nil {
			return nil, 0, err
		}
		return SeekStartOption{
			Time:       value.text,
			TimeSpan:   p.span(value),
			OptionSpan: mergeSpans(p.span(flag), p.span(value)),
		}, i + 2, nil

	case name == "-t":
		value, err := p.value(i)
		if err != nil {
			return nil, 0, err
		}
		return DurationOption{
			Time:       value.text,
			TimeSpan:   p.span(value),
			OptionSpan: mergeSpans(p.span(flag), p.span(value)),
		}, i + 2, nil

	case name == "-ar":
		value, err := p.value(i)
		if err != nil {
			return nil, 0, err
		}
		return SampleRateOption{
			Rate:       value.text,
			RateSpan:   p.span(value),
			OptionSpan: mergeSpans(p.span(flag), p.span(value)),
		}, i + 2, nil

	case name == "-ac":
		value, err := p.value(i)
		if err != nil {
			return nil, 0, err
		}
		return ChannelsOption{
			Channels:     value.text,
			ChannelsSpan: p.span(value),
			OptionSpan:   mergeSpans(p.span(flag), p.span(value)),
		}, i + 2, nil
	}

	// Generic fallback: keep name and optional value without loss
	if booleanFlagNames[name] {
		return FlagOption{Name: name, OptionSpan: p.span(flag)}, i + 1, nil
	}

	if i+1 < len(p.tokens) {
		next := p.tokens[i+1]
		if !isFlagToken(next.text) && !looksLikePath(next.text) {
			valueSpan := p.span(next)
			return GenericOption{
				Name:       name,
				Value:      unquote(next.text),
				ValueSpan:  &valueSpan,
				OptionSpan: mergeSpans(p.span(flag), p.span(next)),
			}, i + 2, nil
		}
	}

	return FlagOption{Name: name, OptionSpan: p.span(flag)}, i + 1, nil
}

// value returns the value token following the flag at index i
func (p *parser) value(i int) (token, error) {
	flag := p.tokens[i]
	if i+1 >= len(p.tokens) || isFlagToken(p.tokens[i+1].text) {
		return token{}, fmt.Errorf("option %s expects a value at column %d", flag.text, flag.col)
	}
	return p.tokens[i+1], nil
}

func (p *parser) filterSpec(i int) (FilterSpec, int, error) {
	value, err := p.value(i)
	if err != nil {
		return FilterSpec{}, 0, err
	}
	return FilterSpec{
		Raw:  unquote(value.text),
		Span: p.span(value),
	}, i + 2, nil
}

// sectionStart picks the span where an input/output section begins
func (p *parser) sectionStart(pending []OptionNode, tok token) schemas.Span {
	if len(pending) > 0 {
		return pending[0].Span()
	}
	return p.span(tok)
}

// span converts a token position into document coordinates. The column
// offset shifts only spans on the text's first line; later lines already
// sit at their document columns.
func (p *parser) span(tok token) schemas.Span {
	s := schemas.Span{
		StartLine:   tok.line + p.lineOffset,
		StartColumn: tok.col,
		EndLine:     tok.endLine + p.lineOffset,
		EndColumn:   tok.endCol,
	}
	if tok.line == 0 {
		s.StartColumn += p.columnOffset
	}
	if tok.endLine == 0 {
		s.EndColumn += p.columnOffset
	}
	return s
}

func mergeSpans(a, b schemas.Span) schemas.Span {
	return schemas.Span{
		StartLine:   a.StartLine,
		StartColumn: a.StartColumn,
		EndLine:     b.EndLine,
		EndColumn:   b.EndColumn,
	}
}

// isFlagToken reports whether a token is an option flag. A lone dash or a
// negative number is a value, not a flag.
func isFlagToken(s string) bool {
	if len(s) < 2 || s[0] != '-' {
		return false
	}
	c := s[1]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isCodecFlag(name string) bool {
	return name == "-c" || name == "-codec" || name == "-vcodec" || name == "-acodec" ||
		strings.HasPrefix(name, "-c:") || strings.HasPrefix(name, "-codec:")
}

func isBitrateFlag(name string) bool {
	return name == "-b" || name == "-vb" || name == "-ab" || strings.HasPrefix(name, "-b:")
}

func isGlobalOption(opt OptionNode) bool {
	switch o := opt.(type) {
	case FlagOption:
		return globalFlagNames[o.Name]
	case GenericOption:
		return globalFlagNames[o.Name]
	}
	return false
}

// looksLikePath reports whether a bare token is more plausibly a destination
// path than an option value. Pure numbers are always values.
func looksLikePath(s string) bool {
	s = unquote(s)
	if s == "" {
		return false
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return false
	}
	return strings.ContainsAny(s, "./\\")
}
