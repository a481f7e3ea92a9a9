// Package parser turns raw FFmpeg command text into a span-annotated AST
package parser

import "github.com/mediakit/ffcheck/pkg/schemas"

// Command is the root of the parsed command: global options, inputs in
// declaration order, and outputs in declaration order. It is built once per
// parse and never mutated afterwards.
type Command struct {
	GlobalOptions []OptionNode
	Inputs        []InputSpec
	Outputs       []OutputSpec
	Span          schemas.Span
}

// InputSpec is one -i source with the options that precede it
type InputSpec struct {
	Options      []OptionNode
	FilePath     string
	FilePathSpan schemas.Span
	Span         schemas.Span
}

// OutputSpec is one destination path with the options that precede it
type OutputSpec struct {
	Options      []OptionNode
	FilePath     string
	FilePathSpan schemas.Span
	Span         schemas.Span
}

// OptionNode is the closed union of parsed option variants. Every variant
// carries the span of the whole option occurrence; variants with a value
// also carry an inner span scoped to just the value token so diagnostics can
// point at the offending sub-token.
type OptionNode interface {
	// Span returns the span of the whole option occurrence
	Span() schemas.Span

	isOption()
}

// VideoCodecOption is -c:v / -vcodec / -codec:v
type VideoCodecOption struct {
	Codec      string
	CodecSpan  schemas.Span
	OptionSpan schemas.Span
}

// AudioCodecOption is -c:a / -acodec / -codec:a
type AudioCodecOption struct {
	Codec      string
	CodecSpan  schemas.Span
	OptionSpan schemas.Span
}

// CodecOption is a bare -c / -codec whose stream kind is resolved later
// against the knowledge base
type CodecOption struct {
	Codec      string
	CodecSpan  schemas.Span
	OptionSpan schemas.Span
}

// VideoBitrateOption is -b:v / -vb
type VideoBitrateOption struct {
	Bitrate     string
	BitrateSpan schemas.Span
	OptionSpan  schemas.Span
}

// AudioBitrateOption is -b:a / -ab / bare -b
type AudioBitrateOption struct {
	Bitrate     string
	BitrateSpan schemas.Span
	OptionSpan  schemas.Span
}

// ResolutionOption is -s; the value is kept raw, format checking happens in
// the analyzer
type ResolutionOption struct {
	Resolution     string
	ResolutionSpan schemas.Span
	OptionSpan     schemas.Span
}

// FrameRateOption is -r
type FrameRateOption struct {
	Rate       string
	RateSpan   schemas.Span
	OptionSpan schemas.Span
}

// VideoFilterOption is -vf / -filter:v
type VideoFilterOption struct {
	Filter     FilterSpec
	OptionSpan schemas.Span
}

// AudioFilterOption is -af / -filter:a
type AudioFilterOption struct {
	Filter     FilterSpec
	OptionSpan schemas.Span
}

// FilterComplexOption is -filter_complex / -lavfi
type FilterComplexOption struct {
	Filter     FilterSpec
	OptionSpan schemas.Span
}

// MapOption is -map
type MapOption struct {
	Mapping     string
	MappingSpan schemas.Span
	OptionSpan  schemas.Span
}

// FormatOption is -f, forcing the container format
type FormatOption struct {
	Format     string
	FormatSpan schemas.Span
	OptionSpan schemas.Span
}

// SeekStartOption is -ss
type SeekStartOption struct {
	Time       string
	TimeSpan   schemas.Span
	OptionSpan schemas.Span
}

// DurationOption is -t
type DurationOption struct {
	Time       string
	TimeSpan   schemas.Span
	OptionSpan schemas.Span
}

// SampleRateOption is -ar
type SampleRateOption struct {
	Rate       string
	RateSpan   schemas.Span
	OptionSpan schemas.Span
}

// ChannelsOption is -ac
type ChannelsOption struct {
	Channels     string
	ChannelsSpan schemas.Span
	OptionSpan   schemas.Span
}

// FlagOption is a named boolean flag with no value (-y, -an, ...)
type FlagOption struct {
	Name       string
	OptionSpan schemas.Span
}

// GenericOption is the catch-all for flags the grammar does not specifically
// model; the name and optional value are preserved without loss
type GenericOption struct {
	Name       string
	Value      string
	ValueSpan  *schemas.Span
	OptionSpan schemas.Span
}

func (o VideoCodecOption) Span() schemas.Span    { return o.OptionSpan }
func (o AudioCodecOption) Span() schemas.Span    { return o.OptionSpan }
func (o CodecOption) Span() schemas.Span         { return o.OptionSpan }
func (o VideoBitrateOption) Span() schemas.Span  { return o.OptionSpan }
func (o AudioBitrateOption) Span() schemas.Span  { return o.OptionSpan }
func (o ResolutionOption) Span() schemas.Span    { return o.OptionSpan }
func (o FrameRateOption) Span() schemas.Span     { return o.OptionSpan }
func (o VideoFilterOption) Span() schemas.Span   { return o.OptionSpan }
func (o AudioFilterOption) Span() schemas.Span   { return o.OptionSpan }
func (o FilterComplexOption) Span() schemas.Span { return o.OptionSpan }
func (o MapOption) Span() schemas.Span           { return o.OptionSpan }
func (o FormatOption) Span() schemas.Span        { return o.OptionSpan }
func (o SeekStartOption) Span() schemas.Span     { return o.OptionSpan }
func (o DurationOption) Span() schemas.Span      { return o.OptionSpan }
func (o SampleRateOption) Span() schemas.Span    { return o.OptionSpan }
func (o ChannelsOption) Span() schemas.Span      { return o.OptionSpan }
func (o FlagOption) Span() schemas.Span          { return o.OptionSpan }
func (o GenericOption) Span() schemas.Span       { return o.OptionSpan }

func (VideoCodecOption) isOption()    {}
func (AudioCodecOption) isOption()    {}
func (CodecOption) isOption()         {}
func (VideoBitrateOption) isOption()  {}
func (AudioBitrateOption) isOption()  {}
func (ResolutionOption) isOption()    {}
func (FrameRateOption) isOption()     {}
func (VideoFilterOption) isOption()   {}
func (AudioFilterOption) isOption()   {}
func (FilterComplexOption) isOption() {}
func (MapOption) isOption()           {}
func (FormatOption) isOption()        {}
func (SeekStartOption) isOption()     {}
func (DurationOption) isOption()      {}
func (SampleRateOption) isOption()    {}
func (ChannelsOption) isOption()      {}
func (FlagOption) isOption()          {}
func (GenericOption) isOption()       {}

// FilterSpec is a raw filter expression with its span. Graph stays nil
// unless the filter mini-language is structurally parsed; name extraction
// alone is enough for the validations the analyzer performs.
type FilterSpec struct {
	Raw   string
	Graph *FilterGraph
	Span  schemas.Span
}

// FilterGraph is a parsed filter expression: one or more chains
type FilterGraph struct {
	Chains []FilterChain
}

// FilterChain is a comma-separated sequence of filters
type FilterChain struct {
	Filters []Filter
}

// Filter is one named filter with its parameters
type Filter struct {
	Name     string
	NameSpan schemas.Span
	Params   []FilterParam
	Span     schemas.Span
}

// FilterParam is one key=value (or positional value) filter parameter
type FilterParam struct {
	Key   string
	Value string
	Span  schemas.Span
}

// StreamInfo is one stream the tracker believes an input contributes
type StreamInfo struct {
	StreamType schemas.StreamType
	Index      int
	InputIndex int
}
