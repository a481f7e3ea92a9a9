package schemas

// Kind is the closed set of diagnostic kinds. Each variant carries the
// structured payload consumers key behavior off; the numeric grouping of the
// associated codes (E1xx stream types, E2xx codec/format, E3xx mapping,
// E4xx parameters, E5xx filters, W1xx quality warnings) mirrors the variant
// grouping below.
type Kind interface {
	// KindName returns the stable wire tag for this variant
	KindName() string
}

// E100-E199: stream type mismatches

// StreamTypeMismatch reports a filter applied in the wrong stream context
type StreamTypeMismatch struct {
	Filter   string     `json:"filter"`
	Expected StreamType `json:"expected"`
	Found    StreamType `json:"found"`
}

// MissingStream reports an operation that needs a stream no input provides
type MissingStream struct {
	StreamType StreamType `json:"stream_type"`
	Operation  string     `json:"operation"`
}

// VideoFilterOnAudio reports a video filter applied to an audio stream
type VideoFilterOnAudio struct {
	Filter string `json:"filter"`
}

// AudioFilterOnVideo reports an audio filter applied to a video stream
type AudioFilterOnVideo struct {
	Filter string `json:"filter"`
}

// E200-E299: codec/format incompatibilities

// CodecFormatIncompatible reports a codec the output container cannot carry
type CodecFormatIncompatible struct {
	Codec  string `json:"codec"`
	Format string `json:"format"`
	Reason string `json:"reason"`
}

// InvalidCodecForStream reports a codec whose kind conflicts with the stream
type InvalidCodecForStream struct {
	Codec      string     `json:"codec"`
	StreamType StreamType `json:"stream_type"`
}

// UnsupportedPixelFormat reports a pixel format the codec does not accept
type UnsupportedPixelFormat struct {
	Format string `json:"format"`
	Codec  string `json:"codec"`
}

// UnsupportedSampleRate reports a sample rate the codec does not accept
type UnsupportedSampleRate struct {
	Rate  string `json:"rate"`
	Codec string `json:"codec"`
}

// E300-E399: stream mapping errors

// StreamMappingError reports a malformed or unresolvable -map specifier
type StreamMappingError struct {
	Mapping string `json:"mapping"`
	Reason  string `json:"reason"`
}

// NonExistentStream reports a mapping to a stream that does not exist
type NonExistentStream struct {
	StreamRef string `json:"stream_ref"`
}

// DuplicateMapping reports the same stream mapped twice
type DuplicateMapping struct {
	StreamRef string `json:"stream_ref"`
}

// AmbiguousStreamSelection reports a mapping that matches multiple streams
type AmbiguousStreamSelection struct {
	Reason string `json:"reason"`
}

// E400-E499: parameter/option errors

// InvalidParameter reports a generally malformed option value
type InvalidParameter struct {
	Option string `json:"option"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// InvalidResolution reports a resolution not of the form WIDTHxHEIGHT
type InvalidResolution struct {
	Value string `json:"value"`
}

// InvalidBitrate reports a bitrate that does not parse
type InvalidBitrate struct {
	Value string `json:"value"`
}

// InvalidFrameRate reports a frame rate outside (0, 1000] or unparsable
type InvalidFrameRate struct {
	Value string `json:"value"`
}

// MutuallyExclusiveOptions reports two options that cannot be combined
type MutuallyExclusiveOptions struct {
	Option1 string `json:"option1"`
	Option2 string `json:"option2"`
}

// MissingRequiredOption reports an option required by the surrounding context
type MissingRequiredOption struct {
	Option  string `json:"option"`
	Context string `json:"context"`
}

// ParameterOutOfRange reports a value outside its documented range
type ParameterOutOfRange struct {
	Option string `json:"option"`
	Value  string `json:"value"`
	Min    string `json:"min"`
	Max    string `json:"max"`
}

// E500-E599: filter errors

// FilterSyntaxError reports an unparsable filter expression
type FilterSyntaxError struct {
	Filter  string `json:"filter"`
	Message string `json:"message"`
}

// UnknownFilter reports a filter name absent from the knowledge base
type UnknownFilter struct {
	Filter string `json:"filter"`
}

// MissingFilterParameter reports a filter missing a required parameter
type MissingFilterParameter struct {
	Filter    string `json:"filter"`
	Parameter string `json:"parameter"`
}

// InvalidFilterParameter reports a filter parameter with a bad value
type InvalidFilterParameter struct {
	Filter    string `json:"filter"`
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

// FilterChainTypeMismatch reports adjacent filters with incompatible types
type FilterChainTypeMismatch struct {
	FromType StreamType `json:"from_type"`
	ToType   StreamType `json:"to_type"`
}

// W100-W199: performance/quality warnings

// HighBitrateWarning reports a bitrate above the sanity threshold
type HighBitrateWarning struct {
	Bitrate string `json:"bitrate"`
}

// ResolutionUpscaling reports an output larger than its input
type ResolutionUpscaling struct {
	FromRes string `json:"from_res"`
	ToRes   string `json:"to_res"`
}

// LossyTranscoding reports a lossy-to-lossy transcode
type LossyTranscoding struct {
	Message string `json:"message"`
}

// NoQualitySetting reports an encode with no quality/bitrate control
type NoQualitySetting struct {
	Codec string `json:"codec"`
}

// General

// ParseError reports a failure to parse the command or infer from it
type ParseError struct {
	Message string `json:"message"`
}

// UnknownOption reports an option the grammar does not model
type UnknownOption struct {
	Option string `json:"option"`
}

func (StreamTypeMismatch) KindName() string       { return "stream_type_mismatch" }
func (MissingStream) KindName() string            { return "missing_stream" }
func (VideoFilterOnAudio) KindName() string       { return "video_filter_on_audio" }
func (AudioFilterOnVideo) KindName() string       { return "audio_filter_on_video" }
func (CodecFormatIncompatible) KindName() string  { return "codec_format_incompatible" }
func (InvalidCodecForStream) KindName() string    { return "invalid_codec_for_stream" }
func (UnsupportedPixelFormat) KindName() string   { return "unsupported_pixel_format" }
func (UnsupportedSampleRate) KindName() string    { return "unsupported_sample_rate" }
func (StreamMappingError) KindName() string       { return "stream_mapping_error" }
func (NonExistentStream) KindName() string        { return "non_existent_stream" }
func (DuplicateMapping) KindName() string         { return "duplicate_mapping" }
func (AmbiguousStreamSelection) KindName() string { return "ambiguous_stream_selection" }
func (InvalidParameter) KindName() string         { return "invalid_parameter" }
func (InvalidResolution) KindName() string        { return "invalid_resolution" }
func (InvalidBitrate) KindName() string           { return "invalid_bitrate" }
func (InvalidFrameRate) KindName() string         { return "invalid_frame_rate" }
func (MutuallyExclusiveOptions) KindName() string { return "mutually_exclusive_options" }
func (MissingRequiredOption) KindName() string    { return "missing_required_option" }
func (ParameterOutOfRange) KindName() string      { return "parameter_out_of_range" }
func (FilterSyntaxError) KindName() string        { return "filter_syntax_error" }
func (UnknownFilter) KindName() string            { return "unknown_filter" }
func (MissingFilterParameter) KindName() string   { return "missing_filter_parameter" }
func (InvalidFilterParameter) KindName() string   { return "invalid_filter_parameter" }
func (FilterChainTypeMismatch) KindName() string  { return "filter_chain_type_mismatch" }
func (HighBitrateWarning) KindName() string       { return "high_bitrate_warning" }
func (ResolutionUpscaling) KindName() string      { return "resolution_upscaling" }
func (LossyTranscoding) KindName() string         { return "lossy_transcoding" }
func (NoQualitySetting) KindName() string         { return "no_quality_setting" }
func (ParseError) KindName() string               { return "parse_error" }
func (UnknownOption) KindName() string            { return "unknown_option" }
