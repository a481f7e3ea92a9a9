package schemas

import (
	"encoding/json"
	"fmt"
)

// Diagnostic is one analyzer finding. Every diagnostic carries at least one
// target span; reference spans point at why the finding occurred.
type Diagnostic struct {
	// Code is the short stable identifier (e.g. "E104", "W201")
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	// Kind is the structured variant of this finding
	Kind Kind `json:"kind"`
	// Message is the human-readable summary
	Message string           `json:"message"`
	Spans   []DiagnosticSpan `json:"spans"`
	// Rich is optional explanatory content
	Rich *Rich `json:"rich,omitempty"`
}

// AnalyzerDiagnostics is the complete result of one analysis call
type AnalyzerDiagnostics struct {
	Messages []Diagnostic `json:"messages"`
}

// HasErrors reports whether any message has error severity
func (d AnalyzerDiagnostics) HasErrors() bool {
	for _, m := range d.Messages {
		if m.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Counts returns the number of error- and warning-severity messages
func (d AnalyzerDiagnostics) Counts() (errors, warnings int) {
	for _, m := range d.Messages {
		switch m.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}

// diagnosticWire mirrors Diagnostic with the kind as raw JSON so the
// tagged-union envelope can be handled explicitly
type diagnosticWire struct {
	Code     string           `json:"code"`
	Severity Severity         `json:"severity"`
	Kind     json.RawMessage  `json:"kind"`
	Message  string           `json:"message"`
	Spans    []DiagnosticSpan `json:"spans"`
	Rich     *Rich            `json:"rich,omitempty"`
}

// MarshalJSON encodes the kind variant as {"type": <tag>, ...payload}
func (d Diagnostic) MarshalJSON() ([]byte, error) {
	kind, err := marshalKind(d.Kind)
	if err != nil {
		return nil, err
	}
	return json.Marshal(diagnosticWire{
		Code:     d.Code,
		Severity: d.Severity,
		Kind:     kind,
		Message:  d.Message,
		Spans:    d.Spans,
		Rich:     d.Rich,
	})
}

// UnmarshalJSON decodes the kind envelope back into its concrete variant
func (d *Diagnostic) UnmarshalJSON(b []byte) error {
	var wire diagnosticWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}

	kind, err := unmarshalKind(wire.Kind)
	if err != nil {
		return err
	}

	d.Code = wire.Code
	d.Severity = wire.Severity
	d.Kind = kind
	d.Message = wire.Message
	d.Spans = wire.Spans
	d.Rich = wire.Rich
	return nil
}

func marshalKind(k Kind) (json.RawMessage, error) {
	if k == nil {
		return nil, fmt.Errorf("diagnostic kind must not be nil")
	}

	payload, err := json.Marshal(k)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, err
	}

	tag, err := json.Marshal(k.KindName())
	if err != nil {
		return nil, err
	}
	fields["type"] = tag

	return json.Marshal(fields)
}

func unmarshalKind(raw json.RawMessage) (Kind, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("diagnostic kind is missing")
	}

	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}

	decode := func(k Kind) (Kind, error) {
		if err := json.Unmarshal(raw, k); err != nil {
			return nil, err
		}
		return k, nil
	}

	switch envelope.Type {
	case "stream_type_mismatch":
		k, err := decode(&StreamTypeMismatch{})
		return deref(k), err
	case "missing_stream":
		k, err := decode(&MissingStream{})
		return deref(k), err
	case "video_filter_on_audio":
		k, err := decode(&VideoFilterOnAudio{})
		return deref(k), err
	case "audio_filter_on_video":
		k, err := decode(&AudioFilterOnVideo{})
		return deref(k), err
	case "codec_format_incompatible":
		k, err := decode(&CodecFormatIncompatible{})
		return deref(k), err
	case "invalid_codec_for_stream":
		k, err := decode(&InvalidCodecForStream{})
		return deref(k), err
	case "unsupported_pixel_format":
		k, err := decode(&UnsupportedPixelFormat{})
		return deref(k), err
	case "unsupported_sample_rate":
		k, err := decode(&UnsupportedSampleRate{})
		return deref(k), err
	case "stream_mapping_error":
		k, err := decode(&StreamMappingError{})
		return deref(k), err
	case "non_existent_stream":
		k, err := decode(&NonExistentStream{})
		return deref(k), err
	case "duplicate_mapping":
		k, err := decode(&DuplicateMapping{})
		return deref(k), err
	case "ambiguous_stream_selection":
		k, err := decode(&AmbiguousStreamSelection{})
		return deref(k), err
	case "invalid_parameter":
		k, err := decode(&InvalidParameter{})
		return deref(k), err
	case "invalid_resolution":
		k, err := decode(&InvalidResolution{})
		return deref(k), err
	case "invalid_bitrate":
		k, err := decode(&InvalidBitrate{})
		return deref(k), err
	case "invalid_frame_rate":
		k, err := decode(&InvalidFrameRate{})
		return deref(k), err
	case "mutually_exclusive_options":
		k, err := decode(&MutuallyExclusiveOptions{})
		return deref(k), err
	case "missing_required_option":
		k, err := decode(&MissingRequiredOption{})
		return deref(k), err
	case "parameter_out_of_range":
		k, err := decode(&ParameterOutOfRange{})
		return deref(k), err
	case "filter_syntax_error":
		k, err := decode(&FilterSyntaxError{})
		return deref(k), err
	case "unknown_filter":
		k, err := decode(&UnknownFilter{})
		return deref(k), err
	case "missing_filter_parameter":
		k, err := decode(&MissingFilterParameter{})
		return deref(k), err
	case "invalid_filter_parameter":
		k, err := decode(&InvalidFilterParameter{})
		return deref(k), err
	case "filter_chain_type_mismatch":
		k, err := decode(&FilterChainTypeMismatch{})
		return deref(k), err
	case "high_bitrate_warning":
		k, err := decode(&HighBitrateWarning{})
		return deref(k), err
	case "resolution_upscaling":
		k, err := decode(&ResolutionUpscaling{})
		return deref(k), err
	case "lossy_transcoding":
		k, err := decode(&LossyTranscoding{})
		return deref(k), err
	case "no_quality_setting":
		k, err := decode(&NoQualitySetting{})
		return deref(k), err
	case "parse_error":
		k, err := decode(&ParseError{})
		return deref(k), err
	case "unknown_option":
		k, err := decode(&UnknownOption{})
		return deref(k), err
	}

	return nil, fmt.Errorf("unknown diagnostic kind %q", envelope.Type)
}

// deref unwraps the pointer used for decoding so that round-tripped kinds
// compare equal to the values the analyzer emits
func deref(k Kind) Kind {
	switch v := k.(type) {
	case *StreamTypeMismatch:
		return *v
	case *MissingStream:
		return *v
	case *VideoFilterOnAudio:
		return *v
	case *AudioFilterOnVideo:
		return *v
	case *CodecFormatIncompatible:
		return *v
	case *InvalidCodecForStream:
		return *v
	case *UnsupportedPixelFormat:
		return *v
	case *UnsupportedSampleRate:
		return *v
	case *StreamMappingError:
		return *v
	case *NonExistentStream:
		return *v
	case *DuplicateMapping:
		return *v
	case *AmbiguousStreamSelection:
		return *v
	case *InvalidParameter:
		return *v
	case *InvalidResolution:
		return *v
	case *InvalidBitrate:
		return *v
	case *InvalidFrameRate:
		return *v
	case *MutuallyExclusiveOptions:
		return *v
	case *MissingRequiredOption:
		return *v
	case *ParameterOutOfRange:
		return *v
	case *FilterSyntaxError:
		return *v
	case *UnknownFilter:
		return *v
	case *MissingFilterParameter:
		return *v
	case *InvalidFilterParameter:
		return *v
	case *FilterChainTypeMismatch:
		return *v
	case *HighBitrateWarning:
		return *v
	case *ResolutionUpscaling:
		return *v
	case *LossyTranscoding:
		return *v
	case *NoQualitySetting:
		return *v
	case *ParseError:
		return *v
	case *UnknownOption:
		return *v
	}
	return k
}
