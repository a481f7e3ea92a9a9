// Package knowledge holds the static codec, container and filter tables the
// analyzer validates commands against.
package knowledge

import (
	"strings"

	"github.com/mediakit/ffcheck/pkg/schemas"
)

// CodecInfo describes one known encoder/decoder
type CodecInfo struct {
	Name       string             `yaml:"name"`
	StreamType schemas.StreamType `yaml:"stream_type"`
	IsEncoder  bool               `yaml:"is_encoder"`
	IsDecoder  bool               `yaml:"is_decoder"`
}

// FormatInfo describes one container format and the codecs it accepts
type FormatInfo struct {
	Name                 string   `yaml:"name"`
	SupportedVideoCodecs []string `yaml:"supported_video_codecs"`
	SupportedAudioCodecs []string `yaml:"supported_audio_codecs"`
	Extensions           []string `yaml:"extensions"`
}

// FilterInfo describes one known filter and the stream types it operates on
type FilterInfo struct {
	Name        string             `yaml:"name"`
	InputType   schemas.StreamType `yaml:"input_type"`
	OutputType  schemas.StreamType `yaml:"output_type"`
	Description string             `yaml:"description"`
}

// Database is the lookup surface for codecs, formats and filters. Lookups
// are read-only after construction, so a single instance is safe to share
// across goroutines.
type Database struct {
	codecs  map[string]CodecInfo
	formats map[string]FormatInfo
	filters map[string]FilterInfo
}

// New builds a database seeded with the built-in codec, format and filter
// tables.
func New() *Database {
	db := &Database{
		codecs:  make(map[string]CodecInfo),
		formats: make(map[string]FormatInfo),
		filters: make(map[string]FilterInfo),
	}
	db.seedCodecs()
	db.seedFormats()
	db.seedFilters()
	return db
}

var shared = New()

// Default returns the shared built-in database
func Default() *Database {
	return shared
}

func (db *Database) seedCodecs() {
	videoCodecs := []string{
		"libx264", "libx265", "h264", "hevc", "vp8", "vp9", "av1", "libaom-av1",
		"mpeg4", "mpeg2video", "libvpx", "libvpx-vp9", "prores", "dnxhd",
		"mjpeg", "png", "rawvideo", "copy",
	}
	for _, name := range videoCodecs {
		db.codecs[name] = CodecInfo{Name: name, StreamType: schemas.StreamVideo, IsEncoder: true, IsDecoder: true}
	}

	audioCodecs := []string{
		"aac", "libfdk_aac", "mp3", "libmp3lame", "opus", "libopus",
		"vorbis", "libvorbis", "flac", "alac", "ac3", "eac3",
		"pcm_s16le", "pcm_s24le", "pcm_f32le", "copy",
	}
	for _, name := range audioCodecs {
		db.codecs[name] = CodecInfo{Name: name, StreamType: schemas.StreamAudio, IsEncoder: true, IsDecoder: true}
	}
}

func (db *Database) seedFormats() {
	db.formats["mp4"] = FormatInfo{
		Name:                 "mp4",
		SupportedVideoCodecs: []string{"h264", "hevc", "mpeg4", "libx264", "libx265"},
		SupportedAudioCodecs: []string{"aac", "mp3", "ac3"},
		Extensions:           []string{"mp4", "m4v"},
	}
	db.formats["webm"] = FormatInfo{
		Name:                 "webm",
		SupportedVideoCodecs: []string{"vp8", "vp9", "av1", "libvpx", "libvpx-vp9"},
		SupportedAudioCodecs: []string{"opus", "vorbis", "libopus"},
		Extensions:           []string{"webm"},
	}
	db.formats["matroska"] = FormatInfo{
		Name:                 "matroska",
		SupportedVideoCodecs: []string{"h264", "hevc", "vp8", "vp9", "av1", "mpeg4"},
		SupportedAudioCodecs: []string{"aac", "mp3", "opus", "vorbis", "flac", "ac3"},
		Extensions:           []string{"mkv", "mka"},
	}
	db.formats["avi"] = FormatInfo{
		Name:                 "avi",
		SupportedVideoCodecs: []string{"mpeg4", "h264", "mjpeg"},
		SupportedAudioCodecs: []string{"mp3", "ac3", "pcm_s16le"},
		Extensions:           []string{"avi"},
	}
	db.formats["mov"] = FormatInfo{
		Name:                 "mov",
		SupportedVideoCodecs: []string{"h264", "hevc", "prores", "mpeg4"},
		SupportedAudioCodecs: []string{"aac", "alac", "pcm_s16le"},
		Extensions:           []string{"mov", "qt"},
	}
}

func (db *Database) seedFilters() {
	videoFilters := []struct{ name, desc string }{
		{"scale", "Resize video"},
		{"crop", "Crop video"},
		{"pad", "Add padding to video"},
		{"rotate", "Rotate video"},
		{"hflip", "Flip video horizontally"},
		{"vflip", "Flip video vertically"},
		{"fps", "Change frame rate"},
		{"format", "Convert pixel format"},
		{"overlay", "Overlay one video on another"},
		{"drawtext", "Draw text on video"},
		{"colorbalance", "Adjust color balance"},
		{"eq", "Adjust brightness/contrast"},
	}
	for _, f := range videoFilters {
		db.filters[f.name] = FilterInfo{
			Name:        f.name,
			InputType:   schemas.StreamVideo,
			OutputType:  schemas.StreamVideo,
			Description: f.desc,
		}
	}

	audioFilters := []struct{ name, desc string }{
		{"volume", "Adjust audio volume"},
		{"atempo", "Adjust audio tempo"},
		{"aresample", "Resample audio"},
		{"aformat", "Convert audio format"},
		{"loudnorm", "Normalize audio loudness"},
		{"equalizer", "Audio equalizer"},
		{"highpass", "High-pass filter"},
		{"lowpass", "Low-pass filter"},
		{"pan", "Audio channel mapping"},
	}
	for _, f := range audioFilters {
		db.filters[f.name] = FilterInfo{
			Name:        f.name,
			InputType:   schemas.StreamAudio,
			OutputType:  schemas.StreamAudio,
			Description: f.desc,
		}
	}
}

// Codec looks up a codec by name
func (db *Database) Codec(name string) (CodecInfo, bool) {
	c, ok := db.codecs[name]
	return c, ok
}

// Format looks up a container format by name
func (db *Database) Format(name string) (FormatInfo, bool) {
	f, ok := db.formats[name]
	return f, ok
}

// FormatByExtension finds the container format that claims the given file
// extension
func (db *Database) FormatByExtension(ext string) (FormatInfo, bool) {
	for _, f := range db.formats {
		for _, e := range f.Extensions {
			if e == ext {
				return f, true
			}
		}
	}
	return FormatInfo{}, false
}

// Filter looks up a filter by name
func (db *Database) Filter(name string) (FilterInfo, bool) {
	f, ok := db.filters[name]
	return f, ok
}

// IsCodecSupportedInFormat reports whether the container format's allowlist
// for the codec's stream type includes the codec. Unknown codecs and unknown
// formats are never supported.
func (db *Database) IsCodecSupportedInFormat(codec, format string) bool {
	c, ok := db.Codec(codec)
	if !ok {
		return false
	}
	f, ok := db.Format(format)
	if !ok {
		return false
	}

	var allowed []string
	switch c.StreamType {
	case schemas.StreamVideo:
		allowed = f.SupportedVideoCodecs
	case schemas.StreamAudio:
		allowed = f.SupportedAudioCodecs
	default:
		return false
	}
	for _, name := range allowed {
		if name == codec {
			return true
		}
	}
	return false
}

// InferFormatFromFilename maps a filename to a container format via its
// extension, or "" when the extension is unknown
func (db *Database) InferFormatFromFilename(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	if f, ok := db.FormatByExtension(filename[idx+1:]); ok {
		return f.Name
	}
	return ""
}
