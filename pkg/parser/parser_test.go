package parser

import (
	"testing"
)

func TestParseSimpleCommand(t *testing.T) {
	cmd, err := Parse("ffmpeg -i input.mp4 output.mp4", 0, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(cmd.Inputs) != 1 {
		t.Fatalf("inputs = %d, want 1", len(cmd.Inputs))
	}
	if len(cmd.Outputs) != 1 {
		t.Fatalf("outputs = %d, want 1", len(cmd.Outputs))
	}
	if cmd.Inputs[0].FilePath != "input.mp4" {
		t.Errorf("input path = %q, want input.mp4", cmd.Inputs[0].FilePath)
	}
	if cmd.Outputs[0].FilePath != "output.mp4" {
		t.Errorf("output path = %q, want output.mp4", cmd.Outputs[0].FilePath)
	}
}

func TestParseCodecOptions(t *testing.T) {
	cmd, err := Parse("ffmpeg -i input.mp4 -c:v libx264 -c:a aac -c copy output.mp4", 0, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	opts := cmd.Outputs[0].Options
	if len(opts) != 3 {
		t.Fatalf("output options = %d, want 3", len(opts))
	}

	vc, ok := opts[0].(VideoCodecOption)
	if !ok {
		t.Fatalf("option 0 = %T, want VideoCodecOption", opts[0])
	}
	if vc.Codec != "libx264" {
		t.Errorf("video codec = %q, want libx264", vc.Codec)
	}

	ac, ok := opts[1].(AudioCodecOption)
	if !ok {
		t.Fatalf("option 1 = %T, want AudioCodecOption", opts[1])
	}
	if ac.Codec != "aac" {
		t.Errorf("audio codec = %q, want aac", ac.Codec)
	}

	gc, ok := opts[2].(CodecOption)
	if !ok {
		t.Fatalf("option 2 = %T, want CodecOption", opts[2])
	}
	if gc.Codec != "copy" {
		t.Errorf("generic codec = %q, want copy", gc.Codec)
	}
}

func TestParseCodecAliases(t *testing.T) {
	cmd, err := Parse("ffmpeg -i in.mp4 -vcodec libx265 -acodec opus out.mkv", 0, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	opts := cmd.Outputs[0].Options
	if _, ok := opts[0].(VideoCodecOption); !ok {
		t.Errorf("-vcodec parsed as %T, want VideoCodecOption", opts[0])
	}
	if _, ok := opts[1].(AudioCodecOption); !ok {
		t.Errorf("-acodec parsed as %T, want AudioCodecOption", opts[1])
	}
}

func TestParseCodecSpans(t *testing.T) {
	// Columns:     0123456789...
	cmd, err := Parse("ffmpeg -i input.mp4 -c:v libx264 output.mp4", 0, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	vc := cmd.Outputs[0].Options[0].(VideoCodecOption)
	if vc.CodecSpan.StartColumn != 25 || vc.CodecSpan.EndColumn != 32 {
		t.Errorf("codec span columns = %d..%d, want 25..32", vc.CodecSpan.StartColumn, vc.CodecSpan.EndColumn)
	}
	if vc.OptionSpan.StartColumn != 20 {
		t.Errorf("option span start = %d, want 20", vc.OptionSpan.StartColumn)
	}
}

func TestParseWithOffsets(t *testing.T) {
	cmd, err := Parse("ffmpeg -i input.mp4 output.mp4", 4, 8)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	span := cmd.Inputs[0].FilePathSpan
	if span.StartLine != 4 {
		t.Errorf("start line = %d, want 4", span.StartLine)
	}
	// input.mp4 starts at in-text column 10; +8 column offset on line 0
	if span.StartColumn != 18 {
		t.Errorf("start column = %d, want 18", span.StartColumn)
	}
}

func TestColumnOffsetOnlyAppliesToFirstLine(t *testing.T) {
	cmd, err := Parse("ffmpeg -i input.mp4 \n-c:v libx264 output.mp4", 2, 5)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	vc := cmd.Outputs[0].Options[0].(VideoCodecOption)
	if vc.OptionSpan.StartLine != 3 {
		t.Errorf("option line = %d, want 3", vc.OptionSpan.StartLine)
	}
	// Second line columns must not be shifted by the column offset
	if vc.OptionSpan.StartColumn != 0 {
		t.Errorf("option column = %d, want 0", vc.OptionSpan.StartColumn)
	}
}

func TestParseFilters(t *testing.T) {
	cmd, err := Parse("ffmpeg -i in.mp4 -vf scale=1920:1080 -af volume=0.5 out.mp4", 0, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	opts := cmd.Outputs[0].Options
	vf, ok := opts[0].(VideoFilterOption)
	if !ok {
		t.Fatalf("option 0 = %T, want VideoFilterOption", opts[0])
	}
	if vf.Filter.Raw != "scale=1920:1080" {
		t.Errorf("video filter = %q", vf.Filter.Raw)
	}

	af, ok := opts[1].(AudioFilterOption)
	if !ok {
		t.Fatalf("option 1 = %T, want AudioFilterOption", opts[1])
	}
	if af.Filter.Raw != "volume=0.5" {
		t.Errorf("audio filter = %q", af.Filter.Raw)
	}
}

func TestParseQuotedFilter(t *testing.T) {
	cmd, err := Parse(`ffmpeg -i in.mp4 -vf "scale=1920:1080, crop=100:100" out.mp4`, 0, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	vf := cmd.Outputs[0].Options[0].(VideoFilterOption)
	if vf.Filter.Raw != "scale=1920:1080, crop=100:100" {
		t.Errorf("filter raw = %q", vf.Filter.Raw)
	}
}

func TestParseQuotedPath(t *testing.T) {
	cmd, err := Parse(`ffmpeg -i 'my input.mp4' output.mp4`, 0, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cmd.Inputs[0].FilePath != "my input.mp4" {
		t.Errorf("input path = %q, want 'my input.mp4'", cmd.Inputs[0].FilePath)
	}
}

func TestParseInputOptions(t *testing.T) {
	cmd, err := Parse("ffmpeg -f mp3 -ss 10 -i audio.bin output.mp4", 0, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	opts := cmd.Inputs[0].Options
	if len(opts) != 2 {
		t.Fatalf("input options = %d, want 2", len(opts))
	}
	if f, ok := opts[0].(FormatOption); !ok || f.Format != "mp3" {
		t.Errorf("option 0 = %#v, want FormatOption mp3", opts[0])
	}
	if s, ok := opts[1].(SeekStartOption); !ok || s.Time != "10" {
		t.Errorf("option 1 = %#v, want SeekStartOption 10", opts[1])
	}
}

func TestParseMultipleInputsOutputs(t *testing.T) {
	cmd, err := Parse("ffmpeg -i a.mp4 -i b.mp3 -map 0:v -map 1:a out1.mp4 -c:a copy out2.mkv", 0, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(cmd.Inputs) != 2 {
		t.Fatalf("inputs = %d, want 2", len(cmd.Inputs))
	}
	if len(cmd.Outputs) != 2 {
		t.Fatalf("outputs = %d, want 2", len(cmd.Outputs))
	}
	if len(cmd.Outputs[0].Options) != 2 {
		t.Errorf("first output options = %d, want 2", len(cmd.Outputs[0].Options))
	}
	if len(cmd.Outputs[1].Options) != 1 {
		t.Errorf("second output options = %d, want 1", len(cmd.Outputs[1].Options))
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, err := Parse("ffmpeg -y -hide_banner -i in.mp4 out.mp4", 0, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(cmd.GlobalOptions) != 2 {
		t.Fatalf("global options = %d, want 2", len(cmd.GlobalOptions))
	}
	if len(cmd.Inputs[0].Options) != 0 {
		t.Errorf("input options = %d, want 0", len(cmd.Inputs[0].Options))
	}
}

func TestParseBooleanAndGenericOptions(t *testing.T) {
	cmd, err := Parse("ffmpeg -i in.mp4 -an -preset slow out.mp4", 0, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	opts := cmd.Outputs[0].Options
	if len(opts) != 2 {
		t.Fatalf("output options = %d, want 2", len(opts))
	}
	if f, ok := opts[0].(FlagOption); !ok || f.Name != "-an" {
		t.Errorf("option 0 = %#v, want FlagOption -an", opts[0])
	}
	g, ok := opts[1].(GenericOption)
	if !ok {
		t.Fatalf("option 1 = %T, want GenericOption", opts[1])
	}
	if g.Name != "-preset" || g.Value != "slow" || g.ValueSpan == nil {
		t.Errorf("generic option = %#v", g)
	}
}

func TestParseBitrateAndFormatNumbers(t *testing.T) {
	cmd, err := Parse("ffmpeg -i in.mp4 -b:v 2500k -b:a 128k -s 1920x1080 -r 29.97 -ar 44100 -ac 2 out.mp4", 0, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	opts := cmd.Outputs[0].Options
	want := []string{"VideoBitrateOption", "AudioBitrateOption", "ResolutionOption", "FrameRateOption", "SampleRateOption", "ChannelsOption"}
	if len(opts) != len(want) {
		t.Fatalf("output options = %d, want %d", len(opts), len(want))
	}

	if b := opts[0].(VideoBitrateOption); b.Bitrate != "2500k" {
		t.Errorf("video bitrate = %q", b.Bitrate)
	}
	if b := opts[1].(AudioBitrateOption); b.Bitrate != "128k" {
		t.Errorf("audio bitrate = %q", b.Bitrate)
	}
	if r := opts[2].(ResolutionOption); r.Resolution != "1920x1080" {
		t.Errorf("resolution = %q", r.Resolution)
	}
	if r := opts[3].(FrameRateOption); r.Rate != "29.97" {
		t.Errorf("frame rate = %q", r.Rate)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"starts with option", "-i input.mp4 output.mp4"},
		{"missing input file", "ffmpeg -i"},
		{"no output", "ffmpeg -i input.mp4"},
		{"no input", "ffmpeg output.mp4 extra.mp4"},
		{"codec without value", "ffmpeg -i in.mp4 -c:v -b:a 128k out.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.text, 0, 0); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.text)
			}
		})
	}
}

func TestParseIdempotent(t *testing.T) {
	text := "ffmpeg -i input.mp4 -c:v libx264 -vf scale=1280:720 output.mp4"

	first, err := Parse(text, 0, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	second, err := Parse(text, 0, 0)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(first.Outputs[0].Options) != len(second.Outputs[0].Options) {
		t.Error("repeated parses disagree")
	}
	if first.Span != second.Span {
		t.Errorf("spans differ: %+v vs %+v", first.Span, second.Span)
	}
}
