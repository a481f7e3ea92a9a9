package render

import (
	"strings"
	"testing"

	"github.com/mediakit/ffcheck/pkg/knowledge"
	"github.com/mediakit/ffcheck/pkg/parser"
	"github.com/mediakit/ffcheck/pkg/schemas"
	"github.com/mediakit/ffcheck/pkg/tracker"
)

func buildTracker(t *testing.T, cmd *parser.Command, db *knowledge.Database) *tracker.StreamTracker {
	t.Helper()
	builder := tracker.NewBuilder(db)
	builder.AnalyzeInputs(cmd.Inputs)
	return builder.Freeze()
}

func TestPipelineDiagram(t *testing.T) {
	db := knowledge.Default()
	cmd, err := parser.Parse("ffmpeg -i input.mp4 -c:v libx264 -c:a aac -vf scale=1280:720 output.mp4", 0, 0)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	diagram := PipelineDiagram(cmd, buildTracker(t, cmd, db), db)

	if !strings.HasPrefix(diagram, "graph LR\n") {
		t.Fatalf("diagram missing header:\n%s", diagram)
	}
	for _, want := range []string{
		"input.mp4<br/>V+A",
		"libx264",
		"aac",
		"-->|video|",
		"-->|audio|",
		"scale=1280:720",
		"output.mp4<br/>mp4",
	} {
		if !strings.Contains(diagram, want) {
			t.Errorf("diagram missing %q:\n%s", want, diagram)
		}
	}
}

func TestPipelineDiagramAudioOnlyInput(t *testing.T) {
	db := knowledge.Default()
	cmd, err := parser.Parse("ffmpeg -i track.mp3 -c:a opus out.webm", 0, 0)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	diagram := PipelineDiagram(cmd, buildTracker(t, cmd, db), db)

	if !strings.Contains(diagram, "track.mp3<br/>A") {
		t.Errorf("missing audio-only input node:\n%s", diagram)
	}
	if strings.Contains(diagram, "-->|video|") {
		t.Errorf("unexpected video edge for audio-only input:\n%s", diagram)
	}
	if !strings.Contains(diagram, "out.webm<br/>webm") {
		t.Errorf("missing output format annotation:\n%s", diagram)
	}
}

func TestCodecCompatibilityMatrix(t *testing.T) {
	diagram := CodecCompatibilityMatrix("vp9", schemas.StreamVideo, "mp4")

	for _, want := range []string{
		"graph TD",
		"Codec[vp9]",
		"✓ WebM",
		"✗ MP4",
		"style IMP4 fill:#a22",
	} {
		if !strings.Contains(diagram, want) {
			t.Errorf("matrix missing %q:\n%s", want, diagram)
		}
	}
}

func TestCodecCompatibilityMatrixUnknownCodec(t *testing.T) {
	diagram := CodecCompatibilityMatrix("mystery", schemas.StreamVideo, "mp4")
	if diagram != "graph TD\n  Codec[mystery]\n" {
		t.Errorf("unexpected diagram for unknown codec:\n%s", diagram)
	}

	// Stream type must match the rule's stream type
	diagram = CodecCompatibilityMatrix("opus", schemas.StreamVideo, "")
	if strings.Contains(diagram, "WebM") {
		t.Errorf("opus rule applied to video stream:\n%s", diagram)
	}
}

func TestExplainCodecFormatIncompatibility(t *testing.T) {
	md := ExplainCodecFormatIncompatibility("vp9", "mp4", []string{"webm", "matroska"})

	for _, want := range []string{
		"**vp9** codec cannot be used with **mp4**",
		"- `webm`",
		"- `matroska`",
		"### Solution",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("explanation missing %q:\n%s", want, md)
		}
	}
}

func TestExplainMissingStream(t *testing.T) {
	md := ExplainMissingStream(schemas.StreamVideo, "scale filter", []schemas.StreamType{schemas.StreamAudio})

	for _, want := range []string{
		"## Missing Video Stream",
		"**scale filter** requires a Video stream",
		"- Audio",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("explanation missing %q:\n%s", want, md)
		}
	}

	md = ExplainMissingStream(schemas.StreamAudio, "volume filter", nil)
	if !strings.Contains(md, "### Available Streams\nNone") {
		t.Errorf("expected None for empty available list:\n%s", md)
	}
}

func TestFilterMismatchBlocks(t *testing.T) {
	blocks := FilterMismatchBlocks("scale=1280:720", schemas.StreamVideo, schemas.StreamAudio)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	if blocks[0].Type != "markdown" || !strings.Contains(blocks[0].Markdown, "Filter 'scale=1280:720' expects") {
		t.Errorf("unexpected markdown block: %+v", blocks[0])
	}
	if blocks[1].Type != "mermaid" || !strings.Contains(blocks[1].Mermaid, "graph TD") {
		t.Errorf("unexpected mermaid block: %+v", blocks[1])
	}
	if strings.Contains(blocks[1].Mermaid, "f_scale=1280:720[") {
		t.Errorf("mermaid node id not sanitized: %s", blocks[1].Mermaid)
	}
}

func TestSanitizeLabel(t *testing.T) {
	got := sanitizeLabel("scale(w=1280)[out]")
	want := "scale&#40;w=1280&#41;&#91;out&#93;"
	if got != want {
		t.Errorf("sanitizeLabel = %q, want %q", got, want)
	}
}

func TestSanitizeMermaidID(t *testing.T) {
	got := sanitizeMermaidID("scale=1280:720")
	if got != "scale_1280_720" {
		t.Errorf("sanitizeMermaidID = %q", got)
	}
}
