package script

import (
	"testing"

	"github.com/mediakit/ffcheck/pkg/analyzer"
)

func TestSplitSimple(t *testing.T) {
	doc := `# transcode batch
ffmpeg -i a.mp4 out_a.mkv

ffmpeg -i b.mp4 out_b.mkv
`
	commands := Split(doc)
	if len(commands) != 2 {
		t.Fatalf("commands = %d, want 2", len(commands))
	}

	if commands[0].Text != "ffmpeg -i a.mp4 out_a.mkv" {
		t.Errorf("first text = %q", commands[0].Text)
	}
	if commands[0].Line != 1 || commands[0].Column != 0 {
		t.Errorf("first position = %d:%d, want 1:0", commands[0].Line, commands[0].Column)
	}
	if commands[1].Line != 3 {
		t.Errorf("second line = %d, want 3", commands[1].Line)
	}
}

func TestSplitIndentedCommand(t *testing.T) {
	commands := Split("    ffmpeg -i a.mp4 out.mp4")
	if len(commands) != 1 {
		t.Fatalf("commands = %d, want 1", len(commands))
	}
	if commands[0].Column != 4 {
		t.Errorf("column = %d, want 4", commands[0].Column)
	}
	if commands[0].Text != "ffmpeg -i a.mp4 out.mp4" {
		t.Errorf("text = %q", commands[0].Text)
	}
}

func TestSplitContinuation(t *testing.T) {
	doc := "ffmpeg -i input.mp4 \\\n  -c:v libx264 \\\n  output.mp4"

	commands := Split(doc)
	if len(commands) != 1 {
		t.Fatalf("commands = %d, want 1", len(commands))
	}

	want := "ffmpeg -i input.mp4 \n  -c:v libx264 \n  output.mp4"
	if commands[0].Text != want {
		t.Errorf("text = %q, want %q", commands[0].Text, want)
	}
}

func TestSplitTrailingBackslashAtEOF(t *testing.T) {
	commands := Split("ffmpeg -i a.mp4 out.mp4 \\")
	if len(commands) != 1 {
		t.Fatalf("commands = %d, want 1", len(commands))
	}
	if got := commands[0].Text; got != "ffmpeg -i a.mp4 out.mp4 " {
		t.Errorf("text = %q", got)
	}
}

func TestSplitCommentsAndBlanks(t *testing.T) {
	doc := "\n   \n# comment\n   # indented comment\n"
	if commands := Split(doc); len(commands) != 0 {
		t.Errorf("commands = %d, want 0", len(commands))
	}
}

// Diagnostics for a command extracted from a document must point at
// document coordinates when the command's position is fed back as offsets.
func TestSplitCoordinatesRoundTrip(t *testing.T) {
	doc := "# batch\n  ffmpeg -i input.mp4 -s 1920 \\\n    output.mp4\n"

	commands := Split(doc)
	if len(commands) != 1 {
		t.Fatalf("commands = %d, want 1", len(commands))
	}

	cmd := commands[0]
	result := analyzer.New().AnalyzeText(cmd.Text, cmd.Line, cmd.Column)

	var found bool
	for _, d := range result.Messages {
		if d.Code != "E401" {
			continue
		}
		found = true
		span := d.Spans[0].Span
		// "1920" sits on document line 1; in-command column 23 plus the
		// command's column offset 2
		if span.StartLine != 1 {
			t.Errorf("span line = %d, want 1", span.StartLine)
		}
		if span.StartColumn != 25 {
			t.Errorf("span column = %d, want 25", span.StartColumn)
		}
	}
	if !found {
		t.Fatal("expected E401 from extracted command")
	}
}
