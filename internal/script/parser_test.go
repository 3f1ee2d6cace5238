package script

import (
	"reflect"
	"testing"
)

func TestParse_PipeDelimited(t *testing.T) {
	res := Parse("Hello there|23:23|A desc")

	if len(res.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(res.Segments))
	}
	want := Segment{Text: "Hello there", Timestamp: "23:23", Description: "A desc"}
	if res.Segments[0] != want {
		t.Errorf("segment = %+v, want %+v", res.Segments[0], want)
	}
	if len(res.InvalidLines) != 0 {
		t.Errorf("invalid lines = %v, want none", res.InvalidLines)
	}
	if res.TotalLines != 1 {
		t.Errorf("total lines = %d, want 1", res.TotalLines)
	}
}

func TestParse_PipeVariants(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Segment
	}{
		{
			name: "bracketed timestamp field",
			line: "Watch this part|[23:23]|Close up",
			want: Segment{Text: "Watch this part", Timestamp: "23:23", Description: "Close up"},
		},
		{
			name: "no description field",
			line: "Intro narration|00:15",
			want: Segment{Text: "Intro narration", Timestamp: "00:15"},
		},
		{
			name: "hours timestamp",
			line: "Deep into the stream|1:02:03|",
			want: Segment{Text: "Deep into the stream", Timestamp: "1:02:03"},
		},
		{
			name: "extra fields ignored",
			line: "Text|00:10|desc|ignored|also ignored",
			want: Segment{Text: "Text", Timestamp: "00:10", Description: "desc"},
		},
		{
			name: "fields trimmed",
			line: "  Padded text  | 05:30 |  padded desc  ",
			want: Segment{Text: "Padded text", Timestamp: "05:30", Description: "padded desc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.line)
			if len(res.Segments) != 1 {
				t.Fatalf("segments = %d, want 1 (invalid: %v)", len(res.Segments), res.InvalidLines)
			}
			if res.Segments[0] != tt.want {
				t.Errorf("segment = %+v, want %+v", res.Segments[0], tt.want)
			}
		})
	}
}

func TestParse_BracketStyle(t *testing.T) {
	res := Parse("00:30 Some narration [00:45] (wide shot)")

	if len(res.Segments) != 1 {
		t.Fatalf("segments = %d, want 1 (invalid: %v)", len(res.Segments), res.InvalidLines)
	}
	want := Segment{Text: "Some narration", Timestamp: "00:45", Description: "wide shot"}
	if res.Segments[0] != want {
		t.Errorf("segment = %+v, want %+v", res.Segments[0], want)
	}
}

func TestParse_BracketVariants(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Segment
	}{
		{
			name: "no leading stamp",
			line: "The vault stayed sealed for decades [12:05] (rusted door)",
			want: Segment{Text: "The vault stayed sealed for decades", Timestamp: "12:05", Description: "rusted door"},
		},
		{
			name: "no description",
			line: "00:10 Nobody noticed the change [03:40]",
			want: Segment{Text: "Nobody noticed the change", Timestamp: "03:40"},
		},
		{
			name: "only first leading stamp stripped",
			line: "00:30 00:31 is when it happens [00:45]",
			want: Segment{Text: "00:31 is when it happens", Timestamp: "00:45"},
		},
		{
			name: "hours timestamp",
			line: "Final act begins [1:15:00] (stage lights)",
			want: Segment{Text: "Final act begins", Timestamp: "1:15:00", Description: "stage lights"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.line)
			if len(res.Segments) != 1 {
				t.Fatalf("segments = %d, want 1 (invalid: %v)", len(res.Segments), res.InvalidLines)
			}
			if res.Segments[0] != tt.want {
				t.Errorf("segment = %+v, want %+v", res.Segments[0], tt.want)
			}
		})
	}
}

func TestParse_PipeFallsThroughToBracket(t *testing.T) {
	// The pipe split succeeds but field 1 carries no timestamp token, so the
	// bracket grammar gets its turn on the whole line.
	res := Parse("Narration here [05:10] (cutaway)|editor notes")

	if len(res.Segments) != 1 {
		t.Fatalf("segments = %d, want 1 (invalid: %v)", len(res.Segments), res.InvalidLines)
	}
	want := Segment{Text: "Narration here", Timestamp: "05:10", Description: "cutaway"}
	if res.Segments[0] != want {
		t.Errorf("segment = %+v, want %+v", res.Segments[0], want)
	}
}

func TestParse_BlankInput(t *testing.T) {
	for _, input := range []string{"", "\n", "\n\n\n", "   \n\t\n  "} {
		res := Parse(input)
		if len(res.Segments) != 0 || len(res.InvalidLines) != 0 || res.TotalLines != 0 {
			t.Errorf("Parse(%q) = %+v, want empty result", input, res)
		}
	}
}

func TestParse_InvalidLine(t *testing.T) {
	res := Parse("this line has no delimiters and no brackets")

	if len(res.Segments) != 0 {
		t.Errorf("segments = %d, want 0", len(res.Segments))
	}
	if !reflect.DeepEqual(res.InvalidLines, []int{0}) {
		t.Errorf("invalid lines = %v, want [0]", res.InvalidLines)
	}
	if res.TotalLines != 1 {
		t.Errorf("total lines = %d, want 1", res.TotalLines)
	}
}

func TestParse_InvalidLineCases(t *testing.T) {
	lines := []string{
		"|23:23|description but empty text",
		"[00:45] (description but no text)",
		"text with pipe|but no timestamp anywhere",
		"12:34 bare stamp without brackets",
	}

	for _, line := range lines {
		res := Parse(line)
		if len(res.Segments) != 0 {
			t.Errorf("Parse(%q) produced segment %+v, want invalid", line, res.Segments[0])
		}
		if !reflect.DeepEqual(res.InvalidLines, []int{0}) {
			t.Errorf("Parse(%q) invalid lines = %v, want [0]", line, res.InvalidLines)
		}
	}
}

func TestParse_MultiLineAccounting(t *testing.T) {
	input := "First segment|00:10|opening\n" +
		"\n" +
		"not parseable at all\n" +
		"   \n" +
		"00:20 Second segment [00:35] (mid shot)\n" +
		"also broken\n"

	res := Parse(input)

	if len(res.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(res.Segments))
	}
	if res.Segments[0].Text != "First segment" || res.Segments[1].Text != "Second segment" {
		t.Errorf("segment order wrong: %+v", res.Segments)
	}
	// Blank lines keep their place in the numbering but are never invalid.
	if !reflect.DeepEqual(res.InvalidLines, []int{2, 5}) {
		t.Errorf("invalid lines = %v, want [2 5]", res.InvalidLines)
	}
	if res.TotalLines != 4 {
		t.Errorf("total lines = %d, want 4", res.TotalLines)
	}
}

func TestParse_RealisticScript(t *testing.T) {
	input := `intro chatter that carries no markers
[00:12] (Dragon closeup)
00:05 The dragon breathed real fire over the casino floor. [00:12] (Dragon closeup)
00:12 Visitors lined up for hours to watch the show. [01:40] (Queue outside the castle)
The show was finally retired in 2003.|27:44|Footage of the final night`

	res := Parse(input)

	if len(res.Segments) != 3 {
		t.Fatalf("segments = %d, want 3 (invalid: %v)", len(res.Segments), res.InvalidLines)
	}
	if !reflect.DeepEqual(res.InvalidLines, []int{0, 1}) {
		t.Errorf("invalid lines = %v, want [0 1]", res.InvalidLines)
	}
	if res.TotalLines != 5 {
		t.Errorf("total lines = %d, want 5", res.TotalLines)
	}
	if res.Segments[2].Timestamp != "27:44" {
		t.Errorf("timestamp = %q, want %q", res.Segments[2].Timestamp, "27:44")
	}
}

func TestParse_TextAfterBracketIgnored(t *testing.T) {
	res := Parse("Keep this part [02:00] (slow pan) and drop this trailer")

	if len(res.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(res.Segments))
	}
	if got := res.Segments[0].Text; got != "Keep this part" {
		t.Errorf("text = %q, want %q", got, "Keep this part")
	}
	if got := res.Segments[0].Description; got != "slow pan" {
		t.Errorf("description = %q, want %q", got, "slow pan")
	}
}
