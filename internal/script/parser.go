// Package script parses free-text narration scripts into timed segments
// and estimates how long the narration takes to speak.
package script

import (
	"regexp"
	"strings"
)

// Segment is one spoken unit of narration tied to a source-video timestamp
// and an optional footage description.
type Segment struct {
	Text        string `json:"text"`
	Timestamp   string `json:"timestamp"` // "MM:SS" or "HH:MM:SS", as written
	Description string `json:"description"`
}

// ParseResult is the outcome of parsing one script text.
//
// InvalidLines holds 0-indexed positions (over the raw line split) of
// non-blank lines that matched neither grammar. Blank lines are skipped:
// they are never invalid, produce no segment, and do not count toward
// TotalLines, but they keep their place in the line numbering.
type ParseResult struct {
	Segments     []Segment
	InvalidLines []int
	TotalLines   int
}

var (
	// Field 1 of a pipe-delimited line: "23:23", "[23:23]", "1:02:03"...
	fieldStampRe = regexp.MustCompile(`\[?(\d{1,2}:\d{2}(?::\d{2})?)\]?`)
	// Bracketed timestamp anywhere in the line.
	bracketStampRe = regexp.MustCompile(`\[(\d{1,2}:\d{2}(?::\d{2})?)\]`)
	// Parenthesized description following a bracketed timestamp.
	bracketDescRe = regexp.MustCompile(`\[[\d:]+\]\s*\(([^)]+)\)`)
	// Bare voiceover-timing stamp at the start of the spoken text.
	leadingStampRe = regexp.MustCompile(`^(\d{1,2}:\d{2}(?::\d{2})?)\s+`)
)

// Parse converts raw multi-line script text into ordered segments.
//
// Each non-blank line is tried against the pipe-delimited grammar first
// ("text|MM:SS|description") and the inline-bracket grammar second
// ("MM:SS text [MM:SS] (description)"). A line matching neither is recorded
// in InvalidLines and parsing continues; nothing here is fatal. Segments
// appear in input order. Parse is pure: same input, same result.
func Parse(input string) ParseResult {
	var res ParseResult

	for i, raw := range strings.Split(input, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		res.TotalLines++

		if seg, ok := parsePipeLine(line); ok {
			res.Segments = append(res.Segments, seg)
			continue
		}
		if seg, ok := parseBracketLine(line); ok {
			res.Segments = append(res.Segments, seg)
			continue
		}
		res.InvalidLines = append(res.InvalidLines, i)
	}
	return res
}

// parsePipeLine handles "Script text|MM:SS|Description of footage".
// The description field is optional; fields past it are ignored. A line
// whose timestamp field carries no timestamp token falls through to the
// bracket grammar rather than failing outright.
func parsePipeLine(line string) (Segment, bool) {
	parts := strings.Split(line, "|")
	if len(parts) < 2 {
		return Segment{}, false
	}

	text := strings.TrimSpace(parts[0])
	if text == "" {
		return Segment{}, false
	}

	m := fieldStampRe.FindStringSubmatch(parts[1])
	if m == nil {
		return Segment{}, false
	}

	var desc string
	if len(parts) > 2 {
		desc = strings.TrimSpace(parts[2])
	}

	return Segment{Text: text, Timestamp: m[1], Description: desc}, true
}

// parseBracketLine handles "00:30 Script text [28:01] (Shot of the cave)".
// The bracketed stamp is the source-video timestamp; a leading bare stamp is
// voiceover timing and is stripped from the spoken text. Text after the
// bracket belongs to the description, never to the narration.
func parseBracketLine(line string) (Segment, bool) {
	loc := bracketStampRe.FindStringSubmatchIndex(line)
	if loc == nil {
		return Segment{}, false
	}
	stamp := line[loc[2]:loc[3]]

	var desc string
	if m := bracketDescRe.FindStringSubmatch(line); m != nil {
		desc = strings.TrimSpace(m[1])
	}

	text := strings.TrimSpace(line[:loc[0]])
	text = leadingStampRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	if text == "" {
		return Segment{}, false
	}

	return Segment{Text: text, Timestamp: stamp, Description: desc}, true
}
