package script

import (
	"math"
	"strings"
)

// Average speaking rate used for duration estimates.
const wordsPerSecond = 2.5

// EstimateDuration approximates the spoken length of the segments in whole
// seconds: total whitespace-delimited words divided by the speaking rate,
// rounded to the nearest integer. Display-only; no accuracy guarantee.
func EstimateDuration(segments []Segment) int {
	words := 0
	for _, seg := range segments {
		words += len(strings.Fields(seg.Text))
	}
	return int(math.Round(float64(words) / wordsPerSecond))
}

// SpeechSeconds estimates the spoken length of a single piece of text as a
// fractional duration at the same speaking rate.
func SpeechSeconds(text string) float64 {
	return float64(len(strings.Fields(text))) / wordsPerSecond
}
