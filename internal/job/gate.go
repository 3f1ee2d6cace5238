package job

import "github.com/smartclipper/smartclip/internal/script"

// CanSubmit decides whether a submission is allowed right now: a source must
// be provided, the script must have been parsed (nil means not yet parsed,
// which is different from parsed-but-empty), at least one segment must have
// survived parsing, and no submission may already be in flight.
//
// Pure predicate; callers re-evaluate it whenever any input changes rather
// than only at submit time.
func CanSubmit(sourceProvided bool, res *script.ParseResult, inFlight bool) bool {
	return sourceProvided && res != nil && len(res.Segments) > 0 && !inFlight
}
