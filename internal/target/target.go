// Package target implements per-target content adaptation.
//
// Each distribution target (twitter, instagram, ...) gets one Adapter
// variant: pure transformation and validation functions bound to that
// target's limits, suffix text, tag vocabulary, and media rules. No
// variant performs network I/O; delivery lives in internal/delivery.
package target

// Limits are the hard per-target content constraints.
//
// Lengths are counted in runes, not bytes: platform character limits are
// character limits, and byte-truncation would split multi-byte text.
type Limits struct {
	MaxBodyLen      int
	MaxTitleLen     int // 0 = no distinct title field; body limit applies
	MaxTags         int
	MaxMediaItems   int
	MaxVideoSeconds int // 0 = no video length cap
}

type Capabilities struct {
	Video      bool
	Images     bool
	Tags       bool
	Scheduling bool
	Threading  bool
}

// Target describes one distribution destination. Targets are
// configuration entities: created at process start, mutated only by
// enable/disable and credential updates, never deleted during a run.
type Target struct {
	ID            string
	Name          string
	Enabled       bool
	CredentialRef string // opaque handle, owned externally
	Limits        Limits
	Capabilities  Capabilities
}

// Adapter is the per-target transformation contract. Implementations are
// stateless and safe for concurrent use.
type Adapter interface {
	Target() Target

	// FormatBody truncates body to the target's body limit, reserving
	// room for the call-to-action suffix and an appended tag block when
	// tags are supported and space allows. Applying it twice to an
	// already-formatted, within-limit string is a no-op.
	FormatBody(body string, tags []string) string

	// FormatTitle truncates to the target's title limit, falling back to
	// the body limit when the target has no distinct title field.
	FormatTitle(title string) string

	// GenerateTags unions base tags with the target-and-category tag
	// vocabulary, de-duplicates case-insensitively, and caps the result
	// at the target's tag limit.
	GenerateTags(base []string, category string) []string

	// Validate checks the unformatted body and media set against the
	// target's raw constraints and returns every violation, not just the
	// first. An empty slice means the content is publishable as-is.
	Validate(body string, media []string) []error
}
