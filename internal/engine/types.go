package engine

import (
	"fmt"

	"github.com/bianoble/pie-audit/internal/installed"
	"github.com/bianoble/pie-audit/internal/phpruntime"
)

// IntegrityStatus classifies a module that is both loaded and PIE-installed.
type IntegrityStatus int

const (
	// NotVerifiable: no readable file at the conventional path.
	NotVerifiable IntegrityStatus = iota
	// NoExpectedRecord: PIE recorded no usable binary for the package.
	NoExpectedRecord
	// PathMismatch: the recorded binary lives somewhere other than the conventional path.
	PathMismatch
	// Verified: the binary hashes to the recorded checksum.
	Verified
	// ChecksumMismatch: the binary hashes to something other than the recorded checksum.
	ChecksumMismatch
)

var statusNames = map[IntegrityStatus]string{
	NotVerifiable:    "not-verifiable",
	NoExpectedRecord: "no-expected-record",
	PathMismatch:     "path-mismatch",
	Verified:         "verified",
	ChecksumMismatch: "checksum-mismatch",
}

func (s IntegrityStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("IntegrityStatus(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s IntegrityStatus) MarshalText() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown integrity status %d", int(s))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *IntegrityStatus) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown integrity status '%s'", string(text))
}

// Mismatch holds both full checksums of a failed verification.
type Mismatch struct {
	Expected string
	Actual   string
}

// Match pairs a loaded module with the PIE package that provides it.
type Match struct {
	Runtime   phpruntime.Entry
	Installed installed.Entry
	Status    IntegrityStatus

	// ConventionalPath is where the binary was looked for.
	ConventionalPath string

	// Mismatch is set only when Status is ChecksumMismatch.
	Mismatch *Mismatch
}

// Result is the outcome of a reconciliation. Each runtime module appears in
// exactly one of Matched and UnmanagedLoaded; each installed entry appears in
// exactly one of Matched and InstalledNotLoaded.
type Result struct {
	Matched            []Match
	UnmanagedLoaded    []phpruntime.Entry
	InstalledNotLoaded []installed.Entry
}

// Counts tallies matched modules per status.
func (r *Result) Counts() map[IntegrityStatus]int {
	counts := make(map[IntegrityStatus]int, len(statusNames))
	for _, m := range r.Matched {
		counts[m.Status]++
	}
	return counts
}

// HasMismatch reports whether any matched module failed verification.
func (r *Result) HasMismatch() bool {
	for _, m := range r.Matched {
		if m.Status == ChecksumMismatch {
			return true
		}
	}
	return false
}
