package binary

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// ShortLen is the number of hex characters shown when a checksum is displayed.
const ShortLen = 8

// Descriptor identifies a binary module file by path and SHA256 content hash.
// Checksum is lower-case hex. Descriptors are never mutated after construction.
type Descriptor struct {
	Path     string
	Checksum string
}

// FromFile reads the file at path and computes its SHA256 checksum.
func FromFile(path string) (Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("opening binary %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return Descriptor{}, fmt.Errorf("hashing binary %s: %w", path, err)
	}

	return Descriptor{Path: path, Checksum: hex.EncodeToString(h.Sum(nil))}, nil
}

// FromRecorded builds a descriptor from stored install metadata.
// The checksum is trusted as-is.
func FromRecorded(path, checksum string) Descriptor {
	return Descriptor{Path: path, Checksum: checksum}
}

// VerifyAgainst returns nil when both descriptors carry the same checksum,
// otherwise a *ChecksumMismatchError.
func (d Descriptor) VerifyAgainst(other Descriptor) error {
	if d.Checksum == other.Checksum {
		return nil
	}
	return &ChecksumMismatchError{Expected: d.Checksum, Actual: other.Checksum}
}

// ChecksumMismatchError carries both full checksums of a failed verification.
type ChecksumMismatchError struct {
	Expected string
	Actual   string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: was %s..., expected %s...", Short(e.Actual), Short(e.Expected))
}

// Short truncates a checksum to ShortLen characters for display.
func Short(checksum string) string {
	if len(checksum) > ShortLen {
		return checksum[:ShortLen]
	}
	return checksum
}
