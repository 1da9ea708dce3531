package binary

import "strings"

// AlgorithmSHA256 is the only checksum algorithm recorded at install time.
const AlgorithmSHA256 = "sha256"

// ParseRecordedChecksum splits an optionally tagged checksum ("sha256:<hex>"
// or bare "<hex>") and reports whether it uses a recognised algorithm.
// An explicit algorithm argument, when non-empty, must also be recognised.
// The returned hex is lower-cased.
func ParseRecordedChecksum(raw, algorithm string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	if algorithm != "" && !strings.EqualFold(strings.TrimSpace(algorithm), AlgorithmSHA256) {
		return "", false
	}

	if tag, hexPart, found := strings.Cut(raw, ":"); found {
		if !strings.EqualFold(tag, AlgorithmSHA256) {
			return "", false
		}
		raw = hexPart
	}

	if raw == "" {
		return "", false
	}
	return strings.ToLower(raw), true
}
