package engine

import (
	"fmt"

	"github.com/bianoble/pie-audit/internal/binary"
)

// ModuleDelta describes a module whose binary no longer matches its record.
type ModuleDelta struct {
	Module string
	Before string
	After  string
}

// VerifyResult holds the outcome of a verify run.
type VerifyResult struct {
	Verified   []string
	Changed    []ModuleDelta
	Unverified []string
}

// Verify reduces a reconciliation to the modules that could be checked.
// Unverified lists matched modules with any other status.
func Verify(r *Result) *VerifyResult {
	result := &VerifyResult{}

	for _, m := range r.Matched {
		switch m.Status {
		case Verified:
			result.Verified = append(result.Verified, m.Runtime.ModuleName)
		case ChecksumMismatch:
			result.Changed = append(result.Changed, ModuleDelta{
				Module: m.Runtime.ModuleName,
				Before: summarizeChecksum(m.Mismatch.Expected),
				After:  summarizeChecksum(m.Mismatch.Actual),
			})
		default:
			result.Unverified = append(result.Unverified, m.Runtime.ModuleName)
		}
	}

	return result
}

// Failed reports whether any module changed.
func (v *VerifyResult) Failed() error {
	if len(v.Changed) == 0 {
		return nil
	}
	return fmt.Errorf("%d module(s) do not match the checksum recorded at install time", len(v.Changed))
}

func summarizeChecksum(sum string) string {
	return "sha256:" + binary.Short(sum)
}
