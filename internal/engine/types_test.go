package engine

import (
	"encoding/json"
	"testing"
)

func TestIntegrityStatusString(t *testing.T) {
	tests := []struct {
		status IntegrityStatus
		want   string
	}{
		{NotVerifiable, "not-verifiable"},
		{NoExpectedRecord, "no-expected-record"},
		{PathMismatch, "path-mismatch"},
		{Verified, "verified"},
		{ChecksumMismatch, "checksum-mismatch"},
		{IntegrityStatus(42), "IntegrityStatus(42)"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestIntegrityStatusText(t *testing.T) {
	data, err := json.Marshal(map[string]IntegrityStatus{"s": ChecksumMismatch})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"s":"checksum-mismatch"}` {
		t.Errorf("json = %s", data)
	}

	var s IntegrityStatus
	if err := s.UnmarshalText([]byte("path-mismatch")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if s != PathMismatch {
		t.Errorf("status = %s, want path-mismatch", s)
	}

	if err := s.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := IntegrityStatus(42).MarshalText(); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestResultCountsAndHasMismatch(t *testing.T) {
	r := &Result{Matched: []Match{
		{Status: Verified},
		{Status: Verified},
		{Status: PathMismatch},
	}}

	counts := r.Counts()
	if counts[Verified] != 2 || counts[PathMismatch] != 1 || counts[ChecksumMismatch] != 0 {
		t.Errorf("counts = %v", counts)
	}
	if r.HasMismatch() {
		t.Error("HasMismatch = true, want false")
	}

	r.Matched = append(r.Matched, Match{Status: ChecksumMismatch, Mismatch: &Mismatch{}})
	if !r.HasMismatch() {
		t.Error("HasMismatch = false, want true")
	}
}
