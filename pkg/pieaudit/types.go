package pieaudit

import (
	"github.com/bianoble/pie-audit/internal/engine"
	"github.com/bianoble/pie-audit/internal/phpruntime"
)

// Type aliases re-export engine result types as the public API.
// Users import "github.com/bianoble/pie-audit/pkg/pieaudit" and use
// pieaudit.Result, pieaudit.Match, etc.

type Result = engine.Result
type Match = engine.Match
type Mismatch = engine.Mismatch
type IntegrityStatus = engine.IntegrityStatus
type VerifyResult = engine.VerifyResult
type ModuleDelta = engine.ModuleDelta
type Runtime = phpruntime.Runtime

// Integrity statuses.
const (
	NotVerifiable    = engine.NotVerifiable
	NoExpectedRecord = engine.NoExpectedRecord
	PathMismatch     = engine.PathMismatch
	Verified         = engine.Verified
	ChecksumMismatch = engine.ChecksumMismatch
)
