package engine

import (
	"io"
	"os"
	"path/filepath"

	"github.com/bianoble/pie-audit/internal/binary"
	"github.com/bianoble/pie-audit/internal/installed"
	"github.com/bianoble/pie-audit/internal/phpruntime"
	"github.com/charmbracelet/log"
)

// Reconciler joins the loaded modules of a PHP runtime with the packages PIE
// installed and checks each matched binary against its recorded checksum.
type Reconciler struct {
	// Logger receives per-module diagnostics. Nil discards them.
	Logger *log.Logger

	// HashFile computes the descriptor of a binary. Nil uses binary.FromFile.
	HashFile func(path string) (binary.Descriptor, error)
}

// Reconcile classifies every runtime module and installed package. It never
// fails: a module whose binary cannot be read is reported as NotVerifiable.
// Output order follows the order of the source indexes.
func (r *Reconciler) Reconcile(runtimeModules *phpruntime.Index, installedPackages *installed.Index, binaryDir, binaryExt string) *Result {
	logger := r.logger()
	result := &Result{}

	for _, rm := range runtimeModules.Entries() {
		pkg, ok := installedPackages.Get(rm.ModuleName)
		if !ok {
			result.UnmanagedLoaded = append(result.UnmanagedLoaded, rm)
			continue
		}

		m := r.classify(rm, pkg, ConventionalPath(binaryDir, rm.ModuleName, binaryExt))
		logger.Debug("classified module", "module", rm.ModuleName, "status", m.Status, "path", m.ConventionalPath)
		result.Matched = append(result.Matched, m)
	}

	for _, pkg := range installedPackages.Entries() {
		if !runtimeModules.Has(pkg.ModuleName) {
			result.InstalledNotLoaded = append(result.InstalledNotLoaded, pkg)
		}
	}

	return result
}

// ConventionalPath is where a module binary lives when loaded by name from
// the extension directory.
func ConventionalPath(binaryDir, moduleName, binaryExt string) string {
	return filepath.Join(binaryDir, moduleName+binaryExt)
}

func (r *Reconciler) classify(rm phpruntime.Entry, pkg installed.Entry, path string) Match {
	m := Match{Runtime: rm, Installed: pkg, ConventionalPath: path}

	// The module may have been loaded by full path from an INI file.
	if _, err := os.Stat(path); err != nil {
		m.Status = NotVerifiable
		return m
	}

	expected := pkg.ExpectedBinary
	if expected == nil {
		m.Status = NoExpectedRecord
		return m
	}

	if expected.Path != path {
		m.Status = PathMismatch
		return m
	}

	// The file may disappear between Stat and FromFile; that is reported,
	// not fatal.
	actual, err := r.hashFile(path)
	if err != nil {
		r.logger().Warn("could not hash module binary", "module", rm.ModuleName, "path", path, "err", err)
		m.Status = NotVerifiable
		return m
	}

	if err := expected.VerifyAgainst(actual); err != nil {
		m.Status = ChecksumMismatch
		m.Mismatch = &Mismatch{Expected: expected.Checksum, Actual: actual.Checksum}
		return m
	}

	m.Status = Verified
	return m
}

var discardLogger = log.New(io.Discard)

func (r *Reconciler) logger() *log.Logger {
	if r == nil || r.Logger == nil {
		return discardLogger
	}
	return r.Logger
}

func (r *Reconciler) hashFile(path string) (binary.Descriptor, error) {
	if r != nil && r.HashFile != nil {
		return r.HashFile(path)
	}
	return binary.FromFile(path)
}
