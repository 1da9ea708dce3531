package report

import (
	"github.com/bianoble/pie-audit/internal/engine"
)

// Document is the machine-readable form of a reconciliation result.
type Document struct {
	Matched            []MatchedModule    `json:"matched" yaml:"matched"`
	UnmanagedLoaded    []LoadedModule     `json:"unmanaged_loaded" yaml:"unmanaged_loaded"`
	InstalledNotLoaded []InstalledPackage `json:"installed_not_loaded" yaml:"installed_not_loaded"`
}

// LoadedModule is a module reported by the PHP runtime.
type LoadedModule struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// InstalledPackage is a PIE package.
type InstalledPackage struct {
	Module  string `json:"module" yaml:"module"`
	Package string `json:"package" yaml:"package"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// MatchedModule is a loaded module provided by a PIE package. Checksums are
// set only for a checksum mismatch and are never truncated.
type MatchedModule struct {
	LoadedModule     `yaml:",inline"`
	Package          InstalledPackage       `json:"package" yaml:"package"`
	Status           engine.IntegrityStatus `json:"status" yaml:"status"`
	Path             string                 `json:"path" yaml:"path"`
	ExpectedChecksum string                 `json:"expected_checksum,omitempty" yaml:"expected_checksum,omitempty"`
	ActualChecksum   string                 `json:"actual_checksum,omitempty" yaml:"actual_checksum,omitempty"`
}

// NewDocument converts a result, keeping its order. Empty sequences are
// encoded as empty lists rather than null.
func NewDocument(result *engine.Result) Document {
	doc := Document{
		Matched:            make([]MatchedModule, 0, len(result.Matched)),
		UnmanagedLoaded:    make([]LoadedModule, 0, len(result.UnmanagedLoaded)),
		InstalledNotLoaded: make([]InstalledPackage, 0, len(result.InstalledNotLoaded)),
	}

	for _, m := range result.Matched {
		mm := MatchedModule{
			LoadedModule: LoadedModule{Name: m.Runtime.ModuleName, Version: m.Runtime.ReportedVersion},
			Package: InstalledPackage{
				Module:  m.Installed.ModuleName,
				Package: m.Installed.PackageName,
				Version: m.Installed.Version,
			},
			Status: m.Status,
			Path:   m.ConventionalPath,
		}
		if m.Mismatch != nil {
			mm.ExpectedChecksum = m.Mismatch.Expected
			mm.ActualChecksum = m.Mismatch.Actual
		}
		doc.Matched = append(doc.Matched, mm)
	}

	for _, rm := range result.UnmanagedLoaded {
		doc.UnmanagedLoaded = append(doc.UnmanagedLoaded, LoadedModule{Name: rm.ModuleName, Version: rm.ReportedVersion})
	}

	for _, e := range result.InstalledNotLoaded {
		doc.InstalledNotLoaded = append(doc.InstalledNotLoaded, InstalledPackage{
			Module:  e.ModuleName,
			Package: e.PackageName,
			Version: e.Version,
		})
	}

	return doc
}
