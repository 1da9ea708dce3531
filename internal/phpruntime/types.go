package phpruntime

import "fmt"

// Entry is an extension as reported by a running PHP binary.
type Entry struct {
	ModuleName      string `yaml:"name" json:"name"`
	ReportedVersion string `yaml:"version" json:"version"`
}

// Index maps module names to runtime entries and preserves insertion order.
type Index struct {
	order   []string
	entries map[string]Entry
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]Entry)}
}

// Add appends an entry. Adding a module name twice is an error.
func (idx *Index) Add(e Entry) error {
	if e.ModuleName == "" {
		return fmt.Errorf("runtime module name is required")
	}
	if _, exists := idx.entries[e.ModuleName]; exists {
		return fmt.Errorf("duplicate runtime module '%s'", e.ModuleName)
	}
	idx.order = append(idx.order, e.ModuleName)
	idx.entries[e.ModuleName] = e
	return nil
}

// Has reports whether a module is loaded.
func (idx *Index) Has(moduleName string) bool {
	if idx == nil {
		return false
	}
	_, ok := idx.entries[moduleName]
	return ok
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.order)
}

// Entries returns all entries in insertion order.
func (idx *Index) Entries() []Entry {
	if idx == nil {
		return nil
	}
	out := make([]Entry, 0, len(idx.order))
	for _, name := range idx.order {
		out = append(out, idx.entries[name])
	}
	return out
}

// Runtime is everything the audit needs from a PHP installation.
type Runtime struct {
	Modules      *Index
	ExtensionDir string

	// PHPVersion is "major.minor" and PHPBinaryPath the binary PHP reports
	// for itself. Together they name PIE's working directory for this PHP.
	PHPVersion    string
	PHPBinaryPath string
}
