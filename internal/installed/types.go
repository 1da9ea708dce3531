package installed

import (
	"fmt"

	"github.com/bianoble/pie-audit/internal/binary"
)

// Entry describes one PIE-installed package that provides a PHP extension.
type Entry struct {
	ModuleName  string
	PackageName string
	Version     string

	// ExpectedBinary is the binary recorded at install time, nil if none was captured.
	ExpectedBinary *binary.Descriptor
}

// DisplayNameAndVersion returns the package label used in reports, e.g. "xdebug/xdebug:3.2.0".
func (e Entry) DisplayNameAndVersion() string {
	if e.Version == "" {
		return e.PackageName
	}
	return e.PackageName + ":" + e.Version
}

// Index maps module names to installed entries and preserves insertion order.
type Index struct {
	order   []string
	entries map[string]Entry

	// replaced lists module names whose first entry was overwritten by Put.
	replaced []string
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]Entry)}
}

// Add appends an entry. Adding a module name twice is an error.
func (idx *Index) Add(e Entry) error {
	if e.ModuleName == "" {
		return fmt.Errorf("installed package '%s': module name is required", e.PackageName)
	}
	if _, exists := idx.entries[e.ModuleName]; exists {
		return fmt.Errorf("duplicate installed module '%s'", e.ModuleName)
	}
	idx.order = append(idx.order, e.ModuleName)
	idx.entries[e.ModuleName] = e
	return nil
}

// Put adds an entry, or overwrites an existing entry with the same module
// name in place. The overwritten name is recorded in Replaced.
func (idx *Index) Put(e Entry) error {
	if _, exists := idx.entries[e.ModuleName]; exists {
		idx.entries[e.ModuleName] = e
		idx.replaced = append(idx.replaced, e.ModuleName)
		return nil
	}
	return idx.Add(e)
}

// Replaced returns the module names Put overwrote, in the order it happened.
func (idx *Index) Replaced() []string {
	if idx == nil {
		return nil
	}
	return idx.replaced
}

// Get looks up an entry by module name.
func (idx *Index) Get(moduleName string) (Entry, bool) {
	if idx == nil {
		return Entry{}, false
	}
	e, ok := idx.entries[moduleName]
	return e, ok
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
