package installed

import (
	"fmt"
	"os"
	"strings"

	"github.com/bianoble/pie-audit/internal/binary"
	"github.com/tidwall/gjson"
)

// Package types PIE installs. Anything else in installed.json is a regular
// Composer package and is ignored.
const (
	TypePHPExt     = "php-ext"
	TypePHPExtZend = "php-ext-zend"
)

// Metadata keys PIE writes into the "extra" section of an installed package.
const (
	KeyInstalledBinary   = "pie-installed-binary"
	KeyBinaryChecksum    = "pie-installed-binary-checksum"
	KeyChecksumAlgorithm = "pie-installed-binary-checksum-algorithm"
)

// Load reads a Composer installed.json and builds an Index of PIE packages.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading installed.json %s: %w", path, err)
	}

	idx, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing installed.json %s: %w", path, err)
	}
	return idx, nil
}

// Parse builds an Index from installed.json content. Both the Composer 2
// layout ({"packages": [...]}) and the Composer 1 layout (a bare array) are
// accepted. Packages keep their document order. When two packages provide the
// same module the later one wins and keeps the earlier one's position; see
// Index.Replaced.
func Parse(data []byte) (*Index, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}

	doc := gjson.ParseBytes(data)
	packages := doc
	if doc.IsObject() {
		packages = doc.Get("packages")
	}
	if !packages.IsArray() {
		return nil, fmt.Errorf("expected a list of packages")
	}

	idx := NewIndex()
	var errs []string
	packages.ForEach(func(_, pkg gjson.Result) bool {
		e, ok := entryFromPackage(pkg)
		if !ok {
			return true
		}
		if err := idx.Put(e); err != nil {
			errs = append(errs, err.Error())
		}
		return true
	})

	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return idx, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("installed packages validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func entryFromPackage(pkg gjson.Result) (Entry, bool) {
	switch pkg.Get("type").String() {
	case TypePHPExt, TypePHPExtZend:
	default:
		return Entry{}, false
	}

	name := pkg.Get("name").String()
	e := Entry{
		ModuleName:  ModuleName(name, pkg.Get("php-ext.extension-name").String()),
		PackageName: name,
		Version:     pkg.Get("version").String(),
	}

	extra := pkg.Get("extra")
	e.ExpectedBinary = expectedBinary(
		extra.Get(KeyInstalledBinary).String(),
		extra.Get(KeyBinaryChecksum).String(),
		extra.Get(KeyChecksumAlgorithm).String(),
	)

	return e, true
}

// expectedBinary returns nil unless both path and a checksum in a recognised
// algorithm were recorded.
func expectedBinary(path, checksum, algorithm string) *binary.Descriptor {
	if path == "" {
		return nil
	}
	sum, ok := binary.ParseRecordedChecksum(checksum, algorithm)
	if !ok {
		return nil
	}
	d := binary.FromRecorded(path, sum)
	return &d
}

// ModuleName derives the extension name for a package. An explicit
// php-ext.extension-name wins; otherwise the part after the vendor slash is
// used. A leading "ext-" is dropped in both cases.
func ModuleName(packageName, extensionName string) string {
	name := extensionName
	if name == "" {
		name = packageName
		if i := strings.LastIndex(name, "/"); i >= 0 {
			name = name[i+1:]
		}
	}
	return strings.TrimPrefix(name, "ext-")
}
