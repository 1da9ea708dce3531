package engine

import (
	"sort"

	"github.com/bianoble/pie-audit/internal/installed"
	"github.com/bianoble/pie-audit/internal/phpruntime"
)

// Sorted returns a copy of r with every sequence ordered by module name.
// Reconcile itself keeps source order; display code that wants a stable
// alphabetical listing calls this explicitly.
func (r *Result) Sorted() *Result {
	out := &Result{
		Matched:            append([]Match(nil), r.Matched...),
		UnmanagedLoaded:    append([]phpruntime.Entry(nil), r.UnmanagedLoaded...),
		InstalledNotLoaded: append([]installed.Entry(nil), r.InstalledNotLoaded...),
	}

	sort.SliceStable(out.Matched, func(i, j int) bool {
		return out.Matched[i].Runtime.ModuleName < out.Matched[j].Runtime.ModuleName
	})
	sort.SliceStable(out.UnmanagedLoaded, func(i, j int) bool {
		return out.UnmanagedLoaded[i].ModuleName < out.UnmanagedLoaded[j].ModuleName
	})
	sort.SliceStable(out.InstalledNotLoaded, func(i, j int) bool {
		return out.InstalledNotLoaded[i].ModuleName < out.InstalledNotLoaded[j].ModuleName
	})

	return out
}
