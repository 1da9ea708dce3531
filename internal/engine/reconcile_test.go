package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bianoble/pie-audit/internal/binary"
	"github.com/bianoble/pie-audit/internal/installed"
	"github.com/bianoble/pie-audit/internal/phpruntime"
)

func sha256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func runtimeIndex(t *testing.T, pairs ...string) *phpruntime.Index {
	t.Helper()
	idx := phpruntime.NewIndex()
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := idx.Add(phpruntime.Entry{ModuleName: pairs[i], ReportedVersion: pairs[i+1]}); err != nil {
			t.Fatal(err)
		}
	}
	return idx
}

func installedIndex(t *testing.T, entries ...installed.Entry) *installed.Index {
	t.Helper()
	idx := installed.NewIndex()
	for _, e := range entries {
		if err := idx.Add(e); err != nil {
			t.Fatal(err)
		}
	}
	return idx
}

func recorded(path, checksum string) *binary.Descriptor {
	d := binary.FromRecorded(path, checksum)
	return &d
}

func writeBinary(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReconcileUnmanagedOnly(t *testing.T) {
	r := &Reconciler{}
	result := r.Reconcile(runtimeIndex(t, "json", "8.1"), installed.NewIndex(), t.TempDir(), ".so")

	if len(result.Matched) != 0 {
		t.Errorf("matched = %d, want 0", len(result.Matched))
	}
	want := []phpruntime.Entry{{ModuleName: "json", ReportedVersion: "8.1"}}
	if !reflect.DeepEqual(result.UnmanagedLoaded, want) {
		t.Errorf("unmanaged = %+v, want %+v", result.UnmanagedLoaded, want)
	}
	if len(result.InstalledNotLoaded) != 0 {
		t.Errorf("installed-not-loaded = %d, want 0", len(result.InstalledNotLoaded))
	}
}

func TestReconcileInstalledNotLoaded(t *testing.T) {
	xdebug := installed.Entry{ModuleName: "xdebug", PackageName: "xdebug/xdebug", Version: "3.2"}

	r := &Reconciler{}
	result := r.Reconcile(phpruntime.NewIndex(), installedIndex(t, xdebug), t.TempDir(), ".so")

	if len(result.Matched) != 0 || len(result.UnmanagedLoaded) != 0 {
		t.Errorf("result = %+v, want only installed-not-loaded", result)
	}
	if len(result.InstalledNotLoaded) != 1 || result.InstalledNotLoaded[0].ModuleName != "xdebug" {
		t.Errorf("installed-not-loaded = %+v", result.InstalledNotLoaded)
	}
}

func TestReconcileVerified(t *testing.T) {
	dir := t.TempDir()
	content := "\x7fELF xdebug build"
	path := writeBinary(t, dir, "xdebug.so", content)

	pkg := installed.Entry{
		ModuleName:     "xdebug",
		PackageName:    "xdebug/xdebug",
		Version:        "3.2.0",
		ExpectedBinary: recorded(path, sha256Hex([]byte(content))),
	}

	r := &Reconciler{}
	result := r.Reconcile(runtimeIndex(t, "xdebug", "3.2"), installedIndex(t, pkg), dir, ".so")

	if len(result.Matched) != 1 {
		t.Fatalf("matched = %d, want 1", len(result.Matched))
	}
	m := result.Matched[0]
	if m.Status != Verified {
		t.Errorf("status = %s, want verified", m.Status)
	}
	if m.Mismatch != nil {
		t.Errorf("mismatch = %+v, want nil", m.Mismatch)
	}
	if m.ConventionalPath != path {
		t.Errorf("conventional path = %q, want %q", m.ConventionalPath, path)
	}
}

func TestReconcileChecksumMismatch(t *testing.T) {
	dir := t.TempDir()
	path := writeBinary(t, dir, "xdebug.so", "tampered")
	recordedSum := sha256Hex([]byte("original"))

	pkg := installed.Entry{ModuleName: "xdebug", PackageName: "xdebug/xdebug", ExpectedBinary: recorded(path, recordedSum)}

	r := &Reconciler{}
	result := r.Reconcile(runtimeIndex(t, "xdebug", "3.2"), installedIndex(t, pkg), dir, ".so")

	m := result.Matched[0]
	if m.Status != ChecksumMismatch {
		t.Fatalf("status = %s, want checksum-mismatch", m.Status)
	}
	if m.Mismatch == nil {
		t.Fatal("mismatch detail missing")
	}
	if m.Mismatch.Expected != recordedSum {
		t.Errorf("expected = %q, want %q", m.Mismatch.Expected, recordedSum)
	}
	if m.Mismatch.Actual != sha256Hex([]byte("tampered")) {
		t.Errorf("actual = %q", m.Mismatch.Actual)
	}
}

func TestReconcileMissingFileIsNotVerifiable(t *testing.T) {
	dir := t.TempDir()
	pkg := installed.Entry{
		ModuleName:     "redis",
		PackageName:    "phpredis/phpredis",
		ExpectedBinary: recorded(filepath.Join(dir, "redis.so"), "abc"),
	}

	r := &Reconciler{}
	result := r.Reconcile(runtimeIndex(t, "redis", "6.0.2"), installedIndex(t, pkg), dir, ".so")

	if got := result.Matched[0].Status; got != NotVerifiable {
		t.Errorf("status = %s, want not-verifiable", got)
	}
}

func TestReconcileNoExpectedRecord(t *testing.T) {
	dir := t.TempDir()
	writeBinary(t, dir, "apcu.so", "apcu")
	pkg := installed.Entry{ModuleName: "apcu", PackageName: "apcu/apcu"}

	r := &Reconciler{}
	result := r.Reconcile(runtimeIndex(t, "apcu", "5.1"), installedIndex(t, pkg), dir, ".so")

	if got := result.Matched[0].Status; got != NoExpectedRecord {
		t.Errorf("status = %s, want no-expected-record", got)
	}
}

func TestReconcilePathMismatchDoesNotHash(t *testing.T) {
	dir := t.TempDir()
	writeBinary(t, dir, "apcu.so", "apcu")

	pkg := installed.Entry{
		ModuleName:     "apcu",
		PackageName:    "apcu/apcu",
		ExpectedBinary: recorded("/somewhere/else/apcu.so", "abc"),
	}

	hashed := 0
	r := &Reconciler{HashFile: func(path string) (binary.Descriptor, error) {
		hashed++
		return binary.FromFile(path)
	}}
	result := r.Reconcile(runtimeIndex(t, "apcu", "5.1"), installedIndex(t, pkg), dir, ".so")

	m := result.Matched[0]
	if m.Status != PathMismatch {
		t.Errorf("status = %s, want path-mismatch", m.Status)
	}
	if m.Mismatch != nil {
		t.Errorf("mismatch = %+v, want nil", m.Mismatch)
	}
	if hashed != 0 {
		t.Errorf("binary hashed %d time(s), want 0", hashed)
	}
}

func TestReconcileUnreadableBinaryDegrades(t *testing.T) {
	dir := t.TempDir()

	// A directory at the conventional path exists but cannot be hashed.
	path := filepath.Join(dir, "broken.so")
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatal(err)
	}
	good := writeBinary(t, dir, "good.so", "good")

	r := &Reconciler{}
	result := r.Reconcile(
		runtimeIndex(t, "broken", "1", "good", "1"),
		installedIndex(t,
			installed.Entry{ModuleName: "broken", PackageName: "v/broken", ExpectedBinary: recorded(path, "abc")},
			installed.Entry{ModuleName: "good", PackageName: "v/good", ExpectedBinary: recorded(good, sha256Hex([]byte("good")))},
		),
		dir, ".so",
	)

	if len(result.Matched) != 2 {
		t.Fatalf("matched = %d, want 2", len(result.Matched))
	}
	if got := result.Matched[0].Status; got != NotVerifiable {
		t.Errorf("broken status = %s, want not-verifiable", got)
	}
	if got := result.Matched[1].Status; got != Verified {
		t.Errorf("good status = %s, want verified", got)
	}
}

func TestReconcileTotalityAndOrder(t *testing.T) {
	dir := t.TempDir()

	rt := runtimeIndex(t,
		"Core", "8.3.1",
		"redis", "6.0.2",
		"json", "8.3.1",
		"apcu", "5.1.23",
	)
	inst := installedIndex(t,
		installed.Entry{ModuleName: "xdebug", PackageName: "xdebug/xdebug"},
		installed.Entry{ModuleName: "apcu", PackageName: "apcu/apcu"},
		installed.Entry{ModuleName: "redis", PackageName: "phpredis/phpredis"},
		installed.Entry{ModuleName: "mongodb", PackageName: "mongodb/mongodb-extension"},
	)

	r := &Reconciler{}
	result := r.Reconcile(rt, inst, dir, ".so")

	var matched, unmanaged, notLoaded []string
	for _, m := range result.Matched {
		matched = append(matched, m.Runtime.ModuleName)
	}
	for _, e := range result.UnmanagedLoaded {
		unmanaged = append(unmanaged, e.ModuleName)
	}
	for _, e := range result.InstalledNotLoaded {
		notLoaded = append(notLoaded, e.ModuleName)
	}

	if want := []string{"redis", "apcu"}; !reflect.DeepEqual(matched, want) {
		t.Errorf("matched = %v, want %v", matched, want)
	}
	if want := []string{"Core", "json"}; !reflect.DeepEqual(unmanaged, want) {
		t.Errorf("unmanaged = %v, want %v", unmanaged, want)
	}
	if want := []string{"xdebug", "mongodb"}; !reflect.DeepEqual(notLoaded, want) {
		t.Errorf("installed-not-loaded = %v, want %v", notLoaded, want)
	}

	if len(result.Matched)+len(result.UnmanagedLoaded) != rt.Len() {
		t.Error("every runtime module must appear exactly once")
	}
	if len(result.Matched)+len(result.InstalledNotLoaded) != inst.Len() {
		t.Error("every installed package must appear exactly once")
	}
}

func TestReconcileFileVanishesBeforeHash(t *testing.T) {
	dir := t.TempDir()
	path := writeBinary(t, dir, "xdebug.so", "x")
	pkg := installed.Entry{ModuleName: "xdebug", PackageName: "xdebug/xdebug", ExpectedBinary: recorded(path, sha256Hex([]byte("x")))}

	r := &Reconciler{HashFile: func(path string) (binary.Descriptor, error) {
		if err := os.Remove(path); err != nil {
			t.Fatal(err)
		}
		return binary.FromFile(path)
	}}
	result := r.Reconcile(runtimeIndex(t, "xdebug", "3.2"), installedIndex(t, pkg), dir, ".so")

	if got := result.Matched[0].Status; got != NotVerifiable {
		t.Errorf("status = %s, want not-verifiable", got)
	}
}

func TestReconcileDeterministic(t *testing.T) {
	dir := t.TempDir()
	a := writeBinary(t, dir, "a.so", "a")
	writeBinary(t, dir, "b.so", "b")

	rt := runtimeIndex(t, "a", "1", "b", "2", "c", "3")
	inst := installedIndex(t,
		installed.Entry{ModuleName: "a", PackageName: "v/a", ExpectedBinary: recorded(a, sha256Hex([]byte("a")))},
		installed.Entry{ModuleName: "b", PackageName: "v/b", ExpectedBinary: recorded(filepath.Join(dir, "b.so"), "0000")},
		installed.Entry{ModuleName: "d", PackageName: "v/d"},
	)

	r := &Reconciler{}
	first := r.Reconcile(rt, inst, dir, ".so")
	second := r.Reconcile(rt, inst, dir, ".so")

	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ:\n%+v\n%+v", first, second)
	}
}

func TestReconcileNilReceiverAndIndexes(t *testing.T) {
	var r *Reconciler
	result := r.Reconcile(nil, nil, "", ".so")
	if len(result.Matched)+len(result.UnmanagedLoaded)+len(result.InstalledNotLoaded) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}

	dir := t.TempDir()
	path := writeBinary(t, dir, "redis.so", "redis build")
	pkgs := installedIndex(t, installed.Entry{
		ModuleName:     "redis",
		PackageName:    "phpredis/phpredis",
		ExpectedBinary: recorded(path, sha256Hex([]byte("redis build"))),
	})

	result = r.Reconcile(runtimeIndex(t, "redis", "6.0.2"), pkgs, dir, ".so")
	if len(result.Matched) != 1 || result.Matched[0].Status != Verified {
		t.Errorf("matched = %+v, want one verified module", result.Matched)
	}
}

func TestConventionalPath(t *testing.T) {
	got := ConventionalPath(filepath.Join("usr", "lib", "php"), "xdebug", ".so")
	want := filepath.Join("usr", "lib", "php", "xdebug.so")
	if got != want {
		t.Errorf("ConventionalPath = %q, want %q", got, want)
	}
}
