package quill

import (
	"path/filepath"
	"testing"
)

func Test_ResolveSpec_Package_Identifiers(t *testing.T) {
	ref := NewModule(NewSource("").WithPath("/proj/main.ql"))

	got, err := ResolveSpec(ref, `"mathx"`, "/proj/deps")
	if err != nil {
		t.Fatalf("ResolveSpec: %v", err)
	}
	if want := filepath.Join("/proj/deps", "mathx", "lib.ql"); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}

	got, err = ResolveSpec(ref, "mathx::ops::extra", "/proj/deps")
	if err != nil {
		t.Fatalf("ResolveSpec: %v", err)
	}
	if want := filepath.Join("/proj/deps", "mathx", "ops", "extra.ql"); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func Test_ResolveSpec_Relative_Path(t *testing.T) {
	ref := NewModule(NewSource("").WithPath("/proj/src/main.ql"))

	got, err := ResolveSpec(ref, `"./util.ql"`, "/proj/deps")
	if err != nil {
		t.Fatalf("ResolveSpec: %v", err)
	}
	if want := filepath.Join("/proj/src", "util.ql"); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}

	got, err = ResolveSpec(ref, "../lib/helpers.ql", "/proj/deps")
	if err != nil {
		t.Fatalf("ResolveSpec: %v", err)
	}
	if want := filepath.Join("/proj/lib", "helpers.ql"); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func Test_ResolveSpec_Absolute_Path(t *testing.T) {
	ref := NewModule(NewSource("").WithPath("/proj/main.ql"))
	got, err := ResolveSpec(ref, "/elsewhere/lib.ql", "/proj/deps")
	if err != nil {
		t.Fatalf("ResolveSpec: %v", err)
	}
	if got != "/elsewhere/lib.ql" {
		t.Fatalf("want %q, got %q", "/elsewhere/lib.ql", got)
	}
}

func Test_ResolveSpec_Empty(t *testing.T) {
	ref := NewModule(NewSource("").WithPath("/proj/main.ql"))
	if _, err := ResolveSpec(ref, `""`, "/proj/deps"); err == nil {
		t.Fatalf("expected error for empty specifier")
	}
}

func Test_FsLoader_Caches_By_Canonical_Path(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.ql", "pub fn f() -> int { return 1 }")
	ref := NewModule(NewSource("").WithPath(filepath.Join(dir, "main.ql")))

	loader := NewFsLoader(filepath.Join(dir, "deps"))
	a, err := loader.Load(ref, "./lib.ql")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// A different spelling of the same file must share the Module.
	b, err := loader.Load(ref, "lib.ql")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a != b {
		t.Fatalf("want one shared module instance, got two")
	}
}

func Test_FsLoader_Missing_File(t *testing.T) {
	dir := t.TempDir()
	ref := NewModule(NewSource("").WithPath(filepath.Join(dir, "main.ql")))
	loader := NewFsLoader(filepath.Join(dir, "deps"))
	if _, err := loader.Load(ref, "./ghost.ql"); err == nil {
		t.Fatalf("expected error loading a missing file")
	}
}

func Test_StripQuotes(t *testing.T) {
	if got := stripQuotes(`"abc"`); got != "abc" {
		t.Fatalf("want %q, got %q", "abc", got)
	}
	if got := stripQuotes("abc"); got != "abc" {
		t.Fatalf("want %q, got %q", "abc", got)
	}
	if got := stripQuotes(`"`); got != `"` {
		t.Fatalf("want %q, got %q", `"`, got)
	}
}

func Test_PackageIdent_Detection(t *testing.T) {
	idents := []string{"std", "std::io", "a_b::c1", "_priv"}
	for _, s := range idents {
		if !packageIdentRe.MatchString(s) {
			t.Fatalf("%q should be a package identifier", s)
		}
	}
	paths := []string{"./lib.ql", "../x.ql", "a/b", "lib.ql", "a::", "::a", ""}
	for _, s := range paths {
		if packageIdentRe.MatchString(s) {
			t.Fatalf("%q should not be a package identifier", s)
		}
	}
}

func Test_Source_Lines(t *testing.T) {
	src := NewSource("a\nb\nc")
	lines := src.Lines()
	if len(lines) != 3 || lines[1] != "b" {
		t.Fatalf("want 3 lines with %q second, got %v", "b", lines)
	}
}
