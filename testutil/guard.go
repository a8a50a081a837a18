// Package testutil provides helpers that keep package boundaries honest: the
// scenario model stays free of internal packages and storage drivers.
package testutil

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
)

// ImportRule reports whether an import path is forbidden.
type ImportRule func(importPath string) bool

// InternalImportForbidden matches any path with an internal/ element.
func InternalImportForbidden(path string) bool {
	return strings.Contains(path, "/internal/")
}

// InfraImportForbidden matches the concrete drivers under internal/infra.
func InfraImportForbidden(path string) bool {
	return strings.Contains(path, "/internal/infra/")
}

// CloudImportForbidden matches the AWS SDK and database drivers, none of which the
// document model may pull in.
func CloudImportForbidden(path string) bool {
	return strings.HasPrefix(path, "github.com/aws/") ||
		strings.HasPrefix(path, "github.com/jackc/") ||
		strings.HasPrefix(path, "modernc.org/sqlite")
}

type fatalf interface {
	Helper()
	Fatalf(format string, args ...any)
}

// AssertNoDirectImports fails t when a non-test .go file in dir imports a path
// matched by rule. Build tags are ignored.
func AssertNoDirectImports(t testing.TB, dir string, rule ImportRule, reason string) {
	t.Helper()
	assertNoDirectImports(t, dir, rule, reason)
}

func assertNoDirectImports(t fatalf, dir string, rule ImportRule, reason string) {
	t.Helper()
	found, err := ImportViolations(dir, rule)
	if err != nil {
		t.Fatalf("scan %s: %v", dir, err)
		return
	}
	if len(found) > 0 {
		t.Fatalf("forbidden imports (%s):\n%s", reason, strings.Join(found, "\n"))
	}
}

// ImportViolations lists "file: import" pairs in dir matched by rule, sorted.
func ImportViolations(dir string, rule ImportRule) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	var found []string
	for _, path := range files {
		name := filepath.Base(path)
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		if st, err := os.Stat(path); err != nil || st.IsDir() {
			continue
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return nil, err
		}
		for _, imp := range f.Imports {
			ip, err := strconv.Unquote(imp.Path.Value)
			if err != nil {
				return nil, err
			}
			if rule(ip) {
				found = append(found, name+": "+ip)
			}
		}
	}
	sort.Strings(found)
	return found, nil
}
