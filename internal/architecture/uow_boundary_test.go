package architecture_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"testing"
)

var opNamePattern = regexp.MustCompile(`^[a-z_]+\.[a-z_]+$`)

type serviceMethod struct {
	recv     string
	name     string
	file     string
	runsUoW  bool
	helpers  []string
	opLabels []string
}

// TestServiceMethodsRunInsideUnitOfWork walks the services package and
// checks that every exported service method reaches runner.Run, either
// directly or through an unexported helper on the same receiver, and that
// operation labels are unique.
func TestServiceMethodsRunInsideUnitOfWork(t *testing.T) {
	root, _ := moduleRoot(t)
	dir := filepath.Join(root, "internal", "services")
	fset := token.NewFileSet()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read services dir: %v", err)
	}

	methods := map[string]*serviceMethod{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, 0)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		for _, decl := range f.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || fd.Body == nil || len(fd.Recv.List) == 0 {
				continue
			}
			m := inspectMethod(fd)
			if m == nil {
				continue
			}
			m.file = name
			methods[m.recv+"."+m.name] = m
		}
	}
	if len(methods) == 0 {
		t.Fatalf("no service methods found under %s", dir)
	}

	seen := map[string]string{}
	var keys []string
	for k := range methods {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		m := methods[key]
		if !ast.IsExported(m.name) || m.name == "Contract" {
			continue
		}
		if !reachesRunner(m, methods) {
			t.Fatalf("%s (%s) does not run inside a unit of work", key, m.file)
		}
		for _, label := range m.opLabels {
			if !opNamePattern.MatchString(label) {
				t.Fatalf("%s uses malformed op label %q", key, label)
			}
			if prev, dup := seen[label]; dup && prev != key {
				t.Fatalf("op label %q used by both %s and %s", label, prev, key)
			}
			seen[label] = key
		}
	}
}

func reachesRunner(m *serviceMethod, all map[string]*serviceMethod) bool {
	if m.runsUoW {
		return true
	}
	for _, h := range m.helpers {
		if helper, ok := all[m.recv+"."+h]; ok && helper.runsUoW {
			return true
		}
	}
	return false
}

func inspectMethod(fd *ast.FuncDecl) *serviceMethod {
	field := fd.Recv.List[0]
	if len(field.Names) == 0 {
		return nil
	}
	recvName := field.Names[0].Name
	star, ok := field.Type.(*ast.StarExpr)
	if !ok {
		return nil
	}
	recvType, ok := star.X.(*ast.Ident)
	if !ok {
		return nil
	}

	m := &serviceMethod{recv: recvType.Name, name: fd.Name.Name}
	ast.Inspect(fd.Body, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.ValueSpec:
			for i, id := range node.Names {
				if id.Name == "op" && i < len(node.Values) {
					if s, ok := stringLit(node.Values[i]); ok {
						m.opLabels = append(m.opLabels, s)
					}
				}
			}
		case *ast.CallExpr:
			sel, ok := node.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			if isRunnerRun(sel, recvName) {
				m.runsUoW = true
				if len(node.Args) > 1 {
					if s, ok := stringLit(node.Args[1]); ok {
						m.opLabels = append(m.opLabels, s)
					}
				}
				return true
			}
			if id, ok := sel.X.(*ast.Ident); ok && id.Name == recvName && !ast.IsExported(sel.Sel.Name) {
				m.helpers = append(m.helpers, sel.Sel.Name)
				for _, arg := range node.Args {
					if s, ok := stringLit(arg); ok && opNamePattern.MatchString(s) {
						m.opLabels = append(m.opLabels, s)
					}
				}
			}
		}
		return true
	})
	return m
}

func isRunnerRun(sel *ast.SelectorExpr, recvName string) bool {
	if sel.Sel.Name != "Run" {
		return false
	}
	inner, ok := sel.X.(*ast.SelectorExpr)
	if !ok || inner.Sel.Name != "runner" {
		return false
	}
	id, ok := inner.X.(*ast.Ident)
	return ok && id.Name == recvName
}

func stringLit(e ast.Expr) (string, bool) {
	lit, ok := e.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	return s, err == nil
}
