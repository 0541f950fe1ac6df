package parser

import (
	"testing"

	"github.com/codexray/codexray/internal/lang"
)

func TestParseTypeScript(t *testing.T) {
	source := []byte("function hello() { return 1; }\n")
	tree, err := Parse(lang.TypeScript, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		t.Fatal("nil root node")
	}
	if root.Kind() != "program" {
		t.Errorf("expected program root, got %s", root.Kind())
	}
	if root.ChildCount() == 0 {
		t.Error("expected children")
	}
}

func TestParseAllLanguages(t *testing.T) {
	sources := map[lang.Language]string{
		lang.Python:     "def f():\n    pass\n",
		lang.JavaScript: "function f() {}\n",
		lang.TypeScript: "function f(): void {}\n",
		lang.TSX:        "function App() { return <div/>; }\n",
		lang.Go:         "package p\n\nfunc f() {}\n",
		lang.Rust:       "fn f() {}\n",
		lang.Java:       "class A { void f() {} }\n",
		lang.C:          "int f(void) { return 0; }\n",
		lang.CPP:        "int f() { return 0; }\n",
		lang.CSharp:     "class A { void F() {} }\n",
		lang.PHP:        "<?php function f() {} ?>\n",
		lang.Ruby:       "def f\nend\n",
		lang.Kotlin:     "fun f() {}\n",
		lang.Scala:      "object A { def f(): Unit = {} }\n",
		lang.Lua:        "function f() end\n",
	}
	for l, src := range sources {
		l, src := l, src
		t.Run(string(l), func(t *testing.T) {
			tree, err := Parse(l, []byte(src))
			if err != nil {
				t.Fatalf("Parse(%s): %v", l, err)
			}
			defer tree.Close()
			if tree.RootNode() == nil {
				t.Fatal("nil root")
			}
		})
	}
}

func TestParseUnsupportedLanguage(t *testing.T) {
	if _, err := Parse(lang.Language("brainfuck"), []byte("+")); err == nil {
		t.Error("expected error for unsupported language")
	}
}

func TestNodeText(t *testing.T) {
	source := []byte("function hello() {}\n")
	tree, err := Parse(lang.TypeScript, source)
	if err != nil {
		t.Fatal(err)
	}
	defer tree.Close()
	if got := NodeText(tree.RootNode(), source); got != string(source) {
		t.Errorf("NodeText(root) = %q", got)
	}
}
