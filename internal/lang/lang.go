package lang

import "github.com/codexray/codexray/internal/graph"

// Language names a supported programming language.
type Language string

const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	Go         Language = "go"
	Rust       Language = "rust"
	Java       Language = "java"
	C          Language = "c"
	CPP        Language = "cpp"
	CSharp     Language = "c-sharp"
	PHP        Language = "php"
	Ruby       Language = "ruby"
	Kotlin     Language = "kotlin"
	Scala      Language = "scala"
	Lua        Language = "lua"
)

// AllLanguages returns all registered languages.
func AllLanguages() []Language {
	return []Language{
		Python, JavaScript, TypeScript, TSX, Go, Rust, Java, C, CPP,
		CSharp, PHP, Ruby, Kotlin, Scala, Lua,
	}
}

// LanguageSpec defines the tree-sitter node types the extractor classifies
// against for one language. Empty sets mean the language has no such
// construct (or it is not extracted).
type LanguageSpec struct {
	Language       Language
	FileExtensions []string

	FunctionNodeTypes  []string
	MethodNodeTypes    []string
	ClassNodeTypes     []string
	StructNodeTypes    []string
	InterfaceNodeTypes []string
	EnumNodeTypes      []string
	NamespaceNodeTypes []string
	TraitNodeTypes     []string
	TypeNodeTypes      []string
	VariableNodeTypes  []string
	DecoratorNodeTypes []string
	PropertyNodeTypes  []string

	// ClassBodyNodeTypes are body wrappers whose functions are methods when
	// the wrapper's parent is in MethodContainerNodeTypes.
	ClassBodyNodeTypes       []string
	MethodContainerNodeTypes []string

	// ExportNodeTypes are wrapper nodes that mark their children exported.
	ExportNodeTypes []string

	CallNodeTypes    []string
	ImportNodeTypes  []string
	ExtendsNodeTypes []string
	CommentNodeTypes []string

	kindIndex map[string]graph.NodeKind
}

// registry maps file extensions to language specs.
var registry = map[string]*LanguageSpec{}

// Register adds a LanguageSpec to the global registry and builds its
// node-type -> kind index.
func Register(spec *LanguageSpec) {
	spec.kindIndex = make(map[string]graph.NodeKind)
	index := func(types []string, kind graph.NodeKind) {
		for _, t := range types {
			spec.kindIndex[t] = kind
		}
	}
	index(spec.FunctionNodeTypes, graph.KindFunction)
	index(spec.MethodNodeTypes, graph.KindMethod)
	index(spec.ClassNodeTypes, graph.KindClass)
	index(spec.StructNodeTypes, graph.KindStruct)
	index(spec.InterfaceNodeTypes, graph.KindInterface)
	index(spec.EnumNodeTypes, graph.KindEnum)
	index(spec.NamespaceNodeTypes, graph.KindNamespace)
	index(spec.TraitNodeTypes, graph.KindTrait)
	index(spec.TypeNodeTypes, graph.KindType)
	index(spec.VariableNodeTypes, graph.KindVariable)
	index(spec.DecoratorNodeTypes, graph.KindDecorator)
	index(spec.PropertyNodeTypes, graph.KindProperty)

	for _, ext := range spec.FileExtensions {
		registry[ext] = spec
	}
}

// ForExtension returns the LanguageSpec for a file extension (e.g. ".go"),
// or nil when the extension is not recognized.
func ForExtension(ext string) *LanguageSpec {
	return registry[ext]
}

// ForLanguage returns the LanguageSpec for a language.
func ForLanguage(l Language) *LanguageSpec {
	for _, spec := range registry {
		if spec.Language == l {
			return spec
		}
	}
	return nil
}

// LanguageForExtension returns the Language for a file extension.
func LanguageForExtension(ext string) (Language, bool) {
	spec := registry[ext]
	if spec == nil {
		return "", false
	}
	return spec.Language, true
}

// KindFor classifies a syntax-node type, reporting false for non-symbols.
func (s *LanguageSpec) KindFor(nodeType string) (graph.NodeKind, bool) {
	k, ok := s.kindIndex[nodeType]
	return k, ok
}

// contains is a small membership helper for node-type sets.
func contains(set []string, t string) bool {
	for _, s := range set {
		if s == t {
			return true
		}
	}
	return false
}

// IsClassBody reports whether a node type wraps class members.
func (s *LanguageSpec) IsClassBody(t string) bool { return contains(s.ClassBodyNodeTypes, t) }

// IsMethodContainer reports whether a node type hosts methods (class, impl,
// trait, object blocks).
func (s *LanguageSpec) IsMethodContainer(t string) bool {
	return contains(s.MethodContainerNodeTypes, t)
}

// IsExportWrapper reports whether a node type marks its children exported.
func (s *LanguageSpec) IsExportWrapper(t string) bool { return contains(s.ExportNodeTypes, t) }

// IsCall reports whether a node type is call-like.
func (s *LanguageSpec) IsCall(t string) bool { return contains(s.CallNodeTypes, t) }

// IsImport reports whether a node type is an import-like statement.
func (s *LanguageSpec) IsImport(t string) bool { return contains(s.ImportNodeTypes, t) }

// IsExtendsClause reports whether a node type is an extends/implements clause.
func (s *LanguageSpec) IsExtendsClause(t string) bool { return contains(s.ExtendsNodeTypes, t) }

// IsComment reports whether a node type is comment-like.
func (s *LanguageSpec) IsComment(t string) bool { return contains(s.CommentNodeTypes, t) }
