package lang

func init() {
	Register(&LanguageSpec{
		Language:                 Ruby,
		FileExtensions:           []string{".rb", ".rake"},
		FunctionNodeTypes:        []string{"method", "singleton_method"},
		ClassNodeTypes:           []string{"class"},
		NamespaceNodeTypes:       []string{"module"},
		ClassBodyNodeTypes:       []string{"body_statement"},
		MethodContainerNodeTypes: []string{"class", "module"},
		CallNodeTypes:            []string{"call"},
		ExtendsNodeTypes:         []string{"superclass"},
		CommentNodeTypes:         []string{"comment"},
	})
}
