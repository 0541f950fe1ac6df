package lang

func init() {
	Register(&LanguageSpec{
		Language:                 Python,
		FileExtensions:           []string{".py", ".pyi"},
		FunctionNodeTypes:        []string{"function_definition"},
		ClassNodeTypes:           []string{"class_definition"},
		DecoratorNodeTypes:       []string{"decorator"},
		ClassBodyNodeTypes:       []string{"block"},
		MethodContainerNodeTypes: []string{"class_definition"},
		CallNodeTypes:            []string{"call"},
		ImportNodeTypes:          []string{"import_statement", "import_from_statement"},
		ExtendsNodeTypes:         []string{"argument_list"},
		CommentNodeTypes:         []string{"comment"},
	})
}
