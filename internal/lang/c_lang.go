package lang

func init() {
	Register(&LanguageSpec{
		Language:          C,
		FileExtensions:    []string{".c", ".h"},
		FunctionNodeTypes: []string{"function_definition"},
		StructNodeTypes:   []string{"struct_specifier"},
		EnumNodeTypes:     []string{"enum_specifier"},
		TypeNodeTypes:     []string{"type_definition"},
		CallNodeTypes:     []string{"call_expression"},
		ImportNodeTypes:   []string{"preproc_include"},
		CommentNodeTypes:  []string{"comment"},
	})
}
