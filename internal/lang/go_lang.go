package lang

func init() {
	Register(&LanguageSpec{
		Language:          Go,
		FileExtensions:    []string{".go"},
		FunctionNodeTypes: []string{"function_declaration"},
		MethodNodeTypes:   []string{"method_declaration"},
		TypeNodeTypes:     []string{"type_spec", "type_alias"},
		VariableNodeTypes: []string{"var_spec", "const_spec"},
		CallNodeTypes:     []string{"call_expression"},
		ImportNodeTypes:   []string{"import_declaration"},
		CommentNodeTypes:  []string{"comment"},
	})
}
