package lang

func init() {
	Register(&LanguageSpec{
		Language:       JavaScript,
		FileExtensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		FunctionNodeTypes: []string{
			"function_declaration",
			"generator_function_declaration",
			"function_expression",
			"arrow_function",
		},
		MethodNodeTypes:          []string{"method_definition"},
		ClassNodeTypes:           []string{"class_declaration", "class"},
		VariableNodeTypes:        []string{"variable_declarator"},
		ClassBodyNodeTypes:       []string{"class_body"},
		MethodContainerNodeTypes: []string{"class_declaration", "class"},
		ExportNodeTypes:          []string{"export_statement"},
		CallNodeTypes:            []string{"call_expression", "new_expression"},
		ImportNodeTypes:          []string{"import_statement"},
		ExtendsNodeTypes:         []string{"class_heritage"},
		CommentNodeTypes:         []string{"comment"},
	})
}
