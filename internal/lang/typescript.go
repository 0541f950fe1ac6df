package lang

// typeScriptSpec is shared by the .ts and .tsx registrations; the grammars
// differ but the node-type vocabulary is the same.
func typeScriptSpec(language Language, extensions []string) *LanguageSpec {
	return &LanguageSpec{
		Language:       language,
		FileExtensions: extensions,
		FunctionNodeTypes: []string{
			"function_declaration",
			"generator_function_declaration",
			"function_expression",
			"arrow_function",
			"function_signature",
		},
		MethodNodeTypes:    []string{"method_definition", "method_signature"},
		ClassNodeTypes:     []string{"class_declaration", "class", "abstract_class_declaration"},
		InterfaceNodeTypes: []string{"interface_declaration"},
		EnumNodeTypes:      []string{"enum_declaration"},
		NamespaceNodeTypes: []string{"internal_module", "module"},
		TypeNodeTypes:      []string{"type_alias_declaration"},
		VariableNodeTypes:  []string{"variable_declarator"},
		PropertyNodeTypes:  []string{"public_field_definition"},
		ClassBodyNodeTypes: []string{"class_body"},
		MethodContainerNodeTypes: []string{
			"class_declaration", "class", "abstract_class_declaration",
		},
		ExportNodeTypes: []string{"export_statement"},
		CallNodeTypes:   []string{"call_expression", "new_expression"},
		ImportNodeTypes: []string{"import_statement"},
		ExtendsNodeTypes: []string{
			"class_heritage", "extends_clause", "implements_clause",
			"extends_type_clause",
		},
		CommentNodeTypes: []string{"comment"},
	}
}

func init() {
	Register(typeScriptSpec(TypeScript, []string{".ts", ".mts", ".cts"}))
	Register(typeScriptSpec(TSX, []string{".tsx"}))
}
