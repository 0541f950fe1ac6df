package lang

func init() {
	Register(&LanguageSpec{
		Language:                 CPP,
		FileExtensions:           []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		FunctionNodeTypes:        []string{"function_definition"},
		ClassNodeTypes:           []string{"class_specifier"},
		StructNodeTypes:          []string{"struct_specifier"},
		EnumNodeTypes:            []string{"enum_specifier"},
		NamespaceNodeTypes:       []string{"namespace_definition"},
		TypeNodeTypes:            []string{"type_definition", "alias_declaration"},
		ClassBodyNodeTypes:       []string{"field_declaration_list"},
		MethodContainerNodeTypes: []string{"class_specifier", "struct_specifier"},
		CallNodeTypes:            []string{"call_expression"},
		ImportNodeTypes:          []string{"preproc_include"},
		ExtendsNodeTypes:         []string{"base_class_clause"},
		CommentNodeTypes:         []string{"comment"},
	})
}
