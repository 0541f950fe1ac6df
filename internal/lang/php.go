package lang

func init() {
	Register(&LanguageSpec{
		Language:                 PHP,
		FileExtensions:           []string{".php"},
		FunctionNodeTypes:        []string{"function_definition"},
		MethodNodeTypes:          []string{"method_declaration"},
		ClassNodeTypes:           []string{"class_declaration"},
		InterfaceNodeTypes:       []string{"interface_declaration"},
		EnumNodeTypes:            []string{"enum_declaration"},
		TraitNodeTypes:           []string{"trait_declaration"},
		ClassBodyNodeTypes:       []string{"declaration_list"},
		MethodContainerNodeTypes: []string{"class_declaration", "trait_declaration", "interface_declaration"},
		CallNodeTypes: []string{
			"function_call_expression",
			"member_call_expression",
			"object_creation_expression",
			"scoped_call_expression",
		},
		ImportNodeTypes:  []string{"namespace_use_declaration"},
		ExtendsNodeTypes: []string{"base_clause", "class_interface_clause"},
		CommentNodeTypes: []string{"comment"},
	})
}
