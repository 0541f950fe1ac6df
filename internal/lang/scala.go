package lang

func init() {
	Register(&LanguageSpec{
		Language:                 Scala,
		FileExtensions:           []string{".scala", ".sc"},
		FunctionNodeTypes:        []string{"function_definition", "function_declaration"},
		ClassNodeTypes:           []string{"class_definition"},
		TraitNodeTypes:           []string{"trait_definition"},
		EnumNodeTypes:            []string{"enum_definition"},
		NamespaceNodeTypes:       []string{"object_definition"},
		TypeNodeTypes:            []string{"type_definition"},
		ClassBodyNodeTypes:       []string{"template_body"},
		MethodContainerNodeTypes: []string{"class_definition", "trait_definition", "object_definition"},
		CallNodeTypes:            []string{"call_expression"},
		ImportNodeTypes:          []string{"import_declaration"},
		ExtendsNodeTypes:         []string{"extends_clause"},
		CommentNodeTypes:         []string{"comment", "block_comment"},
	})
}
