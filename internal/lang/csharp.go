package lang

func init() {
	Register(&LanguageSpec{
		Language:                 CSharp,
		FileExtensions:           []string{".cs"},
		MethodNodeTypes:          []string{"method_declaration", "constructor_declaration"},
		ClassNodeTypes:           []string{"class_declaration"},
		StructNodeTypes:          []string{"struct_declaration"},
		InterfaceNodeTypes:       []string{"interface_declaration"},
		EnumNodeTypes:            []string{"enum_declaration"},
		NamespaceNodeTypes:       []string{"namespace_declaration", "file_scoped_namespace_declaration"},
		PropertyNodeTypes:        []string{"property_declaration"},
		ClassBodyNodeTypes:       []string{"declaration_list"},
		MethodContainerNodeTypes: []string{"class_declaration", "struct_declaration", "interface_declaration"},
		CallNodeTypes:            []string{"invocation_expression", "object_creation_expression"},
		ImportNodeTypes:          []string{"using_directive"},
		ExtendsNodeTypes:         []string{"base_list"},
		CommentNodeTypes:         []string{"comment"},
	})
}
