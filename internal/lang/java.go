package lang

func init() {
	Register(&LanguageSpec{
		Language:                 Java,
		FileExtensions:           []string{".java"},
		MethodNodeTypes:          []string{"method_declaration", "constructor_declaration"},
		ClassNodeTypes:           []string{"class_declaration"},
		InterfaceNodeTypes:       []string{"interface_declaration"},
		EnumNodeTypes:            []string{"enum_declaration"},
		DecoratorNodeTypes:       []string{"annotation_type_declaration"},
		ClassBodyNodeTypes:       []string{"class_body", "enum_body", "interface_body"},
		MethodContainerNodeTypes: []string{"class_declaration", "enum_declaration", "interface_declaration"},
		CallNodeTypes:            []string{"method_invocation", "object_creation_expression"},
		ImportNodeTypes:          []string{"import_declaration"},
		ExtendsNodeTypes:         []string{"superclass", "super_interfaces", "extends_interfaces"},
		CommentNodeTypes:         []string{"line_comment", "block_comment"},
	})
}
