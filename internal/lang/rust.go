package lang

func init() {
	Register(&LanguageSpec{
		Language:                 Rust,
		FileExtensions:           []string{".rs"},
		FunctionNodeTypes:        []string{"function_item", "function_signature_item"},
		StructNodeTypes:          []string{"struct_item"},
		EnumNodeTypes:            []string{"enum_item"},
		TraitNodeTypes:           []string{"trait_item"},
		NamespaceNodeTypes:       []string{"mod_item"},
		TypeNodeTypes:            []string{"type_item"},
		VariableNodeTypes:        []string{"const_item", "static_item"},
		ClassBodyNodeTypes:       []string{"declaration_list"},
		MethodContainerNodeTypes: []string{"impl_item", "trait_item"},
		CallNodeTypes:            []string{"call_expression"},
		ImportNodeTypes:          []string{"use_declaration"},
		CommentNodeTypes:         []string{"line_comment", "block_comment", "doc_comment"},
	})
}
