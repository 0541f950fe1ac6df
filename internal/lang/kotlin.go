package lang

func init() {
	Register(&LanguageSpec{
		Language:                 Kotlin,
		FileExtensions:           []string{".kt", ".kts"},
		FunctionNodeTypes:        []string{"function_declaration"},
		ClassNodeTypes:           []string{"class_declaration", "object_declaration"},
		ClassBodyNodeTypes:       []string{"class_body"},
		MethodContainerNodeTypes: []string{"class_declaration", "object_declaration"},
		CallNodeTypes:            []string{"call_expression"},
		ImportNodeTypes:          []string{"import_header"},
		ExtendsNodeTypes:         []string{"delegation_specifier"},
		CommentNodeTypes:         []string{"line_comment", "multiline_comment"},
	})
}
