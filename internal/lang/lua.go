package lang

func init() {
	Register(&LanguageSpec{
		Language:          Lua,
		FileExtensions:    []string{".lua"},
		FunctionNodeTypes: []string{"function_declaration", "function_definition"},
		CallNodeTypes:     []string{"function_call"},
		CommentNodeTypes:  []string{"comment"},
	})
}
