package token

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"authenticateUser", []string{"authenticate", "user"}},
		{"snake_case_name", []string{"snake", "case", "name"}},
		{"src/auth/login.ts", []string{"src", "auth", "login", "ts"}},
		{"HTMLParser", []string{"htmlparser"}}, // no lower->upper boundary inside HTML
		{"validateToken", []string{"validate", "token"}},
		{"x", nil},                     // too short
		{"the class of a function", nil}, // all stop words or short
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Tokenize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokenizeTwoCharKept(t *testing.T) {
	// "id" is length 2: kept (only length <= 1 is discarded). "by" passes
	// the length filter too but is dropped as a stop word, as is "get".
	got := Tokenize("get_user_by_id")
	want := []string{"user", "id"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeLengthBounds(t *testing.T) {
	long := strings.Repeat("a", 40)
	if got := Tokenize(long); got != nil {
		t.Errorf("expected 40-char token discarded, got %v", got)
	}
	ok := strings.Repeat("a", 39)
	if got := Tokenize(ok); len(got) != 1 {
		t.Errorf("expected 39-char token kept, got %v", got)
	}
}

func TestTokenizeIdempotent(t *testing.T) {
	inputs := []string{
		"authenticateUser password check",
		"src/components/UserProfile.tsx",
		"handle_http_request",
	}
	for _, in := range inputs {
		once := Tokenize(in)
		twice := Tokenize(strings.Join(once, " "))
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("tokenizing twice diverged for %q: %v vs %v", in, once, twice)
		}
	}
}

func TestTokenizeQueryDropsTaskVerbs(t *testing.T) {
	got := TokenizeQuery("fix the token refresh logic")
	want := []string{"token", "refresh", "logic"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TokenizeQuery = %v, want %v", got, want)
	}
	// The plain tokenizer keeps task verbs.
	if got := Tokenize("fix bug"); !reflect.DeepEqual(got, []string{"fix", "bug"}) {
		t.Errorf("Tokenize should keep task verbs, got %v", got)
	}
}
