package token

import "testing"

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected Type
	}{
		// Keywords
		{"fn", FN},
		{"let", LET},
		{"mut", MUT},
		{"const", CONST},
		{"true", TRUE},
		{"false", FALSE},
		{"if", IF},
		{"else", ELSE},
		{"return", RETURN},
		{"component", COMPONENT},
		{"shader", SHADER},
		{"actor", ACTOR},
		{"spawn", SPAWN},
		{"send", SEND},
		{"receive", RECEIVE},
		{"comptime", COMPTIME},
		{"macro", MACRO},
		{"test", TEST},
		{"await", AWAIT},
		{"async", ASYNC},
		// Non-keywords
		{"variable", IDENT},
		{"Task", IDENT},
		{"userId", IDENT},
		{"foo_bar", IDENT},
		{"", IDENT},
		{"unknown", IDENT},
	}

	for _, tt := range tests {
		result := LookupIdent(tt.input)
		if result != tt.expected {
			t.Errorf("LookupIdent(%q) = %v, want %v", tt.input, result, tt.expected)
		}
	}
}

func TestIsEffectName(t *testing.T) {
	for _, e := range []string{"Pure", "IO", "Async", "GPU", "Reactive", "Unsafe", "Alloc", "Panic"} {
		if !IsEffectName(e) {
			t.Errorf("IsEffectName(%q) = false, want true", e)
		}
	}
	if IsEffectName("Bogus") {
		t.Errorf("IsEffectName(%q) = true, want false", "Bogus")
	}
}
