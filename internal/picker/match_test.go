package picker

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		term     string
		input    string
		expected bool
	}{
		{"empty term", "", "anything", true},
		{"empty term empty name", "", "", true},
		{"exact", "beta", "beta", true},
		{"subsequence", "bt", "beta", true},
		{"not in alpha", "bt", "alpha", false},
		{"order matters", "tb", "beta", false},
		{"adjacent", "et", "beta", true},
		{"anywhere", "ta", "data-pipeline", true},
		{"upper term", "BT", "beta", true},
		{"upper name", "bt", "BETA", true},
		{"repeated rune needs two", "ll", "help", false},
		{"repeated rune present", "ll", "hello", true},
		{"longer than name", "betas", "beta", false},
		{"regex dot is literal", ".", "beta", false},
		{"regex star is literal", "b*", "beta", false},
		{"bracket", "[", "x[y]", true},
		{"unicode fold", "ü", "Über", true},
		{"kelvin sign folds", "k", "Kelvin", true},
		{"empty name", "a", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Match([]rune(tt.term), tt.input)
			if result != tt.expected {
				t.Errorf("Match(%q, %q) = %v, want %v",
					tt.term, tt.input, result, tt.expected)
			}
		})
	}
}
