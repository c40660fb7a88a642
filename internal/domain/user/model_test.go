package user

import "testing"

func TestValidateUsername(t *testing.T) {
	valid := []string{"abc", "alice_99", "The-Gaffer", "abcdefghijklmnopqrstuvwx"}
	for _, username := range valid {
		if err := ValidateUsername(username); err != nil {
			t.Fatalf("expected %q to be valid: %v", username, err)
		}
	}

	invalid := []string{"", "ab", "abcdefghijklmnopqrstuvwxy", "has space", "dot.name", "emoji😀name"}
	for _, username := range invalid {
		if err := ValidateUsername(username); err == nil {
			t.Fatalf("expected %q to be rejected", username)
		}
	}
}
