package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("sup3rsecret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "sup3rsecret" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !CheckPassword("sup3rsecret", hash) {
		t.Fatalf("expected password to verify")
	}
	if CheckPassword("wrongpass1", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestCheckPasswordRejectsGarbageHash(t *testing.T) {
	if CheckPassword("whatever1", "not-a-bcrypt-hash") {
		t.Fatalf("expected malformed hash to fail verification")
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"short1", false},
		{"onlyletters", false},
		{"12345678", false},
		{"letters4nd", true},
		{"Sup3rsecret", true},
	}
	for _, tc := range cases {
		err := ValidatePassword(tc.password)
		if tc.ok && err != nil {
			t.Errorf("ValidatePassword(%q) = %v, want nil", tc.password, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("ValidatePassword(%q) = nil, want error", tc.password)
		}
	}
}
