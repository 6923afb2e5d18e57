package domain

import "testing"

func TestIsSuspicious(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", false},
		{"Grandma had a good day at the park", false},
		{"please send me your bank details", true},
		{"What is your PIN?", true},
		{"Your IBAN and SWIFT code please", true},
		{"she shared her Social Security Number", true},
	}

	for _, tt := range tests {
		if got := IsSuspicious(tt.text); got != tt.want {
			t.Errorf("IsSuspicious(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestUserPatch_Apply(t *testing.T) {
	u := &User{FirstName: "Ana", Credit: 10, Role: RoleUser}
	name := "Ada"
	credit := int64(-5)

	UserPatch{FirstName: &name, Credit: &credit}.Apply(u)

	if u.FirstName != "Ada" {
		t.Errorf("expected first name Ada, got %q", u.FirstName)
	}
	if u.Credit != -5 {
		t.Errorf("expected credit -5, got %d", u.Credit)
	}
	if u.Role != RoleUser {
		t.Errorf("role must be untouched, got %q", u.Role)
	}
}

func TestUser_Public_DropsPassword(t *testing.T) {
	u := &User{ID: "u1", Email: "a@b.com", PasswordHash: "hash", Role: RoleHelper}
	p := u.Public()
	if p.ID != "u1" || p.Email != "a@b.com" || p.Role != RoleHelper {
		t.Fatalf("unexpected public user: %+v", p)
	}
}
