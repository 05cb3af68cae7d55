package user

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFullName(t *testing.T) {
	tests := []struct {
		name string
		u    User
		want string
	}{
		{
			name: "without middle name",
			u:    User{FirstName: "Ada", LastName: "Lovelace"},
			want: "Ada Lovelace",
		},
		{
			name: "with middle name",
			u:    User{FirstName: "Ada", MiddleName: "King", LastName: "Lovelace"},
			want: "Ada King Lovelace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.u.FullName()

			if got != tt.want {
				t.Fatalf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarshalJSONHidesPasswordHash(t *testing.T) {
	u := User{
		ID:           "abc",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "$2a$12$super-secret-hash",
		Role:         RoleUser,
	}

	b, err := json.Marshal(u)

	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	body := string(b)

	if strings.Contains(body, "super-secret-hash") {
		t.Fatalf("password hash leaked into JSON: %s", body)
	}

	if strings.Contains(strings.ToLower(body), "password") {
		t.Fatalf("password key present in JSON: %s", body)
	}

	var decoded map[string]interface{}

	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded["fullName"] != "Ada Lovelace" {
		t.Fatalf("fullName = %v, want Ada Lovelace", decoded["fullName"])
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole(RoleAdmin) || !ValidRole(RoleUser) {
		t.Fatal("admin and user must be valid roles")
	}

	for _, role := range []string{"", "superadmin", "Admin", "USER"} {
		if ValidRole(role) {
			t.Fatalf("role %q should not be valid", role)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	got := NormalizeEmail("  Ada@Example.COM ")

	if got != "ada@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}

func TestNewFromCreateRequestDefaults(t *testing.T) {
	u := NewFromCreateRequest(CreateUserRequest{
		FirstName: " Ada ",
		LastName:  " Lovelace ",
		Email:     "Ada@Example.com",
	}, "hash")

	if u.ID == "" {
		t.Fatal("expected generated id")
	}
	if u.Role != RoleUser {
		t.Fatalf("role = %q, want default %q", u.Role, RoleUser)
	}
	if u.FirstName != "Ada" || u.LastName != "Lovelace" {
		t.Fatalf("names not trimmed: %q %q", u.FirstName, u.LastName)
	}
	if u.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.PasswordHash != "hash" {
		t.Fatalf("hash not carried over")
	}
	if u.CreatedAt.IsZero() || !u.CreatedAt.Equal(u.UpdatedAt) {
		t.Fatal("timestamps not initialized")
	}
}

func TestUpdateRequestEmpty(t *testing.T) {
	if !(UpdateUserRequest{}).Empty() {
		t.Fatal("zero value should be empty")
	}

	role := RoleAdmin
	if (UpdateUserRequest{Role: &role}).Empty() {
		t.Fatal("payload with role should not be empty")
	}
}
