package client

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"alice@example.com", "a.b+tag@sub.example.co"}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Fatalf("expected %q valid", email)
		}
	}
	invalid := []string{"", "alice", "alice@", "@example.com", "alice@example", "a b@example.com"}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Fatalf("expected %q invalid", email)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"", "+1 555 0100", "555-0100", "(555) 010-0100"}
	for _, phone := range valid {
		if !ValidatePhone(phone) {
			t.Fatalf("expected %q valid", phone)
		}
	}
	invalid := []string{"abc", "555x0100", "call me"}
	for _, phone := range invalid {
		if ValidatePhone(phone) {
			t.Fatalf("expected %q invalid", phone)
		}
	}
}

func TestValidateName(t *testing.T) {
	if !ValidateName("Al") || ValidateName("A") || ValidateName("  A  ") {
		t.Fatalf("name length rule broken")
	}
}

func TestValidateUserForm_Create(t *testing.T) {
	errs := ValidateUserForm(UserFormData{
		Name:                 "A",
		Email:                "bad",
		Password:             "short",
		PasswordConfirmation: "other",
		Phone:                "abc",
		Role:                 "root",
	}, false)

	for _, field := range []string{"name", "email", "password", "password_confirmation", "phone", "role"} {
		if errs[field] == "" {
			t.Fatalf("expected error on %s, got %+v", field, errs)
		}
	}

	errs = ValidateUserForm(UserFormData{
		Name:                 "Grace Admin",
		Email:                "grace@example.com",
		Password:             "password123",
		PasswordConfirmation: "password123",
		Role:                 "admin",
	}, false)
	if len(errs) != 0 {
		t.Fatalf("expected clean form, got %+v", errs)
	}
}

func TestValidateUserForm_UpdateAllowsBlankPassword(t *testing.T) {
	errs := ValidateUserForm(UserFormData{
		Name:  "Grace Admin",
		Email: "grace@example.com",
		Role:  "admin",
	}, true)
	if len(errs) != 0 {
		t.Fatalf("blank password on update should pass, got %+v", errs)
	}

	// A password that was entered is still held to the rules.
	errs = ValidateUserForm(UserFormData{
		Name:                 "Grace Admin",
		Email:                "grace@example.com",
		Password:             "short",
		PasswordConfirmation: "short",
		Role:                 "admin",
	}, true)
	if errs["password"] == "" {
		t.Fatalf("short password on update should fail, got %+v", errs)
	}
}

func TestValidateRegistration(t *testing.T) {
	errs := ValidateRegistration(RegisterData{
		Name:                 "Alice Example",
		Email:                "alice@example.com",
		Password:             "password123",
		PasswordConfirmation: "password123",
	})
	if len(errs) != 0 {
		t.Fatalf("expected clean registration, got %+v", errs)
	}

	errs = ValidateRegistration(RegisterData{
		Name:                 "Alice Example",
		Email:                "alice@example.com",
		Password:             "password123",
		PasswordConfirmation: "different",
	})
	if errs["password_confirmation"] == "" {
		t.Fatalf("expected confirmation mismatch, got %+v", errs)
	}
}
