package client

import "testing"

func TestCapabilitiesFor(t *testing.T) {
	tests := []struct {
		name    string
		session *Session
		want    Capabilities
	}{
		{"nil session", nil, Capabilities{}},
		{"empty token", &Session{User: User{Role: "admin"}}, Capabilities{}},
		{"standard user", &Session{Token: "t", User: User{Role: "user"}}, Capabilities{}},
		{"admin", &Session{Token: "t", User: User{Role: "admin"}}, Capabilities{ManageUsers: true, ExportCSV: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CapabilitiesFor(tt.session); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
