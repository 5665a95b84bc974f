package client

// Capabilities is the boolean set of actions the current session may
// perform. Views evaluate it once per render instead of re-implementing
// role checks per component.
type Capabilities struct {
	// ManageUsers allows create, update and delete.
	ManageUsers bool
	// ExportCSV allows the full users export.
	ExportCSV bool
}

// CapabilitiesFor derives the capability set from a session. A nil session
// has no capabilities.
func CapabilitiesFor(s *Session) Capabilities {
	if s == nil || s.Token == "" {
		return Capabilities{}
	}
	admin := s.User.Role == "admin"
	return Capabilities{
		ManageUsers: admin,
		ExportCSV:   admin,
	}
}
