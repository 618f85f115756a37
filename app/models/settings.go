package models

// RedactedCredential replaces the credential in API responses. Saving it back
// keeps the stored credential unchanged.
const RedactedCredential = "********"

// Settings control which backend the catalog and ledger stores target.
type Settings struct {
	UseCloud         bool   `json:"useCloud"`
	RemoteEndpoint   string `json:"remoteEndpoint"   validate:"max=512"`
	RemoteCredential string `json:"remoteCredential" validate:"max=1024"`
}

// Same reports whether two settings values would produce the same remote client.
func (s Settings) Same(o Settings) bool {
	return s.UseCloud == o.UseCloud &&
		s.RemoteEndpoint == o.RemoteEndpoint &&
		s.RemoteCredential == o.RemoteCredential
}

// Redacted returns a copy safe to serialise back to clients.
func (s Settings) Redacted() Settings {
	if s.RemoteCredential != "" {
		s.RemoteCredential = RedactedCredential
	}
	return s
}
