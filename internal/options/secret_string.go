package options

// SecretString guards a secret (such as the storage access key) against
// accidentally ending up in log output: formatting it with %v or %#v prints
// a redaction marker instead of the value.
type SecretString struct {
	s *string
}

// NewSecretString wraps s.
func NewSecretString(s string) SecretString {
	return SecretString{s: &s}
}

func (s SecretString) GoString() string {
	return `"` + s.String() + `"`
}

func (s SecretString) String() string {
	if s.s == nil || len(*s.s) == 0 {
		return ``
	}
	return `**redacted**`
}

// Unwrap returns the secret value.
func (s *SecretString) Unwrap() string {
	if s.s == nil {
		return ""
	}
	return *s.s
}
