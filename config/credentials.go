package config

// DefaultSecretKey is the x-secret value the public web client sends.
const DefaultSecretKey = "Marinara"

// Credentials carries the tokens the API checks on every request. The zero
// value is unusable; build one with NewCredentials or DefaultCredentials.
// Credentials are immutable once built.
type Credentials struct {
	secretKey string
	origin    string
}

// credentialFields mirrors Credentials with exported fields so the validator can see them.
type credentialFields struct {
	SecretKey string `validate:"required"`
	Origin    string `validate:"required"`
}

// NewCredentials validates that both tokens are non-empty.
func NewCredentials(secretKey, origin string) (Credentials, error) {
	if err := validateStruct(credentialFields{SecretKey: secretKey, Origin: origin}, "invalid credentials"); err != nil {
		return Credentials{}, err
	}
	return Credentials{secretKey: secretKey, origin: origin}, nil
}

// DefaultCredentials returns the public web client's credentials for env.
// An unknown environment has no origin and fails validation.
func DefaultCredentials(env Environment) (Credentials, error) {
	return NewCredentials(DefaultSecretKey, env.BaseURL())
}

// SecretKey returns the value sent in the x-secret header.
func (c Credentials) SecretKey() string { return c.secretKey }

// Origin returns the value sent in the origin header.
func (c Credentials) Origin() string { return c.origin }

// IsZero reports whether c was never constructed.
func (c Credentials) IsZero() bool { return c.secretKey == "" && c.origin == "" }

// String redacts the secret.
func (c Credentials) String() string {
	return "Credentials{secret: [redacted], origin: " + c.origin + "}"
}
