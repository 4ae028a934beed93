package network

import (
	"fmt"

	"github.com/theonetwoone/CYBER-repinning/constants"
)

// Credential kinds. Most pinning services authenticate with a single
// bearer token. Infura uses a project key id plus secret.
const (
	CredentialSingleToken = "single_token"
	CredentialKeyPair     = "key_pair"
)

// Credential holds the secret material for one pinning service.
// Kind tells the service adapter which fields are populated.
type Credential struct {
	Kind   string
	Token  string
	KeyID  string
	Secret string
}

func NewSingleToken(token string) Credential {
	return Credential{
		Kind:  CredentialSingleToken,
		Token: token,
	}
}

func NewKeyPair(keyID, secret string) Credential {
	return Credential{
		Kind:   CredentialKeyPair,
		KeyID:  keyID,
		Secret: secret,
	}
}

// Validate returns an error if the credential is missing the fields
// its kind requires, or if the kind does not fit the named service.
func (c Credential) Validate(service string) error {
	switch c.Kind {
	case CredentialSingleToken:
		if c.Token == "" {
			return fmt.Errorf("credential for %s is missing token", service)
		}
		if service == constants.SvcInfura {
			return fmt.Errorf("service %s requires a key pair credential", service)
		}
	case CredentialKeyPair:
		if c.KeyID == "" || c.Secret == "" {
			return fmt.Errorf("credential for %s is missing key id or secret", service)
		}
		if service != constants.SvcInfura {
			return fmt.Errorf("service %s requires a single token credential", service)
		}
	default:
		return fmt.Errorf("unknown credential kind %q", c.Kind)
	}
	return nil
}
