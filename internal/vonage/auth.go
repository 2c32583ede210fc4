package vonage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Credentials are the candidate auth inputs for one send. Application ID and
// private key usually arrive with the request; key/secret come from the
// environment.
type Credentials struct {
	ApplicationID string
	PrivateKey    string // PEM-encoded RSA private key
	APIKey        string
	APISecret     string
}

// ErrNoCredentials is the configuration error reported before any network
// call when neither auth tier is usable.
var ErrNoCredentials = errors.New("missing authentication credentials: configure App ID and Private Key, or an API key and secret")

// SelectAuth picks the Authorization header value for a send. An application
// ID plus private key takes priority (signed token); an API key/secret pair
// is the fallback.
func SelectAuth(creds Credentials) (string, error) {
	if creds.ApplicationID != "" && creds.PrivateKey != "" {
		token, err := signToken(creds.ApplicationID, creds.PrivateKey)
		if err != nil {
			return "", fmt.Errorf("failed to generate JWT token, check your private key format: %w", err)
		}
		return "Bearer " + token, nil
	}

	if creds.APIKey != "" && creds.APISecret != "" {
		pair := base64.StdEncoding.EncodeToString([]byte(creds.APIKey + ":" + creds.APISecret))
		return "Basic " + pair, nil
	}

	return "", ErrNoCredentials
}

func signToken(applicationID, privateKeyPEM string) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"application_id": applicationID,
		"iat":            now.Unix(),
		"exp":            now.Add(time.Hour).Unix(),
		"jti":            uuid.NewString(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}
