package utils

import (
	"errors" // Error construction
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// ErrMissingClientID is returned for a well-signed token without a client id
var ErrMissingClientID = errors.New("token has no client id")

// ClientClaims identify the browser whose stored state a request reads
type ClientClaims struct {
	ClientID             string `json:"client_id"` // Custom claim for the client namespace
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateClientToken creates a signed token for clientID valid for ttl
func GenerateClientToken(clientID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	// Set token claims
	claims := ClientClaims{
		ClientID: clientID, // Custom claim for client ID
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // Token expires after ttl
			IssuedAt:  jwt.NewNumericDate(now),          // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseClientToken parses and validates a client token string
func ParseClientToken(tokenStr, secret string) (*ClientClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &ClientClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	claims, ok := token.Claims.(*ClientClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid // Return error if token is invalid
	}
	if claims.ClientID == "" {
		return nil, ErrMissingClientID
	}
	return claims, nil
}

// RenewClientToken issues a fresh token for the client named by an expired
// token. The signature is still verified; only the expiry is ignored.
func RenewClientToken(tokenStr, secret string, ttl time.Duration) (string, string, error) {
	claims := &ClientClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return "", "", err // Bad signature or malformed token
	}
	if claims.ClientID == "" {
		return "", "", ErrMissingClientID
	}
	token, err := GenerateClientToken(claims.ClientID, secret, ttl) // Same client, new expiry
	if err != nil {
		return "", "", err
	}
	return token, claims.ClientID, nil
}
