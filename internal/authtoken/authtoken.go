// Package authtoken issues and validates the opaque security token carried
// in message attributes. Tokens are HS256 JWTs whose subject is the string
// form of the source address they were issued to.
package authtoken

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rmacdonaldsmith/umesh-go/pkg/attributes"
	"github.com/rmacdonaldsmith/umesh-go/pkg/uri"
)

var (
	// ErrInvalidSubject is returned when issuing a token for an empty or wildcard address
	ErrInvalidSubject = errors.New("token subject must be a concrete address")
	// ErrInvalidToken is returned when a token fails parsing or signature checks
	ErrInvalidToken = errors.New("invalid token")
	// ErrSubjectMismatch is returned when a token was issued to a different source
	ErrSubjectMismatch = errors.New("token subject does not match message source")
)

// Config holds configuration for the token issuer
type Config struct {
	// Secret is the HMAC key shared by issuers and validators
	Secret string
	// Issuer is written to the iss claim
	Issuer string
	// TTL is how long issued tokens stay valid
	TTL time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("secret cannot be empty")
	}
	if c.TTL < 0 {
		return errors.New("ttl cannot be negative")
	}
	return nil
}

// SetDefaults sets sensible default values for unset configuration fields
func (c *Config) SetDefaults() {
	if c.Issuer == "" {
		c.Issuer = "umesh"
	}
	if c.TTL == 0 {
		c.TTL = 24 * time.Hour
	}
}

// Claims represents the JWT token claims
type Claims struct {
	// Sink restricts the token to messages addressed to one sink, when set
	Sink string `json:"sink,omitempty"`
	jwt.RegisteredClaims
}

// Issuer handles token creation and validation
type Issuer struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}

// NewIssuer creates an issuer from config
func NewIssuer(config Config) (*Issuer, error) {
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid token config: %w", err)
	}
	return &Issuer{
		secretKey: []byte(config.Secret),
		issuer:    config.Issuer,
		ttl:       config.TTL,
	}, nil
}

// Issue creates a token for source. A non-empty sink restricts the token to
// messages addressed to that sink.
func (i *Issuer) Issue(source, sink uri.URI) (string, time.Time, error) {
	if source.IsEmpty() || source.IsAny() || source.IsPattern() {
		return "", time.Time{}, ErrInvalidSubject
	}
	if sink.IsAny() || sink.IsPattern() {
		return "", time.Time{}, fmt.Errorf("%w: sink %s", ErrInvalidSubject, sink)
	}

	now := time.Now()
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		Sink: sink.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   source.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(i.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// Validate parses tokenString, checks its signature, issuer and expiry, and
// returns the claims. A "Bearer " prefix is accepted.
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token cannot be empty", ErrInvalidToken)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return i.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(i.issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Verify validates the token carried by attrs and checks that it was issued
// to the message's source, and to its sink when the token names one.
func (i *Issuer) Verify(attrs *attributes.Attributes) (*Claims, error) {
	if !attrs.IsValid() {
		return nil, fmt.Errorf("%w: attributes are not valid", ErrInvalidToken)
	}

	claims, err := i.Validate(attrs.Token())
	if err != nil {
		return nil, err
	}
	if claims.Subject != attrs.Source().String() {
		return nil, fmt.Errorf("%w: issued to %s, message from %s", ErrSubjectMismatch, claims.Subject, attrs.Source())
	}
	if claims.Sink != "" && claims.Sink != attrs.Sink().String() {
		return nil, fmt.Errorf("%w: issued for sink %s, message to %s", ErrSubjectMismatch, claims.Sink, attrs.Sink())
	}
	return claims, nil
}
