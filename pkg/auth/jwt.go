package auth

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTConfig holds JWT configuration. Exactly one key source is used, in the
// order PrivateKeyPEM, PublicKeyPEM, Secret.
type JWTConfig struct {
	// Secret is an HMAC-SHA256 shared key.
	Secret string

	// PrivateKeyPEM is a PEM-encoded RSA private key; enables signing and validation.
	PrivateKeyPEM string

	// PublicKeyPEM is a PEM-encoded RSA public key; validation only.
	PublicKeyPEM string

	Issuer     string
	Expiration time.Duration
}

// JWTService issues and validates access tokens.
type JWTService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	config     JWTConfig
}

// NewJWTService creates a new JWTService with the given configuration.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	svc := &JWTService{config: cfg}

	switch {
	case cfg.PrivateKeyPEM != "":
		privKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
		}
		svc.privateKey = privKey
		svc.publicKey = &privKey.PublicKey

	case cfg.PublicKeyPEM != "":
		pubKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}
		svc.publicKey = pubKey

	case cfg.Secret != "":
		// HMAC-SHA256 mode; the secret is read from config when signing.

	default:
		return nil, fmt.Errorf("jwt configuration requires PrivateKeyPEM, PublicKeyPEM, or Secret")
	}

	return svc, nil
}

func (s *JWTService) useRSA() bool {
	return s.publicKey != nil
}

// GenerateToken creates a signed token for a user with the given roles.
func (s *JWTService) GenerateToken(userID uuid.UUID, roles []string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		UserID: userID,
		Roles:  roles,
	}

	if s.useRSA() {
		if s.privateKey == nil {
			return "", fmt.Errorf("cannot generate token: no private key configured (validation-only mode)")
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
		if err != nil {
			return "", fmt.Errorf("failed to sign token with RSA: %w", err)
		}
		return signed, nil
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a token string.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if s.useRSA() {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v (expected RS256)", token.Header["alg"])
			}
			return s.publicKey, nil
		}
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
