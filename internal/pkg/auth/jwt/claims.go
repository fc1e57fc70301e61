package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims issued by the
// local identity provider. It includes standard claims required by the JWT
// specification and the custom claims needed to identify the authenticated user.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims

	// UserID is the stable unique identifier of the authenticated user.
	UserID string `json:"user_id"`

	// Email is the address the account was registered with.
	Email string `json:"email"`
}
