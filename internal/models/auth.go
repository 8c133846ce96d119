package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the token payload issued by the host auth system.
type JWTClaims struct {
	UID  string `json:"uid"`
	Role Role   `json:"role"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the workflow actor identity.
func (c *JWTClaims) Actor() Actor {
	return Actor{ID: c.UID, Role: c.Role}
}
