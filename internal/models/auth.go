package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload of a signed session token.
type SessionClaims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// VerifyStatus tags the outcome of inspecting a session token.
type VerifyStatus string

const (
	VerifyValid            VerifyStatus = "valid"
	VerifyMissing          VerifyStatus = "missing"
	VerifyMalformed        VerifyStatus = "malformed"
	VerifyExpired          VerifyStatus = "expired"
	VerifyInvalidSignature VerifyStatus = "invalid_signature"
	VerifyRevoked          VerifyStatus = "revoked"
)

// VerifyResult carries the tagged outcome and, when valid, the decoded claims.
type VerifyResult struct {
	Status VerifyStatus
	Claims *SessionClaims
}

// Valid collapses the tagged result to the gate decision.
func (r VerifyResult) Valid() bool {
	return r.Status == VerifyValid && r.Claims != nil
}
