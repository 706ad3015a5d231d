// Package testutil provides shared credential fixtures for tests.
package testutil

import (
	"time"

	"didwallet/internal/credential"
	"didwallet/internal/platform/config"
)

// Fixed fixture identities.
const (
	WalletAddress = "0xAbCd00000000000000000000000000000000beef"
	SubjectName   = "Kim Jiwoo"
	StudentID     = "20180001"
)

// NewEngine returns an integrity engine loaded with the default issuer
// material, matching what the issuer endpoint signs with.
func NewEngine() *credential.Engine {
	return &credential.Engine{
		TrustedIssuer: config.DefaultTrustedIssuer,
		Secret:        config.DefaultIssuerSecret,
		PublicKey: credential.PublicKey{
			Ax: config.DefaultIssuerPublicAx,
			Ay: config.DefaultIssuerPublicAy,
		},
	}
}

// GraduationCredential builds an unsigned graduation credential bound to the
// given wallet address.
func GraduationCredential(walletAddress string) credential.Credential {
	return credential.Credential{
		"@context":     []any{"https://www.w3.org/2018/credentials/v1"},
		"type":         []any{"VerifiableCredential", "GraduationCredential"},
		"issuer":       config.DefaultTrustedIssuer,
		"issuanceDate": "2024-02-20T09:00:00Z",
		"credentialSubject": map[string]any{
			"id":             "did:wallet:" + walletAddress,
			"walletAddress":  walletAddress,
			"studentId":      StudentID,
			"name":           SubjectName,
			"department":     "Computer Science",
			"graduationYear": float64(2022),
		},
	}
}

// SignedCredential builds a graduation credential with a valid proof attached.
func SignedCredential(walletAddress string) credential.Credential {
	vc := GraduationCredential(walletAddress)
	engine := NewEngine()
	engine.AttachProof(vc, config.DefaultTrustedIssuer+"#key-1", time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC))
	return vc
}
