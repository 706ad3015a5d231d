package config

import (
	"os"
	"time"
)

// Wallet captures wallet daemon level configuration.
type Wallet struct {
	Addr            string
	StoragePath     string
	TrustedIssuer   string
	IssuerSecret    string
	IssuerPublicAx  string
	IssuerPublicAy  string
	PendingTTL      time.Duration
	DecisionTimeout time.Duration
	IdleLockAfter   time.Duration
}

// Fixed protocol windows. PendingTTL bounds how long a request survives the
// privileged surface being closed; DecisionTimeout is the caller-side wait.
var (
	PendingTTL      = 5 * time.Minute
	DecisionTimeout = 30 * time.Second
	IdleLockAfter   = 5 * time.Minute
)

// Issuer key material for the deterministic proof scheme. The holder-side
// verifier and the issuer endpoint must agree on these byte for byte.
const (
	DefaultTrustedIssuer  = "https://infosec.chungnam.ac.kr"
	DefaultIssuerSecret   = "vc-issuer-secret"
	DefaultIssuerPublicAx = "13277427435165878497778222415993513565335242147425444199013288855685581939618"
	DefaultIssuerPublicAy = "13622229784656158136036771217484571176836296686641868549125388198837476602820"
)

// FromEnv builds a Wallet config from environment variables so main stays lean.
func FromEnv() Wallet {
	addr := os.Getenv("DID_WALLET_ADDR")
	if addr == "" {
		addr = ":8090"
	}

	storagePath := os.Getenv("DID_WALLET_DB")
	if storagePath == "" {
		storagePath = "did_wallet.db"
	}

	trustedIssuer := os.Getenv("DID_WALLET_TRUSTED_ISSUER")
	if trustedIssuer == "" {
		trustedIssuer = DefaultTrustedIssuer
	}

	issuerSecret := os.Getenv("DID_WALLET_ISSUER_SECRET")
	if issuerSecret == "" {
		issuerSecret = DefaultIssuerSecret
	}

	pendingTTL := PendingTTL
	if raw := os.Getenv("DID_WALLET_PENDING_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			pendingTTL = d
		}
	}

	decisionTimeout := DecisionTimeout
	if raw := os.Getenv("DID_WALLET_DECISION_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			decisionTimeout = d
		}
	}

	idleLock := IdleLockAfter
	if raw := os.Getenv("DID_WALLET_IDLE_LOCK"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			idleLock = d
		}
	}

	return Wallet{
		Addr:            addr,
		StoragePath:     storagePath,
		TrustedIssuer:   trustedIssuer,
		IssuerSecret:    issuerSecret,
		IssuerPublicAx:  DefaultIssuerPublicAx,
		IssuerPublicAy:  DefaultIssuerPublicAy,
		PendingTTL:      pendingTTL,
		DecisionTimeout: decisionTimeout,
		IdleLockAfter:   idleLock,
	}
}
