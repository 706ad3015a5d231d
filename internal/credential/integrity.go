package credential

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	pkgerrors "didwallet/pkg/domain-errors"
)

// Engine derives and re-verifies the deterministic pseudo-signature. The
// issuer-side half (ComputeRoot + DeriveSignature + AttachProof) and the
// holder-side half (Verify) must stay in lock-step: any divergence in field
// ordering, numeric rendering, or bookkeeping stripping silently breaks
// every previously issued credential.
type Engine struct {
	TrustedIssuer string
	Secret        string
	PublicKey     PublicKey
}

// VerificationResult carries the trusted issuer material for display after a
// successful verification, plus non-fatal warnings.
type VerificationResult struct {
	IssuerPublicKey    PublicKey
	VerificationMethod string
	Warnings           []string
}

// ComputeRoot hashes the signed portion of a credential and renders the
// digest as a comma-joined decimal byte sequence. Decimal, not hex: the
// signature derivation consumes this exact string.
func (e *Engine) ComputeRoot(vc Credential) string {
	canonical := Canonicalize(vc.SignedPortion())
	digest := sha256.Sum256([]byte(canonical))
	parts := make([]string, len(digest))
	for i, b := range digest {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, ",")
}

// DeriveSignature computes the deterministic 3-tuple from the content root.
// Two independent keyed hashes are taken over the root concatenated with each
// public key component; the second key is suffixed to decorrelate the values.
func (e *Engine) DeriveSignature(root string) Signature {
	h1 := hmacHex(e.Secret, root+e.PublicKey.Ax)
	h2 := hmacHex(e.Secret+":S", root+e.PublicKey.Ay)
	return Signature{
		R8x: hexToDecimal(h1[:32]),
		R8y: hexToDecimal(h1[32:64]),
		S:   hexToDecimal(h2),
	}
}

// AttachProof signs a credential in place (issuer side).
func (e *Engine) AttachProof(vc Credential, verificationMethod string, now time.Time) {
	root := e.ComputeRoot(vc)
	vc.SetProof(Proof{
		Type:               ProofType,
		Created:            now.UTC().Format(time.RFC3339),
		VerificationMethod: verificationMethod,
		MerkleRoot:         root,
		Signature:          e.DeriveSignature(root),
	})
}

// Verify recomputes the root and signature and layers the holder-side checks
// on top. When walletAddress is non-empty the credential must be bound to it.
func (e *Engine) Verify(vc Credential, walletAddress string) (*VerificationResult, error) {
	var missing []string
	for _, field := range []string{"issuer", "credentialSubject", "proof"} {
		// An explicit JSON null counts as absent.
		if v, ok := vc[field]; !ok || v == nil {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("credential missing required fields: %s", strings.Join(missing, ", ")))
	}

	proof, ok := vc.Proof()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credential missing required fields: proof")
	}
	if proof.Type != ProofType {
		return nil, pkgerrors.New(pkgerrors.CodeIntegrity,
			fmt.Sprintf("unsupported proof scheme: %s", proof.Type))
	}
	if proof.MerkleRoot == "" || proof.Signature == (Signature{}) {
		return nil, pkgerrors.New(pkgerrors.CodeIntegrity, "proof missing signature or merkle root")
	}

	root := e.ComputeRoot(vc)
	if root != proof.MerkleRoot {
		return nil, pkgerrors.New(pkgerrors.CodeIntegrity, "content root mismatch")
	}
	if e.DeriveSignature(root) != proof.Signature {
		return nil, pkgerrors.New(pkgerrors.CodeIntegrity, "signature mismatch")
	}

	if walletAddress != "" {
		bound := vc.WalletAddress()
		if bound == "" {
			return nil, pkgerrors.New(pkgerrors.CodeOwnershipMismatch, "credential has no subject wallet address")
		}
		if !strings.EqualFold(bound, walletAddress) {
			return nil, pkgerrors.New(pkgerrors.CodeOwnershipMismatch,
				fmt.Sprintf("credential is bound to %s", bound))
		}
	}

	result := &VerificationResult{
		IssuerPublicKey:    e.PublicKey,
		VerificationMethod: proof.VerificationMethod,
	}
	if issuer := vc.IssuerID(); issuer != e.TrustedIssuer {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unknown issuer: %s", issuer))
	}

	if expiry, ok := vc.ExpiresAt(); ok && expiry.Before(time.Now()) {
		return nil, pkgerrors.New(pkgerrors.CodeExpired,
			fmt.Sprintf("credential expired at %s", expiry.Format(time.RFC3339)))
	}

	return result, nil
}

func hmacHex(key, data string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// hexToDecimal renders a hex string as the decimal form of the same integer.
func hexToDecimal(h string) string {
	n, ok := new(big.Int).SetString(h, 16)
	if !ok {
		return "0"
	}
	return n.String()
}
