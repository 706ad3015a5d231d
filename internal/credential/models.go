package credential

import (
	"encoding/json"
	"time"
)

// GenericTypeMarker is present in every credential's type list; the first
// token that is not this marker identifies what the credential attests.
const GenericTypeMarker = "VerifiableCredential"

// ProofType identifies the deterministic placeholder proof scheme. It is not
// real cryptography; the issuer and holder stay byte-for-byte compatible and
// that reproducibility is the entire security property.
const ProofType = "BabyJubJubSMTSignature2024"

// Bookkeeping fields the wallet adds after acceptance. They are stripped from
// any content-root recomputation so saving a credential never invalidates it.
var bookkeepingFields = []string{"id", "savedAt", "origin", "previousSavedAt", "verificationResult"}

// Credential is a verifiable credential document. It stays map-backed because
// the content root covers every field the issuer signed, including ones this
// wallet has no schema for.
type Credential map[string]any

// Signature is the deterministic 3-tuple standing in for a real signature.
type Signature struct {
	R8x string `json:"R8x"`
	R8y string `json:"R8y"`
	S   string `json:"S"`
}

// PublicKey is the issuer key pair's public half.
type PublicKey struct {
	Ax string `json:"Ax"`
	Ay string `json:"Ay"`
}

// Proof carries the integrity scheme output attached to a credential.
type Proof struct {
	Type               string    `json:"type"`
	Created            string    `json:"created"`
	VerificationMethod string    `json:"verificationMethod"`
	MerkleRoot         string    `json:"merkleRoot"`
	Signature          Signature `json:"signature"`
}

// ParseCredential decodes a JSON credential document.
func ParseCredential(raw []byte) (Credential, error) {
	var vc Credential
	if err := json.Unmarshal(raw, &vc); err != nil {
		return nil, err
	}
	return vc, nil
}

// Clone returns a deep copy so store reads never alias caller state.
func (c Credential) Clone() Credential {
	return deepCopyMap(c)
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return t
	}
}

// ID returns the wallet-assigned bookkeeping id, empty before acceptance.
func (c Credential) ID() string {
	return c.stringField("id")
}

// SetID stamps the bookkeeping id.
func (c Credential) SetID(id string) {
	c["id"] = id
}

// SavedAt returns the wallet save timestamp, empty before acceptance.
func (c Credential) SavedAt() string {
	return c.stringField("savedAt")
}

// Origin returns the origin recorded at save time.
func (c Credential) Origin() string {
	return c.stringField("origin")
}

// IssuerID prefers the nested issuer identifier and falls back to a raw
// string issuer field.
func (c Credential) IssuerID() string {
	switch issuer := c["issuer"].(type) {
	case map[string]any:
		if id, ok := issuer["id"].(string); ok {
			return id
		}
		return ""
	case string:
		return issuer
	default:
		return ""
	}
}

// IssuerName returns the optional display name of the issuer.
func (c Credential) IssuerName() string {
	if issuer, ok := c["issuer"].(map[string]any); ok {
		if name, ok := issuer["name"].(string); ok {
			return name
		}
	}
	return ""
}

// Subject returns the credentialSubject claim map, nil when absent.
func (c Credential) Subject() map[string]any {
	subject, _ := c["credentialSubject"].(map[string]any)
	return subject
}

// SubjectIdentifier resolves the subject's identity for duplicate matching,
// trying in documented order: DID-style id, display name, student name.
func (c Credential) SubjectIdentifier() string {
	subject := c.Subject()
	if subject == nil {
		return ""
	}
	for _, field := range []string{"id", "name", "studentName"} {
		if v, ok := subject[field].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// WalletAddress returns the subject-bound wallet address, empty when absent.
func (c Credential) WalletAddress() string {
	subject := c.Subject()
	if subject == nil {
		return ""
	}
	addr, _ := subject["walletAddress"].(string)
	return addr
}

// Types returns the credential's type list.
func (c Credential) Types() []string {
	raw, ok := c["type"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if s, ok := t.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// PrimaryType returns the first type token that is not the generic marker.
func (c Credential) PrimaryType() string {
	for _, t := range c.Types() {
		if t != GenericTypeMarker {
			return t
		}
	}
	return ""
}

// Proof decodes the proof block, reporting false when absent or malformed.
func (c Credential) Proof() (Proof, bool) {
	raw, ok := c["proof"].(map[string]any)
	if !ok {
		return Proof{}, false
	}
	var p Proof
	p.Type, _ = raw["type"].(string)
	p.Created, _ = raw["created"].(string)
	p.VerificationMethod, _ = raw["verificationMethod"].(string)
	p.MerkleRoot, _ = raw["merkleRoot"].(string)
	if sig, ok := raw["signature"].(map[string]any); ok {
		p.Signature.R8x, _ = sig["R8x"].(string)
		p.Signature.R8y, _ = sig["R8y"].(string)
		p.Signature.S, _ = sig["S"].(string)
	}
	return p, true
}

// SetProof attaches a proof block (issuer side).
func (c Credential) SetProof(p Proof) {
	c["proof"] = map[string]any{
		"type":               p.Type,
		"created":            p.Created,
		"verificationMethod": p.VerificationMethod,
		"merkleRoot":         p.MerkleRoot,
		"signature": map[string]any{
			"R8x": p.Signature.R8x,
			"R8y": p.Signature.R8y,
			"S":   p.Signature.S,
		},
	}
}

// ExpiresAt parses the expiry timestamp when one is declared. The issuer emits
// expirationDate; older documents carry validUntil, so both are honored.
func (c Credential) ExpiresAt() (time.Time, bool) {
	for _, field := range []string{"validUntil", "expirationDate"} {
		raw, ok := c[field].(string)
		if !ok || raw == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SignedPortion returns a copy with the proof and all wallet bookkeeping
// fields removed: exactly the field set the issuer hashed.
func (c Credential) SignedPortion() Credential {
	out := c.Clone()
	delete(out, "proof")
	for _, field := range bookkeepingFields {
		delete(out, field)
	}
	return out
}

func (c Credential) stringField(key string) string {
	v, _ := c[key].(string)
	return v
}
