package credential_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"didwallet/internal/credential"
)

func TestCanonicalize_SortsObjectKeys(t *testing.T) {
	got := credential.Canonicalize(map[string]any{
		"zeta":  1.0,
		"alpha": 2.0,
		"mid":   "x",
	})
	assert.Equal(t, `{"alpha":2,"mid":"x","zeta":1}`, got)
}

func TestCanonicalize_PreservesArrayOrder(t *testing.T) {
	got := credential.Canonicalize([]any{"c", "a", "b"})
	assert.Equal(t, `["c","a","b"]`, got)
}

func TestCanonicalize_Primitives(t *testing.T) {
	assert.Equal(t, "null", credential.Canonicalize(nil))
	assert.Equal(t, "true", credential.Canonicalize(true))
	assert.Equal(t, "2022", credential.Canonicalize(float64(2022)))
	assert.Equal(t, "3.5", credential.Canonicalize(3.5))
	assert.Equal(t, `"text"`, credential.Canonicalize("text"))
}

func TestCanonicalize_NoHTMLEscaping(t *testing.T) {
	// The issuer's serializer emits these bytes verbatim and the content root
	// covers every byte.
	got := credential.Canonicalize(map[string]any{"url": "https://a.test/?q=<x>&y=1"})
	assert.Equal(t, `{"url":"https://a.test/?q=<x>&y=1"}`, got)
}

func TestCanonicalize_NestedStructures(t *testing.T) {
	got := credential.Canonicalize(map[string]any{
		"b": map[string]any{"y": []any{1.0, 2.0}, "x": nil},
		"a": []any{map[string]any{"k": "v"}},
	})
	assert.Equal(t, `{"a":[{"k":"v"}],"b":{"x":null,"y":[1,2]}}`, got)
}

func TestCanonicalize_EquivalentDocumentsMatch(t *testing.T) {
	// Same document, different key order in the source text.
	var a, b map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"issuer":"i","type":["VerifiableCredential"],"credentialSubject":{"name":"n","id":"s"}}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"credentialSubject":{"id":"s","name":"n"},"type":["VerifiableCredential"],"issuer":"i"}`), &b))

	assert.Equal(t, credential.Canonicalize(a), credential.Canonicalize(b))
}

func TestCanonicalize_CredentialAlias(t *testing.T) {
	vc := credential.Credential{"issuer": "i"}
	assert.Equal(t, `{"issuer":"i"}`, credential.Canonicalize(vc))
}
