package credential_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"didwallet/internal/credential"
	"didwallet/pkg/testutil"
)

func storedFixture(id string) credential.Credential {
	vc := testutil.GraduationCredential(testutil.WalletAddress)
	vc.SetID(id)
	return vc
}

func TestFindDuplicate_MatchesOnIssuerSubjectAndType(t *testing.T) {
	stored := []credential.Credential{storedFixture("vc-1")}

	dup := credential.FindDuplicate(testutil.GraduationCredential(testutil.WalletAddress), stored)
	assert.NotNil(t, dup)
	assert.Equal(t, "vc-1", dup.ID())
}

func TestFindDuplicate_FirstMatchWins(t *testing.T) {
	stored := []credential.Credential{storedFixture("vc-1"), storedFixture("vc-2")}

	dup := credential.FindDuplicate(testutil.GraduationCredential(testutil.WalletAddress), stored)
	assert.Equal(t, "vc-1", dup.ID())
}

func TestFindDuplicate_DifferentTypeIsNotDuplicate(t *testing.T) {
	candidate := testutil.GraduationCredential(testutil.WalletAddress)
	candidate["type"] = []any{"VerifiableCredential", "EnrollmentCredential"}

	dup := credential.FindDuplicate(candidate, []credential.Credential{storedFixture("vc-1")})
	assert.Nil(t, dup)
}

func TestFindDuplicate_NestedIssuerIdentifier(t *testing.T) {
	candidate := testutil.GraduationCredential(testutil.WalletAddress)
	candidate["issuer"] = map[string]any{"id": candidate.IssuerID(), "name": "Registrar"}

	dup := credential.FindDuplicate(candidate, []credential.Credential{storedFixture("vc-1")})
	assert.NotNil(t, dup)
}

func TestFindDuplicate_SubjectIdentifierFallback(t *testing.T) {
	// Subjects without a DID-style id fall back to name, then studentName.
	candidate := testutil.GraduationCredential(testutil.WalletAddress)
	delete(candidate.Subject(), "id")

	stored := testutil.GraduationCredential(testutil.WalletAddress)
	delete(stored.Subject(), "id")
	stored.SetID("vc-1")

	dup := credential.FindDuplicate(candidate, []credential.Credential{stored})
	assert.NotNil(t, dup)

	// Name mismatch under the fallback means not a duplicate.
	candidate.Subject()["name"] = "Someone Else"
	assert.Nil(t, credential.FindDuplicate(candidate, []credential.Credential{stored}))
}

func TestFindDuplicate_MissingDimensionMeansNoDuplicate(t *testing.T) {
	t.Run("no issuer", func(t *testing.T) {
		candidate := testutil.GraduationCredential(testutil.WalletAddress)
		delete(candidate, "issuer")
		assert.Nil(t, credential.FindDuplicate(candidate, []credential.Credential{storedFixture("vc-1")}))
	})

	t.Run("no subject identifier", func(t *testing.T) {
		candidate := testutil.GraduationCredential(testutil.WalletAddress)
		subject := candidate.Subject()
		delete(subject, "id")
		delete(subject, "name")
		assert.Nil(t, credential.FindDuplicate(candidate, []credential.Credential{storedFixture("vc-1")}))
	})

	t.Run("only generic type marker", func(t *testing.T) {
		candidate := testutil.GraduationCredential(testutil.WalletAddress)
		candidate["type"] = []any{"VerifiableCredential"}
		assert.Nil(t, credential.FindDuplicate(candidate, []credential.Credential{storedFixture("vc-1")}))
	})
}

func TestFindDuplicate_EmptyStore(t *testing.T) {
	assert.Nil(t, credential.FindDuplicate(testutil.GraduationCredential(testutil.WalletAddress), nil))
}
