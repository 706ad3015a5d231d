package credential

// FindDuplicate reports whether the candidate is a semantic re-issuance of an
// already stored credential: same issuer identifier, same subject identifier,
// and same primary (non-generic) type. All three comparisons require non-empty
// values on both sides; absence on either side means not a duplicate. Stored
// order is the tie-break: the first match wins.
func FindDuplicate(candidate Credential, stored []Credential) Credential {
	issuer := candidate.IssuerID()
	subject := candidate.SubjectIdentifier()
	primaryType := candidate.PrimaryType()
	if issuer == "" || subject == "" || primaryType == "" {
		return nil
	}

	for _, existing := range stored {
		if existing.IssuerID() == issuer &&
			existing.SubjectIdentifier() == subject &&
			existing.PrimaryType() == primaryType {
			return existing
		}
	}
	return nil
}
