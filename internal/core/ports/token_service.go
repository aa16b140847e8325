package ports

// TokenClaims is the identity a verified access token carries. The role is a
// claim-time snapshot, not an authoritative store lookup.
type TokenClaims struct {
	Username string
	Role     string
}

// TokenService issues and verifies the two token kinds.
//
// Verify never panics on untrusted input; it returns domain.ErrTokenExpired
// for a token past its expiry and domain.ErrTokenMalformed for anything that
// fails structural or signature checks.
type TokenService interface {
	IssueAccess(username, role string) (string, error)
	IssueRefresh() (string, error)
	Verify(token string) (TokenClaims, error)
}
