package auth

import (
	"net/http"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// decoyHash is compared against when the user is unknown, so unknown
// users cost as much as wrong passwords.
var decoyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("decoy"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
})

// BasicAuthenticator authenticates requests with HTTP Basic credentials
// checked against bcrypt hashes.
type BasicAuthenticator struct {
	users map[string][]byte // username -> bcrypt hash
}

// NewBasicAuthenticator parses "user1:hash1,user2:hash2". Bcrypt hashes
// contain no colon, so the first colon of an entry ends the username.
func NewBasicAuthenticator(usersConfig string) (*BasicAuthenticator, error) {
	pairs, err := parsePairs(usersConfig, "basic auth")
	if err != nil {
		return nil, err
	}

	users := make(map[string][]byte, len(pairs))
	for user, hash := range pairs {
		users[user] = []byte(hash)
	}
	return &BasicAuthenticator{users: users}, nil
}

// Authenticate verifies Basic credentials. Unknown users and wrong
// passwords fail with the same error.
func (a *BasicAuthenticator) Authenticate(r *http.Request) (*Identity, error) {
	username, password, ok := r.BasicAuth()
	if !ok {
		return nil, ErrUnauthenticated
	}

	hash, known := a.users[username]
	if !known {
		hash = decoyHash()
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || !known {
		return nil, ErrInvalidCredentials
	}

	return &Identity{Method: MethodBasic, Subject: username}, nil
}

// Method returns MethodBasic.
func (a *BasicAuthenticator) Method() Method {
	return MethodBasic
}
