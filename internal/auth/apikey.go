package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader is the HTTP header carrying an operator API key.
const APIKeyHeader = "X-API-Key"

type apiKey struct {
	digest [sha256.Size]byte
	name   string
}

// APIKeyAuthenticator authenticates requests by the X-API-Key header.
type APIKeyAuthenticator struct {
	keys []apiKey
}

// NewAPIKeyAuthenticator parses "key1:name1,key2:name2".
func NewAPIKeyAuthenticator(keysConfig string) (*APIKeyAuthenticator, error) {
	pairs, err := parsePairs(keysConfig, "apikey auth")
	if err != nil {
		return nil, err
	}

	a := &APIKeyAuthenticator{keys: make([]apiKey, 0, len(pairs))}
	for key, name := range pairs {
		a.keys = append(a.keys, apiKey{digest: sha256.Sum256([]byte(key)), name: name})
	}
	return a, nil
}

// Authenticate compares the presented key against every configured key.
// Digests are compared in constant time and the loop never exits early, so
// timing does not reveal which key, if any, matched.
func (a *APIKeyAuthenticator) Authenticate(r *http.Request) (*Identity, error) {
	presented := r.Header.Get(APIKeyHeader)
	if presented == "" {
		return nil, ErrUnauthenticated
	}

	digest := sha256.Sum256([]byte(presented))
	var subject string
	for _, k := range a.keys {
		if subtle.ConstantTimeCompare(digest[:], k.digest[:]) == 1 {
			subject = k.name
		}
	}

	if subject == "" {
		return nil, ErrInvalidAPIKey
	}
	return &Identity{Method: MethodAPIKey, Subject: subject}, nil
}

// Method returns MethodAPIKey.
func (a *APIKeyAuthenticator) Method() Method {
	return MethodAPIKey
}
