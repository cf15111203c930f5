package rpc

import "net/http"

// RequestOption mutates outgoing requests before HttpClient sends them.
type RequestOption interface {
	Set(req *http.Request)
}

type bearerAuth struct {
	token string
}

// AuthWithApiKey attaches the shared platform token as a bearer
// Authorization header, matching what middleware.Authenticator expects.
func AuthWithApiKey(apiKey string) RequestOption {
	return bearerAuth{token: apiKey}
}

func (a bearerAuth) Set(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.token)
}
