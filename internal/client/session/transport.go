package session

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/eliteglam/internal/common"
)

// Transport is an http.RoundTripper that authenticates requests with the
// session token and forgets the token when the server answers 401.
type Transport struct {
	Base    http.RoundTripper
	Session *Session
}

func NewTransport(base http.RoundTripper, s *Session) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Session: s}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	t.AttachToken(req)

	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	t.OnResponse(resp)
	return resp, nil
}

// AttachToken sets exactly one bearer Authorization header from the stored
// token. A stored value that is not a three-segment token is erased and the
// request goes out unauthenticated. Storage failures never fail the request.
func (t *Transport) AttachToken(req *http.Request) {
	ctx := req.Context()
	req.Header.Del(common.AuthorizationHeaderName)

	token, err := t.Session.Token(ctx)
	if err != nil {
		t.Session.logger.Warn(ctx, "could not read stored token", "error", err)
		return
	}
	if token == "" {
		return
	}

	token = common.StripBearer(token)
	if !common.HasTokenShape(token) {
		t.Session.discardToken(ctx, "malformed token")
		return
	}

	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
}

// OnResponse erases the stored token when the server rejected it.
func (t *Transport) OnResponse(resp *http.Response) {
	if resp.StatusCode != http.StatusUnauthorized {
		return
	}
	ctx := context.Background()
	if resp.Request != nil {
		ctx = resp.Request.Context()
	}
	t.Session.discardToken(ctx, "unauthorized response")
}
