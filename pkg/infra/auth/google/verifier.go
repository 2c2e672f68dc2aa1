package google

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/NeuralTrust/MetaGuard/pkg/infra/httpx"
	"github.com/valyala/fastjson"
)

var (
	ErrInvalidIDToken = errors.New("invalid google id token")
	ErrAudience       = errors.New("google id token issued for another client")
	ErrNoEmail        = errors.New("google id token has no verified email")
	ErrUnavailable    = errors.New("google token verification unavailable")
)

var issuers = map[string]struct{}{
	"accounts.google.com":         {},
	"https://accounts.google.com": {},
}

type Identity struct {
	Subject string
	Email   string
	Name    string
}

//go:generate mockery --name=Verifier --dir=. --output=./mocks --filename=verifier_mock.go --case=underscore
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

type verifier struct {
	client       httpx.Client
	breaker      httpx.Breaker
	clientID     string
	tokenInfoURL string
}

func NewVerifier(client httpx.Client, breaker httpx.Breaker, clientID, tokenInfoURL string) Verifier {
	return &verifier{
		client:       client,
		breaker:      breaker,
		clientID:     clientID,
		tokenInfoURL: tokenInfoURL,
	}
}

func (v *verifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, ErrInvalidIDToken
	}

	var (
		status int
		body   []byte
	)
	uri := v.tokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	err := v.breaker.Execute(func() error {
		var getErr error
		status, body, getErr = v.client.Get(ctx, uri)
		if getErr != nil {
			return getErr
		}
		if status >= 500 {
			return fmt.Errorf("tokeninfo status %d", status)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if status != 200 {
		return nil, ErrInvalidIDToken
	}

	info, err := fastjson.ParseBytes(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIDToken, err)
	}
	if _, ok := issuers[stringField(info, "iss")]; !ok {
		return nil, ErrInvalidIDToken
	}
	if v.clientID == "" || stringField(info, "aud") != v.clientID {
		return nil, ErrAudience
	}
	email := stringField(info, "email")
	if email == "" || !emailVerified(info.Get("email_verified")) {
		return nil, ErrNoEmail
	}
	return &Identity{
		Subject: stringField(info, "sub"),
		Email:   strings.ToLower(email),
		Name:    stringField(info, "name"),
	}, nil
}

func stringField(v *fastjson.Value, key string) string {
	return string(v.GetStringBytes(key))
}

// tokeninfo sends email_verified as the string "true"; a missing claim is treated as verified.
func emailVerified(v *fastjson.Value) bool {
	if v == nil {
		return true
	}
	switch v.Type() {
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeString:
		return string(v.GetStringBytes()) != "false"
	default:
		return true
	}
}
