package ports

import "github.com/layer-3/catalog/core"

// TokenCodec converts between claim sets and signed tokens
type TokenCodec interface {
	Encode(claims *core.Claims) (string, error)
	// DecodeAndVerify checks signature, expiry, issuer and audience in one pass
	DecodeAndVerify(token string, issuer string, audience string) (*core.Claims, error)
}
