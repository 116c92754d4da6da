package security

import "context"

type identityKey struct{}

// WithIdentity returns a context carrying the authenticated operator.
func WithIdentity(ctx context.Context, claims *AdminClaims) context.Context {
	return context.WithValue(ctx, identityKey{}, claims)
}

// ClaimsFromContext returns the claims stored by WithIdentity, if any.
func ClaimsFromContext(ctx context.Context) (*AdminClaims, bool) {
	claims, ok := ctx.Value(identityKey{}).(*AdminClaims)
	return claims, ok && claims != nil
}

// CurrentIdentity returns the reviewer identity for the request, which is
// the operator's e-mail. It returns ErrNoIdentity for anonymous requests.
func CurrentIdentity(ctx context.Context) (string, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.Email == "" {
		return "", ErrNoIdentity
	}
	return claims.Email, nil
}
