package session

import (
	"context"
	"sync"
)

type sessionContextKey struct{}

type stateContextKey struct{}

// requestState memoises the missing-session resolution of one request.
type requestState struct {
	once sync.Once
	sess *Session
	err  error
}

// WithSession adds a session to the context
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// FromContext retrieves a session from the context
func FromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*Session)
	return session, ok && session != nil
}

// MustFromContext retrieves a session from the context or panics
func MustFromContext(ctx context.Context) *Session {
	session, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return session
}

func withState(ctx context.Context) context.Context {
	return context.WithValue(ctx, stateContextKey{}, &requestState{})
}

func stateFromContext(ctx context.Context) *requestState {
	st, _ := ctx.Value(stateContextKey{}).(*requestState)
	return st
}
