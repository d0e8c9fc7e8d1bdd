package api

import (
	"context"
	"errors"
)

type keyType string

const sessionIDKey keyType = "sessionID"

// ctxWithSessionID adds the browser session id to the context
func ctxWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// ctxGetSessionID retrieves the browser session id from the context
func ctxGetSessionID(ctx context.Context) (string, error) {
	return ctxGetStringValue(ctx, sessionIDKey)
}

// ctxGetStringValue is a helper function to retrieve string values from the context by key
func ctxGetStringValue(ctx context.Context, key keyType) (string, error) {
	if ctxValue := ctx.Value(key); ctxValue == nil {
		return "", errors.New("key not found in context")
	} else if valueAsString, ok := ctxValue.(string); !ok {
		return "", errors.New("value is not of type `string`")
	} else {
		return valueAsString, nil
	}
}
