// Package httputil provides HTTP handler utilities for consistent error handling,
// JSON encoding/decoding, and request parsing.
//
// # Response Helpers
//
//	httputil.WriteSuccess(w, store)
//	httputil.WriteCreated(w, product)
//	httputil.WriteBadRequest(w, "name is required")
//
// Service errors are mapped to status codes in one place:
//
//	if err != nil {
//	    httputil.WriteServiceError(w, r, err)
//	    return
//	}
//
// Access denials become 403 with the generic body {"error":"forbidden"}; the
// resource, action and reason are only logged.
//
// # Request Parsing
//
//	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
//	page, ok := httputil.ParsePageOrError(w, r, "from")
//
// # Middleware
//
//	handler := httputil.Chain(
//	    httputil.RequestIDMiddleware(logger),
//	    httputil.LoggingMiddleware,
//	    httputil.RecoveryMiddleware,
//	)(router)
package httputil
