// Package api is the HTTP controller of the stores service.
//
// Routes are registered on a gorilla/mux router. The Authorization header, when
// present, carries the caller's numeric user id; requests without it run as
// the anonymous user and requests with a malformed one are rejected with 401.
// An optional Currency header asks for variant prices in that currency.
//
// Handlers decode the request, call one services.Service method and map its
// error through httputil.WriteServiceError, so every status code decision lives
// in one place.
package api
