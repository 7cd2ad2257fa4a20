// Package api provides the authenticated request client for the storefront
// backend.
//
// Every network call the application makes funnels through Client. The
// client reads the bearer token straight from the persistent storage slot at
// call time (not from the session store's in-memory copy), so it reflects the
// latest persisted credential even when invoked before the session has
// rehydrated.
//
// # Authorization failure
//
// A 401 response from any authenticated call is never returned to the
// caller. The client first fires the auth-failure hook registered via
// OnAuthFailure — the session store registers its Logout there at startup —
// and then fails with ErrAuthRequired:
//
//	resp, err := client.Do(ctx, http.MethodPost, "/api/products", body)
//	if errors.Is(err, api.ErrAuthRequired) {
//	    // session has already been torn down
//	}
//
// The hook indirection exists to break the import cycle between this package
// and the session store; the client never resolves the session itself.
//
// # Errors
//
// Typed endpoint helpers (Login, Register, Me, Products, CreateProduct)
// translate non-2xx responses into *APIError values carrying the HTTP status
// and the backend-supplied message when one is present. The raw Do method
// returns non-401 responses as-is and leaves status inspection to the caller.
package api
