// Package auth provides the credential store, password hashing and the JWT
// token issuer/verifier. Tokens embed the user id and role and are valid for
// a fixed window; role changes do not propagate to outstanding tokens.
package auth
