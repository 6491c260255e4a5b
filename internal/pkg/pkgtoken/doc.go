// Package pkgtoken issues and verifies the bearer tokens handed out at
// sign-in and sign-up. Tokens are HS256-signed JWTs whose subject is the user ID.
package pkgtoken
