// Package auth maps identity provider access tokens onto database users.
//
// The provider signs HS256 tokens whose subject is the provider's user id.
// Middleware verifies the token, creates the database user with a personal
// account on first sight, and picks the account the request acts in: the one
// named by the preferred-active-account-id cookie when the user is an
// accepted member there, otherwise the first accepted membership.
package auth
