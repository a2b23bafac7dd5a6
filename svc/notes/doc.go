// Package notes manages account notes and AI-generated note drafts. Every
// operation is scoped to the caller's active account.
package notes
