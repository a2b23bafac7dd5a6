// Package rpc exposes the account, notes, auth and billing services as JSON
// procedures.
//
// Every procedure is POST /<router>.<procedure> with a JSON object body and
// answers {"data": {...}} or {"error": {"code", "message"}}. Procedures are
// public, protected (a database user is required) or gated on a permission
// that the caller's access level in the active account must grant:
//
//	member      account.read, notes.read
//	read-write  notes.write, ai.generate
//	admin       account.manage, members.manage, ownership.claim, notes.delete
//	owner       members.delete, billing.manage
//
// Domain errors are mapped by Classify: missing rows become 404, exhausted
// plan limits 402 with code "limit_reached", rule violations 400, missing
// identity 401 and missing permissions 403.
package rpc
