// Package api exposes the divination calculators, stored results,
// comparisons, feedback, analytics and company rosters over HTTP under
// /api. Handlers decode and validate JSON bodies with validator tags, call
// one service, and answer either with the operation's response DTO or with
// the error envelope {"success": false, "error", "trace_id"}.
//
// Error messages returned to clients are Japanese and never carry internal
// detail; MapErrorToStatusCode and GetSafeErrorMessage translate service,
// store and domain errors. When bearer tokens are configured the owner
// middleware puts the token subject in the request context, and handlers
// refuse to act on results or companies of another owner.
package api
