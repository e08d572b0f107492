// Package ai defines the provider-agnostic request, response and error types
// shared by chat completion providers. A provider maps these types to its own
// wire format so the rest of the codebase stays decoupled from vendor details.
//
// Requests are described by [ChatRequest] and answered with [ChatResponse].
// Failed calls surface as [*APIError], whose kind ([ErrInsufficientBalance],
// [ErrInvalidCredentials], [ErrRateLimited], [ErrProviderFailure]) is matched
// with errors.Is.
package ai
