// Package client wraps an [ai.Provider] with request defaults (model, system
// prompt, generation config, response format) and a middleware chain.
//
// A [Client] is built once with [New] and functional options and is safe for
// concurrent use: every [Client.SendMessage] call builds a fresh request and
// sends it as a single-turn conversation.
package client
