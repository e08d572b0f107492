// Package gemini implements [ai.Provider] on top of the Google Generative AI
// Go SDK.
//
// [New] reads GEMINI_API_KEY and GEMINI_API_BASE_URL from the environment.
// Requests with a json_object response format are sent with the
// application/json response MIME type, which Gemini honours natively.
package gemini
