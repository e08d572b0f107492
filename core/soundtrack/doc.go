// Package soundtrack asks a language model where a song was used in films,
// series and novelas, and recovers the answer into a [recovery.Result].
//
// A [Finder] owns the prompt, the upstream call and the recovery step. Input
// and upstream failures are returned as errors; a malformed completion is not
// an error and yields an empty result. [StatusCode] and [Message] map errors
// to what an HTTP layer would answer.
package soundtrack
