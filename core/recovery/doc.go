// Package recovery turns raw LLM completion text into a validated list of
// media mentions (the movies, series and novelas a song appeared in).
//
// Models rarely return clean JSON: the payload is wrapped in prose, cut off by
// the token budget, or carries trailing commas. The [Parser] runs a single
// pass over the text (region extraction, syntactic repair, strict parse,
// entry filtering) and collapses every fatal failure into an empty [Result].
// The caller always gets a value it can serialize.
//
// The main entry points are [Recover] for the default configuration and
// [NewParser] with [WithShape] / [WithRepairStrategy] when the payload schema
// or repair behaviour must be chosen explicitly. [Parser.Parse] exposes the
// same pipeline together with the error that caused a fallback.
package recovery
