package recovery

import "errors"

var (
	// ErrNoJSONFound is returned when the text contains no '{' to anchor on.
	ErrNoJSONFound = errors.New("recovery: no JSON object found")

	// ErrUnrepairable is returned when the repaired region is still not valid JSON.
	ErrUnrepairable = errors.New("recovery: repaired text is not valid JSON")

	// ErrShapeMismatch is returned when the parsed document is not an object
	// holding a "locations" array.
	ErrShapeMismatch = errors.New("recovery: missing locations array")

	// ErrEntryInvalid marks a single rejected element. It never aborts a parse.
	ErrEntryInvalid = errors.New("recovery: invalid entry")
)

// Stage names the pipeline step that absorbed a failure. It is attached to
// diagnostic log records.
type Stage string

const (
	StageExtract  Stage = "extract"
	StageRepair   Stage = "repair"
	StageParse    Stage = "parse"
	StageValidate Stage = "validate"
)
