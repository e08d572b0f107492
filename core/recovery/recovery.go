package recovery

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leofalp/songscene/internal/utils"
)

// diagnosticTextLen bounds the raw text attached to fallback log records.
const diagnosticTextLen = 500

// Parser recovers media mentions from raw completion text. A Parser is
// immutable after construction and safe for concurrent use.
type Parser struct {
	shape  Shape
	repair RepairStrategy
	logger *slog.Logger
}

// NewParser creates a Parser. Without options it accepts structured entries
// and repairs with RepairScan.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		shape:  ShapeStructured,
		repair: RepairScan,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// Recover runs the default parser over raw. It never fails: any text that
// cannot be recovered yields an empty result.
func Recover(raw string) Result {
	return defaultParser.Recover(raw)
}

// Shape returns the configured entry form.
func (p *Parser) Shape() Shape {
	return p.shape
}

// Recover returns the media mentions found in raw, or an empty result.
// Fallbacks are logged at warn level with the failing stage.
func (p *Parser) Recover(raw string) Result {
	result, _ := p.Parse(raw)
	return result
}

// Parse runs the same pipeline as Recover and additionally returns the error
// that caused a fallback (ErrNoJSONFound, ErrUnrepairable or
// ErrShapeMismatch, wrapped). The result is always usable: on error it is
// empty. Rejected entries never produce an error.
func (p *Parser) Parse(raw string) (Result, error) {
	logger := p.log()

	region, err := extractRegion(raw)
	if err != nil {
		return p.fail(StageExtract, raw, err)
	}

	repaired := p.repairRegion(region)
	if repaired != region {
		logger.Debug("llm response repaired",
			slog.String("stage", string(StageRepair)),
			slog.String("strategy", p.repair.String()),
			slog.String("repaired", utils.TruncateString(repaired, diagnosticTextLen)),
		)
	}

	if !json.Valid([]byte(repaired)) {
		return p.fail(StageParse, raw, fmt.Errorf("%w: %s", ErrUnrepairable, utils.TruncateString(repaired, diagnosticTextLen)))
	}

	elements, err := locations([]byte(repaired))
	if err != nil {
		return p.fail(StageParse, raw, err)
	}

	shape := p.resolveShape(elements)
	list := make(MediaList, 0, len(elements))
	for i, element := range elements {
		entry, err := decodeEntry(element, shape)
		if err != nil {
			logger.Debug("llm response entry dropped",
				slog.String("stage", string(StageValidate)),
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		list = append(list, entry)
	}

	return Result{Locations: list}, nil
}

// locations returns the raw elements of the top-level "locations" array.
func locations(doc []byte) ([]json.RawMessage, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(doc, &top); err != nil {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrShapeMismatch)
	}

	raw, ok := top["locations"]
	if !ok {
		return nil, fmt.Errorf("%w: no locations key", ErrShapeMismatch)
	}
	if kindOf(raw) != '[' {
		return nil, fmt.Errorf("%w: locations is not an array", ErrShapeMismatch)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	return elements, nil
}

func (p *Parser) resolveShape(elements []json.RawMessage) Shape {
	if p.shape != ShapeAuto {
		return p.shape
	}
	if len(elements) > 0 && kindOf(elements[0]) == '"' {
		return ShapeCompact
	}
	return ShapeStructured
}

func (p *Parser) fail(stage Stage, raw string, err error) (Result, error) {
	p.log().Warn("llm response recovery failed",
		slog.String("stage", string(stage)),
		slog.String("error", err.Error()),
		slog.String("raw", utils.TruncateString(strings.TrimSpace(raw), diagnosticTextLen)),
	)
	return Empty(), err
}

func (p *Parser) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}
