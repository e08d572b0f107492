package recovery

import (
	"fmt"
	"log/slog"
	"strings"
)

// Shape selects which entry form the parser accepts. Two incompatible
// payload schemas exist: plain strings and structured records.
type Shape int

const (
	// ShapeStructured accepts only objects with type, title and year.
	ShapeStructured Shape = iota

	// ShapeCompact accepts only non-blank strings.
	ShapeCompact

	// ShapeAuto decides once per document from the first array element:
	// a string selects ShapeCompact, anything else (including an empty
	// array) selects ShapeStructured. The choice then applies to every
	// element of that document.
	ShapeAuto
)

func (s Shape) String() string {
	switch s {
	case ShapeStructured:
		return "structured"
	case ShapeCompact:
		return "compact"
	case ShapeAuto:
		return "auto"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// ParseShape parses "structured", "compact" or "auto" (case-insensitive).
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "structured", "":
		return ShapeStructured, nil
	case "compact":
		return ShapeCompact, nil
	case "auto":
		return ShapeAuto, nil
	default:
		return 0, fmt.Errorf("unknown shape %q (want structured, compact or auto)", s)
	}
}

// RepairStrategy selects how the extracted region is patched before the
// strict parse.
type RepairStrategy int

const (
	// RepairScan walks the region once, tracking string literals, removes
	// trailing commas and, when the text is truncated, cuts back to the last
	// complete array element before closing the open containers.
	RepairScan RepairStrategy = iota

	// RepairBalance removes trailing commas with a regular expression and,
	// when the text does not end with '}', appends the missing ']' then '}'
	// counted over the whole region. Brackets inside string values are
	// miscounted.
	RepairBalance

	// RepairLenient runs RepairScan and hands the result to jsonrepair when
	// it is still not valid JSON (single quotes, unquoted keys, comments).
	RepairLenient
)

func (r RepairStrategy) String() string {
	switch r {
	case RepairScan:
		return "scan"
	case RepairBalance:
		return "balance"
	case RepairLenient:
		return "lenient"
	default:
		return fmt.Sprintf("RepairStrategy(%d)", int(r))
	}
}

// ParseRepairStrategy parses "scan", "balance" or "lenient" (case-insensitive).
func ParseRepairStrategy(s string) (RepairStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scan", "":
		return RepairScan, nil
	case "balance":
		return RepairBalance, nil
	case "lenient":
		return RepairLenient, nil
	default:
		return 0, fmt.Errorf("unknown repair strategy %q (want scan, balance or lenient)", s)
	}
}

// Option configures a Parser.
type Option func(*Parser)

// WithShape sets the accepted entry form. Default: ShapeStructured.
func WithShape(shape Shape) Option {
	return func(p *Parser) {
		p.shape = shape
	}
}

// WithRepairStrategy sets the repair strategy. Default: RepairScan.
func WithRepairStrategy(strategy RepairStrategy) Option {
	return func(p *Parser) {
		p.repair = strategy
	}
}

// WithLogger sets the logger used for fallback diagnostics. When unset the
// parser logs through slog.Default() at call time.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}
