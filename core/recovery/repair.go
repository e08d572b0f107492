package recovery

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

var trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)

// repair applies the configured strategy to an extracted region.
func (p *Parser) repairRegion(region string) string {
	switch p.repair {
	case RepairBalance:
		return repairBalance(region)
	case RepairLenient:
		return repairLenient(region)
	default:
		return repairScan(region)
	}
}

// repairBalance removes trailing commas and, if the region does not end
// with '}', appends the unmatched ']' and then '}' counted over the whole
// region. Arrays close before their enclosing object.
func repairBalance(region string) string {
	repaired := trailingCommaPattern.ReplaceAllString(region, "$1")
	if strings.HasSuffix(repaired, "}") {
		return repaired
	}

	brackets := strings.Count(repaired, "[") - strings.Count(repaired, "]")
	braces := strings.Count(repaired, "{") - strings.Count(repaired, "}")

	var b strings.Builder
	b.Grow(len(repaired) + max(brackets, 0) + max(braces, 0))
	b.WriteString(repaired)
	for range max(brackets, 0) {
		b.WriteByte(']')
	}
	for range max(braces, 0) {
		b.WriteByte('}')
	}
	return b.String()
}

// repairScan walks the region once, ignoring structural characters inside
// string literals. Commas directly followed (modulo whitespace) by a closer
// are dropped. If containers are still open at the end of input, the output
// is cut back to the last safe point and the containers open at that point
// are closed innermost first.
//
// Safe points are positions where every array element written so far is
// complete: just after '[', just before a comma separating array elements,
// just after a string or object that is an array element, and just after ']'.
// None of these count while an object is open inside an array, since that
// object is itself an unfinished element. A trailing element that was only
// partially written never survives.
func repairScan(region string) string {
	var (
		out      = make([]byte, 0, len(region)+8)
		stack    []byte
		inString bool
		escaped  bool

		cut      = -1
		cutStack []byte
	)

	mark := func() {
		cut = len(out)
		cutStack = append(cutStack[:0], stack...)
	}
	top := func() byte {
		if len(stack) == 0 {
			return 0
		}
		return stack[len(stack)-1]
	}
	// inElement reports whether an object is open inside an array.
	inElement := func() bool {
		inArray := false
		for _, open := range stack {
			if open == '[' {
				inArray = true
			} else if inArray {
				return true
			}
		}
		return false
	}

	for i := 0; i < len(region); i++ {
		c := region[i]

		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
				if top() == '[' && !inElement() {
					mark()
				}
			}
			continue
		}

		switch c {
		case '"':
			inString = true
			out = append(out, c)
		case '{', '[':
			stack = append(stack, c)
			out = append(out, c)
			if c == '[' && !inElement() {
				mark()
			}
		case '}', ']':
			out = dropTrailingComma(out)
			if cut > len(out) {
				cut = len(out)
			}
			if open := top(); (c == '}' && open == '{') || (c == ']' && open == '[') {
				stack = stack[:len(stack)-1]
			}
			out = append(out, c)
			if (c == ']' || top() == '[' || len(stack) == 0) && !inElement() {
				mark()
			}
		case ',':
			if top() == '[' && !inElement() {
				mark()
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}

	if !inString && len(stack) == 0 {
		return string(out)
	}
	if cut < 0 {
		return string(out)
	}

	out = dropTrailingComma(out[:cut])
	for i := len(cutStack) - 1; i >= 0; i-- {
		if cutStack[i] == '[' {
			out = append(out, ']')
		} else {
			out = append(out, '}')
		}
	}
	return string(out)
}

// dropTrailingComma removes a comma that is the last non-space byte of out.
func dropTrailingComma(out []byte) []byte {
	i := len(out) - 1
	for i >= 0 && (out[i] == ' ' || out[i] == '\t' || out[i] == '\n' || out[i] == '\r') {
		i--
	}
	if i >= 0 && out[i] == ',' {
		return append(out[:i], out[i+1:]...)
	}
	return out
}

// repairLenient falls back to jsonrepair when the scan repair is not enough.
func repairLenient(region string) string {
	scanned := repairScan(region)
	if json.Valid([]byte(scanned)) {
		return scanned
	}

	repaired, err := jsonrepair.JSONRepair(scanned)
	if err != nil {
		return scanned
	}
	return repaired
}
