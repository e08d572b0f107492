package recovery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leofalp/songscene/internal/utils"
)

// entryPreviewLen bounds the element text quoted in ErrEntryInvalid messages.
const entryPreviewLen = 80

// MediaType is the kind of production a song appeared in.
type MediaType string

const (
	MediaFilm   MediaType = "Filme"
	MediaSeries MediaType = "Série"
	MediaNovela MediaType = "Novela"
)

// Media is the structured form of a mention. Type, Title and Year are
// required; everything else is optional and omitted from JSON when empty.
type Media struct {
	Type     MediaType `json:"type"`
	Title    string    `json:"title"`
	Year     int       `json:"year"`
	Season   string    `json:"season,omitempty"`
	Episode  string    `json:"episode,omitempty"`
	Rating   string    `json:"rating,omitempty"`
	Singer   string    `json:"singer,omitempty"`
	ImageURL string    `json:"image_url,omitempty"`
}

// MediaEntry is one recovered mention, in either compact or structured form.
// A nil Media means the entry is compact and Text carries the whole mention,
// e.g. "Filme: O Guarda-Costas (1992)".
type MediaEntry struct {
	Text  string
	Media *Media
}

// Compact returns a compact entry.
func Compact(text string) MediaEntry {
	return MediaEntry{Text: text}
}

// Structured returns a structured entry holding a copy of m.
func Structured(m Media) MediaEntry {
	return MediaEntry{Media: &m}
}

// IsCompact reports whether the entry is a plain string mention.
func (e MediaEntry) IsCompact() bool {
	return e.Media == nil
}

// Valid reports whether the entry would survive filtering: compact entries
// need non-blank text, structured entries need type, title and a non-zero year.
func (e MediaEntry) Valid() bool {
	if e.IsCompact() {
		return strings.TrimSpace(e.Text) != ""
	}
	return e.Media.Type != "" && e.Media.Title != "" && e.Media.Year != 0
}

func (e MediaEntry) String() string {
	if e.IsCompact() {
		return e.Text
	}
	return fmt.Sprintf("%s: %s (%d)", e.Media.Type, e.Media.Title, e.Media.Year)
}

// MarshalJSON encodes compact entries as a JSON string and structured entries
// as an object.
func (e MediaEntry) MarshalJSON() ([]byte, error) {
	if e.IsCompact() {
		return json.Marshal(e.Text)
	}
	return json.Marshal(e.Media)
}

// UnmarshalJSON accepts either a JSON string or an object. Object fields are
// decoded leniently, see decodeMedia.
func (e *MediaEntry) UnmarshalJSON(data []byte) error {
	switch kindOf(data) {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*e = Compact(text)
		return nil
	case '{':
		media, err := decodeMedia(data)
		if err != nil {
			return err
		}
		*e = Structured(media)
		return nil
	default:
		return fmt.Errorf("%w: expected string or object, got %s", ErrEntryInvalid, truncateRaw(data))
	}
}

// MediaList is an ordered list of mentions. Duplicates are kept.
type MediaList []MediaEntry

// MarshalJSON encodes a nil list as [] so an empty result is never null.
func (l MediaList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]MediaEntry(l))
}

// Result is the recovered payload as served to callers.
type Result struct {
	Locations MediaList `json:"locations"`
}

// Empty returns the fallback result.
func Empty() Result {
	return Result{Locations: MediaList{}}
}

// Validate filters list with the same predicate the parser applies.
// Filtering an already validated list returns an equal list.
func Validate(list MediaList, shape Shape) MediaList {
	if shape == ShapeAuto {
		shape = ShapeStructured
		if len(list) > 0 && list[0].IsCompact() {
			shape = ShapeCompact
		}
	}

	out := make(MediaList, 0, len(list))
	for _, entry := range list {
		if entry.IsCompact() != (shape == ShapeCompact) {
			continue
		}
		if entry.Valid() {
			out = append(out, entry)
		}
	}
	return out
}

// decodeEntry turns one raw array element into an entry of the given shape.
// Any error wraps ErrEntryInvalid.
func decodeEntry(raw json.RawMessage, shape Shape) (MediaEntry, error) {
	kind := kindOf(raw)

	var entry MediaEntry
	switch {
	case shape == ShapeCompact && kind == '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return MediaEntry{}, fmt.Errorf("%w: %v", ErrEntryInvalid, err)
		}
		entry = Compact(text)
	case shape == ShapeStructured && kind == '{':
		media, err := decodeMedia(raw)
		if err != nil {
			return MediaEntry{}, err
		}
		entry = Structured(media)
	default:
		return MediaEntry{}, fmt.Errorf("%w: %s entry expected, got %s", ErrEntryInvalid, shape, truncateRaw(raw))
	}

	if !entry.Valid() {
		return MediaEntry{}, fmt.Errorf("%w: missing required fields in %s", ErrEntryInvalid, truncateRaw(raw))
	}
	return entry, nil
}

// decodeMedia decodes a structured entry. Models are sloppy with types, so
// string fields accept numbers ("season": 2) and the year accepts a numeric
// string ("1992"). A year that is not an integer is treated as missing.
func decodeMedia(raw []byte) (Media, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return Media{}, fmt.Errorf("%w: %v", ErrEntryInvalid, err)
	}

	return Media{
		Type:     MediaType(stringField(fields["type"])),
		Title:    stringField(fields["title"]),
		Year:     yearField(fields["year"]),
		Season:   stringField(fields["season"]),
		Episode:  stringField(fields["episode"]),
		Rating:   stringField(fields["rating"]),
		Singer:   stringField(fields["singer"]),
		ImageURL: stringField(fields["image_url"]),
	}, nil
}

func stringField(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case json.Number:
		return value.String()
	default:
		return ""
	}
}

func yearField(v any) int {
	var text string
	switch value := v.(type) {
	case json.Number:
		text = value.String()
	case string:
		text = strings.TrimSpace(value)
	default:
		return 0
	}

	if year, err := strconv.Atoi(text); err == nil {
		return year
	}
	// 1992.0 is still a year
	if f, err := strconv.ParseFloat(text, 64); err == nil && f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
		return int(f)
	}
	return 0
}

// kindOf returns the first non-space byte of a JSON value, or 0.
func kindOf(raw []byte) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func truncateRaw(raw []byte) string {
	return utils.TruncateString(string(raw), entryPreviewLen)
}
