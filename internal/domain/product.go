package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Unknown marks a field a source did not supply. Responses always carry every
// canonical field, defaulting to this marker instead of omitting the key.
const Unknown = "N/A"

// Canonical raw field keys. Source mappers translate their catalog's payload
// into these keys; nothing downstream assumes any of them is present.
const (
	FieldTitle         = "title"
	FieldCurrentPrice  = "currentPrice"
	FieldOriginalPrice = "maxRetailPrice"
	FieldDiscount      = "discount"
	FieldRating        = "rating"
	FieldRatingCount   = "ratingCount"
	FieldLink          = "link"
	FieldImage         = "image"
)

// RawProduct is one product exactly as a source reported it. Field names and
// availability vary per source, so it stays an opaque map with defaulting
// accessors rather than a struct.
type RawProduct map[string]any

// Title returns the product title, or Unknown if the source omitted it.
func (p RawProduct) Title() string {
	return p.StringField(FieldTitle)
}

// StringField returns the named field as a string. Numeric values are
// stringified; missing, nil, or blank values become Unknown.
func (p RawProduct) StringField(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return Unknown
	}
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return Unknown
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// IntField returns the named field as an int, tolerating numeric strings with
// thousands separators. Anything unparseable is 0.
func (p RawProduct) IntField(key string) int {
	switch t := p[key].(type) {
	case int:
		return t
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(t), ",", ""))
		if err == nil {
			return n
		}
	}
	return 0
}
