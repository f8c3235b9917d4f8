package domain

import (
	"encoding/json"
	"strconv"
)

// FeedRecord is one entry of the feed file. Records carry arbitrary fields;
// only id, source, author, content and the classification field are
// interpreted, everything else round-trips untouched. The feed is decoded
// with json.Number so numeric ids keep their literal form.
type FeedRecord map[string]any

// ID returns the record id as a string merge key. Records without a usable
// id return "" and are never matched by the merger.
func (r FeedRecord) ID() string {
	switch v := r["id"].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

func (r FeedRecord) Source() string  { return r.stringField("source") }
func (r FeedRecord) Author() string  { return r.stringField("author") }
func (r FeedRecord) Content() string { return r.stringField("content") }

// Label returns the classification label stored under field, or "" when the
// record is unclassified (field absent, not an object, or empty label).
func (r FeedRecord) Label(field string) string {
	c, ok := r[field].(map[string]any)
	if !ok {
		return ""
	}
	label, _ := c["label"].(string)
	return label
}

func (r FeedRecord) stringField(key string) string {
	s, _ := r[key].(string)
	return s
}
