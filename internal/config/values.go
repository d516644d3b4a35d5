package config

import "github.com/tidwall/gjson"

// Values is a read-only named-value accessor over the loaded configuration
// document. Paths use gjson dot syntax, e.g. "limiters.0.maxTokens" or
// "trackers.#(name==order.place).threshold".
//
// This is the narrow surface other subsystems consume when they need a
// config value by name without depending on the typed model.
type Values struct {
	raw []byte
}

// Exists reports whether a value is present at path.
func (v Values) Exists(path string) bool {
	return gjson.GetBytes(v.raw, path).Exists()
}

// String returns the string at path, or def when absent.
func (v Values) String(path, def string) string {
	if r := gjson.GetBytes(v.raw, path); r.Exists() {
		return r.String()
	}
	return def
}

// Int returns the integer at path, or def when absent.
func (v Values) Int(path string, def int64) int64 {
	if r := gjson.GetBytes(v.raw, path); r.Exists() {
		return r.Int()
	}
	return def
}

// Float returns the float at path, or def when absent.
func (v Values) Float(path string, def float64) float64 {
	if r := gjson.GetBytes(v.raw, path); r.Exists() {
		return r.Float()
	}
	return def
}
