package router

import "strconv"

// Params holds the parameter bindings made along a matched chain,
// keyed by segment name without the ':' marker.
type Params map[string]string

// Get returns the binding for name, or def when absent.
func (p Params) Get(name, def string) string {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// Int parses the binding for name as an int. The second return is
// false when the binding is absent or not an integer.
func (p Params) Int(name string) (int, bool) {
	v, ok := p[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Int64 parses the binding for name as an int64.
func (p Params) Int64(name string) (int64, bool) {
	v, ok := p[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Bool parses the binding for name as a bool, accepting the forms
// strconv.ParseBool does.
func (p Params) Bool(name string) (bool, bool) {
	v, ok := p[name]
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

// Float parses the binding for name as a float64.
func (p Params) Float(name string) (float64, bool) {
	v, ok := p[name]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
