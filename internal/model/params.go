package model

import "strings"

// Param is a single named property parameter.
type Param struct {
	Name   string
	Values []string
}

// Params is an ordered parameter bag. Names are compared case-insensitively
// and stored upper-cased. The converters interpret only the TYPE key; every
// other entry passes through untouched.
type Params []Param

// ParamType is the legacy TYPE parameter carrying the audio format.
const ParamType = "TYPE"

// Get returns the first value of the named parameter, or "".
func (p Params) Get(name string) string {
	name = strings.ToUpper(name)
	for _, param := range p {
		if param.Name == name && len(param.Values) > 0 {
			return param.Values[0]
		}
	}
	return ""
}

// Set replaces all values of the named parameter, keeping its position when it
// already exists. An empty value removes the parameter.
func (p *Params) Set(name, value string) {
	name = strings.ToUpper(name)
	if value == "" {
		p.Del(name)
		return
	}
	for i, param := range *p {
		if param.Name == name {
			(*p)[i].Values = []string{value}
			return
		}
	}
	*p = append(*p, Param{Name: name, Values: []string{value}})
}

// Del removes the named parameter.
func (p *Params) Del(name string) {
	name = strings.ToUpper(name)
	out := (*p)[:0]
	for _, param := range *p {
		if param.Name != name {
			out = append(out, param)
		}
	}
	*p = out
}

// Clone returns a deep copy.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for i, param := range p {
		out[i] = Param{Name: param.Name, Values: append([]string(nil), param.Values...)}
	}
	return out
}
