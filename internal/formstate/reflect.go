// Package formstate reflects parsed URL parameters onto checkbox groups and
// reads checked state back into query suffixes.
package formstate

import (
	"slices"
	"strings"

	"github.com/twels/front/internal/querycodec"
	"github.com/twels/front/internal/urlparam"
)

// LanguageParam names the language restriction checkbox group.
const LanguageParam = "lr"

// Checkbox is a control whose checked state follows a parameter.
type Checkbox interface {
	Value() string
	SetChecked(bool)
}

// Option is an in-memory checkbox used to render the page.
type Option struct {
	Name    string
	Label   string
	Val     string
	Checked bool
}

func (o *Option) Value() string      { return o.Val }
func (o *Option) SetChecked(on bool) { o.Checked = on }

// Reflect checks every box whose value equals the parameter (or is one of its
// values when the name repeated) and unchecks the rest. Nothing changes when
// the parameter is absent.
func Reflect[C Checkbox](params urlparam.Params, name string, boxes []C) {
	if !params.Has(name) {
		return
	}
	values := params.Values(name)
	for _, box := range boxes {
		box.SetChecked(slices.Contains(values, box.Value()))
	}
}

// CheckedValues returns the values of the checked options in order.
func CheckedValues(opts []*Option) []string {
	var out []string
	for _, o := range opts {
		if o.Checked {
			out = append(out, o.Val)
		}
	}
	return out
}

// AppendQuery returns "&name=v" for every value, escaped with URI component
// rules. An empty values slice yields "".
func AppendQuery(name string, values []string) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteByte('&')
		b.WriteString(querycodec.EscapeComponent(name))
		b.WriteByte('=')
		b.WriteString(querycodec.EscapeComponent(v))
	}
	return b.String()
}
