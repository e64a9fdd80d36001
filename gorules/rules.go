//go:build ruleguard
// +build ruleguard

package gorules

import (
	"github.com/quasilyte/go-ruleguard/dsl"
)

// ForbidFmtErrorfWithoutArgs reports fmt.Errorf calls that should be errors.New
func ForbidFmtErrorfWithoutArgs(m dsl.Matcher) {
	m.Match(`fmt.Errorf($msg)`).
		Where(!m["msg"].Text.Matches(`.*%.*`)).
		Report(`use errors.New instead of fmt.Errorf with no format arguments`).
		Suggest(`errors.New($msg)`)
}

// ForbidErrorsCompare reports direct comparisons against sentinel errors
func ForbidErrorsCompare(m dsl.Matcher) {
	m.Match(`$err == $sentinel`, `$err != $sentinel`).
		Where(m["err"].Type.Is(`error`) && m["sentinel"].Text.Matches(`^Err[A-Z].*`)).
		Report(`use errors.Is to compare against sentinel errors`)
}
