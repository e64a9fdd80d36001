//go:build tools
// +build tools

package tools

import (
	_ "github.com/quasilyte/go-ruleguard/cmd/ruleguard"
	_ "golang.org/x/tools/cmd/goimports"
)
