//go:build tools

package tools

import (
	_ "github.com/josephspurrier/goversioninfo/cmd/goversioninfo"
)
