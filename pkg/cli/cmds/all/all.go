// Package all registers every command set with the shell.
package all

import (
	// command sets
	_ "github.com/robotalks/servo.go/pkg/cli/cmds/servo"
)
