// Copyright © 2024 The Gide authors

package toolexec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
)

// Command is a configured tool invocation.
type Command struct {
	Name string
	Args []string
}

// String returns the command line as it would be typed in a shell.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// ParseCommand splits a configured command line such as "gofmt -e -s"
// into a Command. Shell quoting is honored.
func ParseCommand(line string) (Command, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return Command{}, fmt.Errorf("parsing command %q: %w", line, err)
	}
	if len(words) == 0 {
		return Command{}, errors.New("empty command")
	}
	return Command{Name: words[0], Args: words[1:]}, nil
}

// ParseCommands parses every line with ParseCommand.
func ParseCommands(lines []string) ([]Command, error) {
	cmds := make([]Command, 0, len(lines))
	for _, line := range lines {
		c, err := ParseCommand(line)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}
