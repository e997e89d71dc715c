// Copyright © 2024 The Gide authors

package main

import "github.com/luthersystems/gide/cmd"

func main() {
	cmd.Execute()
}
