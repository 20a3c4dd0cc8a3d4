package main

import "github.com/crn4/kr/cmd"

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
