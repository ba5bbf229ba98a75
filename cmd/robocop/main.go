// Package main provides the robocop CLI.
package main

import "github.com/robocop-go/robocop/internal/cli"

func main() {
	cli.Main()
}
