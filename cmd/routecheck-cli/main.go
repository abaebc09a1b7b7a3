package main

import "routecheck/cmd/routecheck-cli/cmd"

func main() {
	cmd.Execute()
}
