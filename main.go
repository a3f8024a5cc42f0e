package main

import "github.com/brogergvhs/nelodl/cmd"

func main() {
	cmd.Execute()
}
