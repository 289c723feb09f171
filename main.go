package main

import "github.com/lepinkainen/argos/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
