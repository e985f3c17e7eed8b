package main

import "github.com/lepinkainen/shelfcovers/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
