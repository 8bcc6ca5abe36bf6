package main

import "github.com/marcus/taskboard/cmd/taskboard/commands"

func main() {
	commands.Execute()
}
