package main

import "martianoff/unapplygen/cmd/unapplygen/commands"

func main() {
	commands.Execute()
}
