package main

import "artist-platform/cmd/artistctl/commands"

func main() {
	commands.Execute()
}
