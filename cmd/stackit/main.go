package main

import "github.com/stackit-dev/stackit/backend/cmd/stackit/commands"

func main() {
	commands.Execute()
}
