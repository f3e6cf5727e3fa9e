package main

import "github.com/simplesurance/descpub/internal/command"

func main() {
	command.Execute()
}
