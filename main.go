package main

import "github.com/atollk/geoguessr-scripts/cmd"

func main() {
	cmd.Execute()
}
