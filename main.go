package main

import "github.com/my2ndangelic/mapletrack/cmd"

func main() {
	cmd.Execute()
}
