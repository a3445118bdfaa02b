package main

import "github.com/jgrover/DroidWatch/cmd"

func main() {
	cmd.Execute()
}
