package main

import "github.com/riggerhire/rigmatch/cmd"

func main() {
	cmd.Execute()
}
