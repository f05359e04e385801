package main

import "github.com/jjenkins/neows/cmd"

func main() {
	cmd.Execute()
}
