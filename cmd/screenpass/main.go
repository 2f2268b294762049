package main

import "github.com/screenpass/screenpass/cmd/screenpass/cmd"

func main() {
	cmd.Execute()
}
