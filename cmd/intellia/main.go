package main

import "github.com/its-pratyushpandey/Intellia/cmd/intellia/cli"

func main() {
	cli.Execute()
}
