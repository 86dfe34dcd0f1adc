package main

import "gbs/cmd/cli"

func main() {
	cli.RunCLI()
}
