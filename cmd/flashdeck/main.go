package main

import "github.com/mcoot/flashdeck/internal/cli"

func main() {
	cli.Execute()
}
