package main

import "github.com/stwalsh4118/procurement/internal/cli"

func main() {
	cli.Execute()
}
