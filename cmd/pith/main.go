package main

import "github.com/mvp-joe/pith/internal/cli"

func main() {
	cli.Execute()
}
