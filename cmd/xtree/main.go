package main

import "github.com/benz9527/xtree/internal/cli"

func main() {
	cli.Execute()
}
