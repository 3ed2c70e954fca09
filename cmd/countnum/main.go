package main

import "github.com/mcoot/countnum/internal/cli"

func main() {
	cli.Execute()
}
