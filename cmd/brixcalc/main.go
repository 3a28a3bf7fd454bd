package main

import "github.com/aalvaropc/brixcalc/internal/cli"

func main() {
	cli.Execute()
}
