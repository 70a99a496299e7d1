package main

import "github.com/aalvaropc/prebundle/internal/cli"

func main() {
	cli.Execute()
}
