package main

import "droidbuild/internal/cli"

func main() {
	cli.Execute()
}
