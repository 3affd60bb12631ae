package main

import "titlecluster/internal/cli"

func main() {
	cli.Execute()
}
