package main

import "github.com/naka-gawa/github-favorites/cmd"

func main() {
	cmd.Execute()
}
