package main

import "github.com/theirongolddev/p200/cmd"

func main() {
	cmd.Execute()
}
