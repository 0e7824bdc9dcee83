package main

import "github.com/debugscan/debugscan/cmd"

func main() {
	cmd.Execute()
}
