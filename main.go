package main

import "github.com/Tiliavir/tsb/cmd"

func main() {
	cmd.Execute()
}
