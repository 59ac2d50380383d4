package main

import "github.com/iksnae/metachat/cmd"

func main() {
	cmd.Execute()
}
