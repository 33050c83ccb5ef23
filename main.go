package main

import "github.com/projmem/projmem/cmd"

func main() {
	cmd.Execute()
}
