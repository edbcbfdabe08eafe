package main

import "tisp/cmd"

func main() {
	cmd.Execute()
}
