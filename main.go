package main

import "kindex/kin/cmd"

func main() {
	cmd.Execute()
}
