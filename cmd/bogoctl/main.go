package main

import "bogogo/internal/cmd"

func main() {
	cmd.Execute()
}
