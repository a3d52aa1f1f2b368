package main

import "github.com/Phat0101/clearai-audit/cmd"

func main() {
	cmd.Execute()
}
