package main

import "github.com/maxvaer/openredirx/cmd"

func main() {
	cmd.Execute()
}
