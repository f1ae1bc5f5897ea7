package main

import "github.com/merchantiq/feecost/cmd/feecost/cmd"

func main() {
	cmd.Execute()
}
