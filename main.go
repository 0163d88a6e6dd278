package main

import "github.com/deploymenttheory/go-binaryinfo/cmd"

func main() {
	cmd.Execute()
}
