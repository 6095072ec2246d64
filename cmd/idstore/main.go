package main

import "go.pilab.hu/idstore/cmd/idstore/cmd"

func main() {
	cmd.Execute()
}
