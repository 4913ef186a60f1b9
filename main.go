package main

import "sortd/cmd"

func main() {
	cmd.Execute()
}
