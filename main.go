package main

import (
	"tuneshelf/cmd"
)

func main() {
	cmd.Execute()
}
