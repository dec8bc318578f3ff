package main

import "couple-space-backend/cmd"

func main() {
	cmd.Execute()
}
