package main

import "taskquest/cmd/api/root"

func main() {
	root.Execute()
}
