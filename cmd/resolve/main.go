package main

import "resolve/cmd/resolve/root"

func main() {
	root.Execute()
}
