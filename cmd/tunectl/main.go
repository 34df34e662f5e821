package main

import "vectorcraft-admin/cli"

func main() {
	cli.Run()
}
