// Command todo is a single-user todo list backed by a local SQLite file.
package main

import "github.com/mesh-intelligence/todo/internal/cli"

func main() {
	cli.Execute()
}
