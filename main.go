// docs-client is a command-line client for a collaborative document service.
package main

import "github.com/rvveber/docs/cmd"

func main() {
	cmd.Execute()
}
