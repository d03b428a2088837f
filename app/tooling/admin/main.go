// This program performs administrative tasks for the bounty node.
package main

import "github.com/ardanlabs/bounty/app/tooling/admin/cmd"

func main() {
	cmd.Execute()
}
