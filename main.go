// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/cpputils/buildplan/cmd/buildplan"

func main() {
	cmd.Execute()
}
