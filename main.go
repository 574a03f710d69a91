// SPDX-License-Identifier: MPL-2.0

package main

import cmd "preflight-cli/cmd/preflight"

func main() {
	cmd.Execute()
}
