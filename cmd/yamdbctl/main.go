// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command yamdbctl is the operator tool for schema migrations and account
// roles.
package main

import "github.com/taibuivan/yamdb/cmd/yamdbctl/commands"

func main() {
	commands.Execute()
}
