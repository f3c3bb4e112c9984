package main

import "github.com/cmlabs-hris/hris-payroll-go/internal/cli"

func main() {
	cli.Execute()
}
