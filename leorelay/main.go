// Command leorelay simulates relaying a payload from a ground source, through
// a chain of satellites, to a ground sink.
package main

import "github.com/sarchlab/leorelay/leorelay/cmd"

func main() {
	cmd.Execute()
}
