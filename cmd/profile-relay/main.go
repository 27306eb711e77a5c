// Command profile-relay replays recorded native social-profile notifications
// through the relay and inspects the notification journal.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
