// Command holmesctl exercises the HOLMES classifier, templates and action
// registry offline, without talking to Slack.
//
// Usage:
//
//	holmesctl classify "OVERSPEND detected on campaign 42"
//	holmesctl render incident_alert --channel C0123456 --ts 1700000000
//	holmesctl actions
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
