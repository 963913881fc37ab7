// Command giftwrapper is a manual-injection test utility: it builds a
// hard-coded sample report (event-kind by default, or pubkey-kind when a
// second argument is given), gift-wraps it to the receiver, and prints the
// wrap JSON to stdout.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nbd-wtf/go-nostr"

	"github.com/keanuklestil/reportinator/internal/domain"
	"github.com/keanuklestil/reportinator/internal/giftwrap"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: giftwrapper <receiver-pubkey-hex> [reported-pubkey-hex]")
		os.Exit(1)
	}
	receiverPubkey := os.Args[1]

	reader := bufio.NewScanner(os.Stdin)
	reporterText := ""
	if reader.Scan() {
		reporterText = reader.Text()
	}

	reporterSecretKey := nostr.GeneratePrivateKey()

	var rumor domain.ReportRequestRumor
	if len(os.Args) >= 3 {
		rumor = domain.ReportRequestRumor{
			Target:       domain.ReportTarget{Pubkey: os.Args[2]},
			ReporterText: reporterText,
		}
	} else {
		rumor = domain.ReportRequestRumor{
			Target:       domain.ReportTarget{Event: sampleOffendingEvent()},
			ReporterText: reporterText,
		}
	}

	wrap, err := giftwrap.Wrap(rumor, reporterSecretKey, receiverPubkey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build gift-wrap: %v\n", err)
		os.Exit(1)
	}

	out, err := json.Marshal(wrap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to serialize wrap: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// sampleOffendingEvent produces a hard-coded signed sample event to stand
// in for the thing actually being reported.
func sampleOffendingEvent() *domain.NetworkEvent {
	badSecretKey := nostr.GeneratePrivateKey()
	badPubkey, _ := nostr.GetPublicKey(badSecretKey)

	ev := &nostr.Event{
		Kind:      1,
		PubKey:    badPubkey,
		CreatedAt: nostr.Now(),
		Tags:      nostr.Tags{},
		Content:   "I hate you!!",
	}
	_ = ev.Sign(badSecretKey)
	return ev
}
