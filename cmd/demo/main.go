// Command demo exercises the windowing core directly: a bordered window
// anchored to the terminal's center, overlapped by a smaller status
// window pinned to the top-right corner, redrawn once per second for five
// ticks.
package main

import (
	"fmt"
	"os"
	"time"

	window "windowcore"
)

func main() {
	cfg := window.LoadConfig()
	term, err := window.Init(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init:", err)
		os.Exit(1)
	}
	defer term.Deinit()

	term.SetDefaultAttrs(window.FGDefault | window.BGDefault)

	main := term.NewWindow(40, 10)
	main.SetParent(term.Root())
	main.SetAnchor(term.Root(), window.AnchorCenter)
	main.SetDepth(1)
	main.Show()
	main.Box(0, 0, 40, 10, window.AttrUser)
	main.AddStr(2, 1, "windowing core demo", window.AttrBold)

	status := term.NewWindow(16, 3)
	status.SetParent(term.Root())
	status.SetAnchor(term.Root(), window.AnchorTopRight)
	status.SetDepth(0)
	status.Show()
	status.Box(0, 0, 16, 3, window.AttrUser)

	for i := 0; i < 5; i++ {
		if resized, _ := term.PollResize(); resized {
			main.SetAnchor(term.Root(), window.AnchorCenter)
		}
		status.AddStr(1, 1, fmt.Sprintf("tick %2d", i), window.AttrUser)
		if err := term.Flush(i == 0); err != nil {
			fmt.Fprintln(os.Stderr, "flush:", err)
			break
		}
		time.Sleep(time.Second)
	}
}
