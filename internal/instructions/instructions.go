// Package instructions holds the manual setup steps shown to the operator
// after the runtime directories are in place.
package instructions

import (
	"fmt"
	"io"
	"strings"
)

const (
	EnvBotToken = "TELEGRAM_BOT_TOKEN"
	EnvChatID   = "TELEGRAM_CHAT_ID"

	ruleWidth = 60
)

// Step is a numbered instruction block.
type Step struct {
	Title string
	Lines []string
}

var steps = []Step{
	{
		Title: "Create a Telegram bot",
		Lines: []string{
			"Open Telegram and start a chat with @BotFather.",
			"Send /newbot and follow the prompts.",
			"Copy the bot token it replies with.",
		},
	},
	{
		Title: "Find your chat ID",
		Lines: []string{
			"Send any message to your new bot.",
			"Open https://api.telegram.org/bot<TOKEN>/getUpdates in a browser.",
			`Copy the number after "chat":{"id": in the response.`,
		},
	},
	{
		Title: "Set the environment variables",
		Lines: []string{
			"Windows (cmd):",
			"  setx " + EnvBotToken + ` "<your bot token>"`,
			"  setx " + EnvChatID + ` "<your chat id>"`,
			"Linux / macOS:",
			"  export " + EnvBotToken + `="<your bot token>"`,
			"  export " + EnvChatID + `="<your chat id>"`,
			"Open a new terminal afterwards so the values are picked up.",
		},
	},
	{
		Title: "Install the dependencies",
		Lines: []string{
			"pip install flask requests pandas numpy matplotlib",
		},
	},
	{
		Title: "Launch the bot",
		Lines: []string{
			"python app.py",
			"Then open http://localhost:5000 in your browser.",
		},
	},
}

// Steps returns a copy of the ordered instruction blocks.
func Steps() []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = Step{Title: s.Title, Lines: append([]string(nil), s.Lines...)}
	}
	return out
}

// PrintInstructions writes every step to w, in order. Write errors are
// ignored.
func PrintInstructions(w io.Writer) {
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "  Forex Trader Bot - setup complete")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "Directories are ready. Finish the setup manually:")

	for i, s := range steps {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%d. %s\n", i+1, s.Title)
		for _, line := range s.Lines {
			fmt.Fprintf(w, "   %s\n", line)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
}
