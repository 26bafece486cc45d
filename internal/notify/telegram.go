package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bot-api/telegram"
)

// Notifier announces site events on a telegram channel. A notifier
// with an empty token silently drops every message.
type Notifier struct {
	apiToken  string
	channelID int64
}

func NewNotifier(apiToken string, channelID int64) *Notifier {
	return &Notifier{apiToken: apiToken, channelID: channelID}
}

func (n *Notifier) CompanyRegistered(companyName, url string) {
	n.send(fmt.Sprintf("New company on board: %s %s", companyName, url))
}

func (n *Notifier) ReviewPosted(companyName string, rating int, url string) {
	stars := strings.Repeat("⭐", rating)
	n.send(fmt.Sprintf("New review for %s %s %s", companyName, stars, url))
}

func (n *Notifier) send(text string) {
	if n.apiToken == "" {
		return
	}
	api := telegram.New(n.apiToken)
	ctx := context.Background()
	_, err := api.SendMessage(ctx, telegram.NewMessage(n.channelID, text))
	if err != nil {
		log.Printf("unable to send telegram message: %v", err)
	}
}
