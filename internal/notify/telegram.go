package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"voxpop/backend/internal/models"
)

// OpsAlerter mirrors business notifications into the operations Telegram
// chat so the team sees lifecycle milestones without digging through logs.
type OpsAlerter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewOpsAlerter connects the bot and targets the given chat.
func NewOpsAlerter(token string, chatID int64) (*OpsAlerter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return &OpsAlerter{bot: bot, chatID: chatID}, nil
}

func (a *OpsAlerter) post(text string) error {
	_, err := a.bot.Send(tgbotapi.NewMessage(a.chatID, text))
	return err
}

func (a *OpsAlerter) ThresholdReached(business *models.Business, petition *models.Petition, signers int) error {
	return a.post(fmt.Sprintf("Petition %q against %s reached %d signatures",
		petition.Title, business.Name, signers))
}

func (a *OpsAlerter) BusinessRegistered(business *models.Business) error {
	return a.post(fmt.Sprintf("New business registered: %s <%s>",
		business.Name, business.Email))
}
