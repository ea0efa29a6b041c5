package client

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/swiftserve/assistant"
	"github.com/ray-remotestate/swiftserve/models"
)

// Assistant calls the server's assistant endpoints and answers locally when
// they cannot be reached.
type Assistant struct {
	api  *Client
	pick assistant.Picker
}

func NewAssistant(api *Client, pick assistant.Picker) *Assistant {
	if pick == nil {
		pick = assistant.RandomPick
	}
	return &Assistant{api: api, pick: pick}
}

func (a *Assistant) Customize(ctx context.Context, text string) string {
	instruction, err := a.api.Customize(ctx, text)
	if err != nil {
		logrus.WithError(err).Debug("customize falling back to local rules")
		return assistant.QuickCustomize(text)
	}
	return instruction
}

func (a *Assistant) Suggest(ctx context.Context, order *models.Order) string {
	orderID := ""
	if order != nil {
		orderID = order.ID
	}
	suggestion, err := a.api.SuggestAction(ctx, orderID)
	if err != nil {
		logrus.WithError(err).Debug("suggest falling back to local rules")
		return assistant.QuickSuggest(order, a.pick)
	}
	return suggestion
}

func (a *Assistant) MenuRecommendations(ctx context.Context, items []models.MenuItem) []string {
	ids, err := a.api.MenuRecommendations(ctx, items)
	if err != nil {
		logrus.WithError(err).Debug("recommendations falling back to local rules")
		return assistant.Recommend(items)
	}
	return ids
}
