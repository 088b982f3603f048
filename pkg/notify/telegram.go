package notify

// Copyright (c) the dnssteer authors.
// Licensed under the Apache License 2.0.

import (
	"context"
	"net/http"
	"time"

	telebot "gopkg.in/telebot.v3"
)

// Sender delivers a single formatted message to the chat backend.
type Sender interface {
	Send(ctx context.Context, text string) error
}

type telegramSender struct {
	bot     *telebot.Bot
	chatID  int64
	topicID int
}

// NewTelegramSender builds a Sender on top of the Telegram bot API.
func NewTelegramSender(token string, chatID int64, topicID int) (Sender, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Client: &http.Client{Timeout: 30 * time.Second},
	})
	if err != nil {
		return nil, err
	}

	return &telegramSender{
		bot:     bot,
		chatID:  chatID,
		topicID: topicID,
	}, nil
}

func (s *telegramSender) Send(ctx context.Context, text string) error {
	opts := &telebot.SendOptions{
		ParseMode: telebot.ModeHTML,
		ThreadID:  s.topicID,
	}

	_, err := s.bot.Send(telebot.ChatID(s.chatID), text, opts)
	return err
}
