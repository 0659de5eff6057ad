package common

import (
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	texts []string
	err   error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.texts = append(f.texts, msg.Text)
	}
	return tgbotapi.Message{}, f.err
}

func TestSendText(t *testing.T) {
	s := &fakeSender{}
	SendText(s, 1, "привет")
	if len(s.texts) != 1 || s.texts[0] != "привет" {
		t.Fatalf("texts = %v", s.texts)
	}

	s.err = errors.New("flood wait")
	SendText(s, 1, "ещё раз") // ошибка только логируется
}
