package domain

import "fmt"

// ChatMessage - одна строка общего чата
type ChatMessage struct {
	Tick   int64  `json:"tick"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// Line - строка в том виде, в каком ее видят игроки
func (m ChatMessage) Line() string {
	if m.Sender == "" {
		return m.Text
	}
	return fmt.Sprintf("<%s> %s", m.Sender, m.Text)
}
