package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatCongratulation(t *testing.T) {
	assert.Equal(t, "🎊 Congratulations alice! 🎊\ntelegram-send is now ready for use!", ChatCongratulation("alice"))
}

func TestGroupPassword(t *testing.T) {
	assert.Equal(t, "/12345@my_bot", GroupPassword("12345", "my_bot"))
}

func TestBotURL(t *testing.T) {
	assert.Equal(t, "https://telegram.me/my_bot", BotURL("my_bot"))
}
