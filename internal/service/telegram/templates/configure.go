package templates

import "fmt"

const (
	// ContactURL базовый адрес для ссылок на пользователей и ботов
	ContactURL = "https://telegram.me/"

	// BotFather имя бота для создания новых ботов
	BotFather = "BotFather"

	// CongratulationBall символ, которым обрамляется поздравление в чате
	CongratulationBall = "🎊"

	// ReadyText вторая строка поздравления
	ReadyText = "telegram-send is now ready for use!"
)

// BotURL возвращает ссылку на бота
func BotURL(botName string) string {
	return ContactURL + botName
}

// Congratulation возвращает поздравление для вывода в терминал
func Congratulation(user string) string {
	return fmt.Sprintf("Congratulations %s! \n%s", user, ReadyText)
}

// ChatCongratulation возвращает поздравление, которое бот отправляет в чат
func ChatCongratulation(user string) string {
	return fmt.Sprintf("%s Congratulations %s! %s\n%s", CongratulationBall, user, CongratulationBall, ReadyText)
}

// GroupPassword возвращает команду-пароль для группы
func GroupPassword(password, botName string) string {
	return fmt.Sprintf("/%s@%s", password, botName)
}
