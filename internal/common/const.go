package common

const (
	CoachRolePrompt = "Ты спокойный и доброжелательный коуч по привычкам. Пользователь проходит 60-дневную программу: чтение, глубокий фокус, экранное время, Telegram, подъём и сон. По итогам дня ответь одним коротким предложением по-русски, без эмодзи и без повторения цифр."

	DefaultCoachModel   = "hunyuan-turbos-latest"
	DefaultCoachBaseURL = "https://api.hunyuan.cloud.tencent.com/v1"
	DefaultTelegramAPI  = "https://api.telegram.org"

	DefaultMorningAt = "07:00"
	DefaultEveningAt = "22:50"
)

// Text commands understood by the bot.
const (
	CmdStart = "/start"
	CmdStop  = "/stop"
	CmdStats = "/stats"
	CmdGoals = "/goals"
	CmdHelp  = "/help"
)
