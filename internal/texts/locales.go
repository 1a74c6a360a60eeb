package texts

import "github.com/m3rciful/gotto/internal/hunt"

var ru = map[hunt.MessageKey]string{
	hunt.MsgWelcome: "Добро пожаловать! Укажите радиус случайной точки (в метрах).\n\n" +
		"(информацию о боте можно узнать в /help)",
	hunt.MsgHelp: "*Использование бота:*\n\n" +
		"/start - выдать новую случайную точку в указанном радиусе\n" +
		"/check - проверить, достигли ли вы точки, и узнать оставшееся расстояние\n\n" +
		"_Чтобы добраться до точки, достаточно быть в пределах %d метров от неё._\n\n" +
		"*Информация о боте:*\n\n" +
		"Бот вдохновлён приложением [Randonautica](https://www.randonautica.com/).\n" +
		"Бот хранит только текущий раунд: радиус и выданную точку.",
	hunt.MsgShareLocation:     "Пожалуйста, поделитесь своим местоположением, нажав кнопку ниже.",
	hunt.MsgRadiusNotInteger:  "Пожалуйста, введите целое число в метрах.",
	hunt.MsgRadiusNotPositive: "Радиус должен быть больше нуля. Введите целое число в метрах.",
	hunt.MsgRadiusFirst:       "Сначала укажите радиус в метрах.",
	hunt.MsgTargetIssued: "Отправлена новая точка:\n\n" +
		"<code>%s</code>\n\n" +
		"Расстояние: %dм\n" +
		"(вы должны быть в радиусе %d метров, чтобы закрыть точку)\n\n" +
		"Чтобы проверить расстояние и достигли ли вы точки, используйте /check\n" +
		"Если вы хотите новую точку, используйте /start",
	hunt.MsgGeneratorFailed: "Не удалось выбрать точку. Отправьте местоположение ещё раз.",
	hunt.MsgCheckPrompt:     "Отправьте своё местоположение, чтобы проверить, достигли ли вы точки.",
	hunt.MsgReached:         "Вы достигли точки! Поздравляем!",
	hunt.MsgRemaining:       "Вы ещё не на месте, осталось %d метров.",
	hunt.MsgLocationFirst:   "Сначала поделитесь своим местоположением.",
	hunt.MsgExpectStart:     "Чтобы начать, отправьте /start",
	hunt.MsgExpectRadius:    "Укажите радиус случайной точки целым числом в метрах.",
	hunt.MsgExpectLocation:  "Поделитесь местоположением кнопкой ниже, чтобы получить точку.",
	hunt.MsgExpectCheck:     "Точка уже выдана. Используйте /check, чтобы проверить расстояние, или /start для новой точки.",
	hunt.MsgInternalError:   "Что-то пошло не так. Попробуйте ещё раз.",
	hunt.MsgStats:           "Сессий: %s\nОтправлено: %d\nОшибок отправки: %d",
	hunt.MsgTooFast:         "Слишком быстро, сообщение пропущено. Отправьте его ещё раз.",
	hunt.BtnShareLocation:   "Поделиться",

	DescStart: "новая случайная точка",
	DescHelp:  "как пользоваться ботом",
	DescCheck: "проверить, достигнута ли точка",
	DescStats: "статистика бота",
}

var en = map[hunt.MessageKey]string{
	hunt.MsgWelcome: "Welcome! Enter the radius for a random point (in meters).\n\n" +
		"(see /help for more about the bot)",
	hunt.MsgHelp: "*How to use the bot:*\n\n" +
		"/start - get a new random point within the given radius\n" +
		"/check - check whether you have reached the point and how far it is\n\n" +
		"_You reach a point by being within %d meters of it._\n\n" +
		"*About:*\n\n" +
		"Inspired by the [Randonautica](https://www.randonautica.com/) app.\n" +
		"The bot keeps only the current round: the radius and the issued point.",
	hunt.MsgShareLocation:     "Please share your location with the button below.",
	hunt.MsgRadiusNotInteger:  "Please enter a whole number of meters.",
	hunt.MsgRadiusNotPositive: "The radius must be greater than zero. Enter a whole number of meters.",
	hunt.MsgRadiusFirst:       "Enter the radius in meters first.",
	hunt.MsgTargetIssued: "New point issued:\n\n" +
		"<code>%s</code>\n\n" +
		"Distance: %dm\n" +
		"(you must be within %d meters to close the point)\n\n" +
		"Use /check to see the distance and whether you have arrived\n" +
		"Use /start for a new point",
	hunt.MsgGeneratorFailed: "Could not pick a point. Send your location again.",
	hunt.MsgCheckPrompt:     "Send your location to check whether you have reached the point.",
	hunt.MsgReached:         "You reached the point! Congratulations!",
	hunt.MsgRemaining:       "Not there yet, %d meters to go.",
	hunt.MsgLocationFirst:   "Share your location first.",
	hunt.MsgExpectStart:     "Send /start to begin.",
	hunt.MsgExpectRadius:    "Enter the radius for a random point as a whole number of meters.",
	hunt.MsgExpectLocation:  "Share your location with the button below to get a point.",
	hunt.MsgExpectCheck:     "A point is already issued. Use /check to see the distance or /start for a new point.",
	hunt.MsgInternalError:   "Something went wrong. Please try again.",
	hunt.MsgStats:           "Sessions: %s\nSent: %d\nSend failures: %d",
	hunt.MsgTooFast:         "Too fast, that message was skipped. Please send it again.",
	hunt.BtnShareLocation:   "Share location",

	DescStart: "new random point",
	DescHelp:  "how to use the bot",
	DescCheck: "check whether you reached the point",
	DescStats: "bot statistics",
}
