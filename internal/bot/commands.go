package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
)

const adminHelp = `Команды администратора:
/attest <course> <period> <student> — посчитать аттестацию студента
/group <course> <period> [group] — сводка по группе (без группы — весь курс)
/bind <course> <group> — привязать этот чат к группе курса
/snapshot <course> <period> <student> <group> — заморозить результат при переводе
/override set <course> <period> <component> <student> score <score> reason <reason>
/override list <course> — список оверрайдов`

const studentHelp = `Команды:
/attest <course> <period> <student> — посмотреть свою аттестацию
/token <course> [student] — получить токен для доступа к API`

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		return
	}

	var err error
	switch msg.Command() {
	case "start":
		err = b.handleStart(msg)
	case "help":
		err = b.handleHelp(msg)
	case "attest":
		err = b.handleAttest(msg)
	case "token":
		err = b.handleToken(msg)
	case "group":
		err = b.handleGroup(msg)
	case "bind":
		err = b.handleBind(msg)
	case "snapshot":
		err = b.handleSnapshot(msg)
	case "override":
		err = b.handleOverride(msg)
	default:
		err = b.sendMessage(msg.Chat.ID, "Неизвестная команда, отправьте /help для списка команд")
	}

	if err != nil {
		logger.Error.Printf("Command %s failed: %v", msg.Command(), err)
		_ = b.sendMessage(msg.Chat.ID, fmt.Sprintf("Ошибка: %v", err))
	}
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	var text string
	if b.admins[msg.From.ID] {
		text = adminHelp
	} else {
		text = studentHelp
	}

	return b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	text := "Привет! Я помогу с аттестацией по курсу.\n\n"
	if b.admins[msg.From.ID] {
		text += "Ты администратор курса. Используй /help для списка команд."
	} else {
		text += "Используй /attest чтобы посмотреть свои баллы."
	}

	return b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) handleAttest(msg *tgbotapi.Message) error {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 3 {
		return b.sendMessage(msg.Chat.ID, "Использование: /attest <course> <period> <student>")
	}

	course, period, student := args[0], args[1], args[2]

	pcfg, err := b.config.PeriodConfig(period)
	if err != nil {
		return err
	}

	result, err := b.aggregator.ComputeOne(course, student, models.Period(period), pcfg, b.config.Components)
	if err != nil {
		return fmt.Errorf("ошибка расчёта аттестации: %v", err)
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Аттестация %s, период %s\n", student, period))
	text.WriteString(fmt.Sprintf("Итог: %.1f / %.0f (%s)\n", result.TotalScore, pcfg.MaxPoints, result.GradeLabel))
	if result.IsPassing {
		text.WriteString("Статус: ✅ зачтено\n\n")
	} else {
		text.WriteString("Статус: ❌ не зачтено\n\n")
	}

	for _, kind := range models.ScoringOrder {
		bd, ok := result.Breakdown[kind]
		if !ok {
			continue
		}
		text.WriteString(fmt.Sprintf("• %s: %.1f", kind, bd.Weighted))
		if bd.Overridden {
			text.WriteString(" (оверрайд)")
		}
		if bd.BonusBlocked {
			text.WriteString(" (бонус заблокирован: потолок)")
		}
		text.WriteString("\n")
	}

	return b.sendMessage(msg.Chat.ID, text.String())
}

func (b *Bot) handleToken(msg *tgbotapi.Message) error {
	if b.tokens == nil {
		return b.sendMessage(msg.Chat.ID, "Токены выключены в конфиге бота")
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) < 1 {
		return b.sendMessage(msg.Chat.ID, "Использование: /token <course> [student]")
	}

	course := args[0]
	ctx := context.Background()

	var student string
	if len(args) > 1 {
		// first call binds the telegram username to the student id,
		// after that /token <course> is enough
		student = args[1]
		if err := b.tokens.SaveStudentTelegramMapping(ctx, course, msg.From.UserName, student); err != nil {
			return fmt.Errorf("ошибка привязки telegram к студенту: %v", err)
		}
	} else {
		var err error
		student, err = b.tokens.FetchStudentIDByTelegram(ctx, course, msg.From.UserName)
		if err != nil {
			return b.sendMessage(msg.Chat.ID, "Не знаю, кто ты. Использование: /token <course> <student>")
		}
	}

	info, isNew, err := b.tokens.FetchOrCreateStudentToken(ctx, course, student)
	if err != nil {
		return fmt.Errorf("ошибка выдачи токена: %v", err)
	}

	status := "Твой токен"
	if isNew {
		status = "Новый токен"
	}

	return b.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"%s для %s / %s:\n%s\n\nЗапросов: %d",
		status, course, student, info.Token, info.RequestCount,
	))
}

func (b *Bot) handleBind(msg *tgbotapi.Message) error {
	if !b.admins[msg.From.ID] {
		return b.sendMessage(msg.Chat.ID, "Команда доступна только администраторам")
	}
	if b.tokens == nil {
		return b.sendMessage(msg.Chat.ID, "Привязки выключены в конфиге бота")
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		return b.sendMessage(msg.Chat.ID, "Использование: /bind <course> <group>")
	}

	mapping := &models.ChatGroupMapping{
		Course:          args[0],
		GroupID:         args[1],
		Name:            msg.Chat.Title,
		AssociationTime: time.Now().UTC(),
		RegisteredBy:    msg.From.ID,
	}

	if err := b.tokens.AssociateChatWithGroup(context.Background(), msg.Chat.ID, mapping); err != nil {
		return fmt.Errorf("ошибка привязки чата: %v", err)
	}

	return b.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"📎 Чат привязан к %s / группа %s, теперь /group <period> достаточно",
		mapping.Course, mapping.GroupID,
	))
}

func (b *Bot) handleGroup(msg *tgbotapi.Message) error {
	if !b.admins[msg.From.ID] {
		return b.sendMessage(msg.Chat.ID, "Команда доступна только администраторам")
	}

	args := strings.Fields(msg.CommandArguments())

	var course, period, groupID string
	switch {
	case len(args) == 1 && b.tokens != nil:
		// chat bound via /bind carries the scope
		mapping, err := b.tokens.FetchGroupMappingByChatID(context.Background(), msg.Chat.ID)
		if err != nil {
			return b.sendMessage(msg.Chat.ID, "Чат не привязан, используй /group <course> <period> [group]")
		}
		course, period, groupID = mapping.Course, args[0], mapping.GroupID
	case len(args) >= 2:
		course, period = args[0], args[1]
		if len(args) > 2 {
			groupID = args[2]
		}
	default:
		return b.sendMessage(msg.Chat.ID, "Использование: /group <course> <period> [group] или /group <period> в привязанном чате")
	}

	pcfg, err := b.config.PeriodConfig(period)
	if err != nil {
		return err
	}

	report, err := b.aggregator.ComputeGroup(course, groupID, models.Period(period), pcfg, b.config.Components)
	if err != nil {
		return fmt.Errorf("ошибка расчёта по группе: %v", err)
	}

	scope := groupID
	if scope == "" {
		scope = "весь курс"
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Сводка %s / %s (%s):\n\n", course, period, scope))
	text.WriteString(fmt.Sprintf("Студентов: %d\n", report.Count))
	if report.Count > 0 {
		text.WriteString(fmt.Sprintf("Средний балл: %.1f\n", report.Average))
		text.WriteString(fmt.Sprintf("Мин/макс: %.1f / %.1f\n", report.Min, report.Max))
		text.WriteString(fmt.Sprintf("Зачтено: %d, не зачтено: %d\n\n", report.PassingCount, report.FailingCount))
		text.WriteString("Оценки:\n")
		for label, count := range report.GradeHistogram {
			text.WriteString(fmt.Sprintf("  %s: %d\n", label, count))
		}
	}

	return b.sendMessage(msg.Chat.ID, text.String())
}

func (b *Bot) handleSnapshot(msg *tgbotapi.Message) error {
	if !b.admins[msg.From.ID] {
		return b.sendMessage(msg.Chat.ID, "Команда доступна только администраторам")
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) < 4 {
		return b.sendMessage(msg.Chat.ID, "Использование: /snapshot <course> <period> <student> <group>")
	}

	course, period, student, groupID := args[0], args[1], args[2], args[3]

	pcfg, err := b.config.PeriodConfig(period)
	if err != nil {
		return err
	}

	snapshot, err := b.aggregator.Snapshot(course, student, groupID, models.Period(period), pcfg, b.config.Components)
	if err != nil {
		return fmt.Errorf("ошибка снапшота: %v", err)
	}

	return b.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"📌 Результат зафиксирован:\n%s / %s / группа %s\nБаллы: %.1f (%s)\ntaken_at: %d",
		student,
		period,
		groupID,
		snapshot.TotalScore,
		snapshot.GradeLabel,
		snapshot.TakenAt,
	))
}

func (b *Bot) handleOverride(msg *tgbotapi.Message) error {
	if !b.admins[msg.From.ID] {
		return b.sendMessage(msg.Chat.ID, "Команда доступна только администраторам")
	}

	// Пример: /override set DE15 first labs student.name score 8 reason "Late submission"
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 1 {
		return b.sendMessage(msg.Chat.ID, "Использование:\n"+
			"/override set <course> <period> <component> <student> score <score> reason <reason> - Установить баллы вручную\n"+
			"/override list <course> - Список текущих оверрайдов для конкретного курса")
	}

	switch args[0] {
	case "set":
		return b.handleOverrideSet(msg.Chat.ID, args[1:])
	case "list":
		if len(args) < 2 {
			return fmt.Errorf("укажи курс: /override list DE15")
		}
		return b.handleOverrideList(msg.Chat.ID, args[1])
	default:
		return fmt.Errorf("неизвестная подкоманда: %s", args[0])
	}
}

func (b *Bot) handleOverrideSet(chatID int64, args []string) error {
	if len(args) < 6 {
		return fmt.Errorf("использование: set <course> <period> <component> <student> score <score> reason <reason>")
	}

	course := args[0]
	period := args[1]
	component := args[2]
	student := args[3]

	var score float64
	var reason string
	var err error

	for i := 4; i < len(args); i += 2 {
		if i+1 >= len(args) {
			return fmt.Errorf("пропущено значение для %s", args[i])
		}

		switch args[i] {
		case "score":
			score, err = strconv.ParseFloat(args[i+1], 64)
			if err != nil {
				return fmt.Errorf("некорректные баллы: %v", err)
			}
		case "reason":
			reason = strings.Join(args[i+1:], " ")
			i = len(args)
		default:
			return fmt.Errorf("неизвестный параметр: %s", args[i])
		}
	}

	override := models.ScoreOverride{
		Student:   student,
		Course:    course,
		Period:    period,
		Component: component,
		Score:     score,
		Reason:    reason,
	}

	existing, err := b.store.GetScoreOverride(course, student, period, component)
	if err != nil {
		return fmt.Errorf("ошибка проверки существования оверрайда %s/%s/%s: %v", course, period, student, err)
	}

	err = b.store.CreateScoreOverride(override)
	if err != nil {
		return fmt.Errorf("ошибка сохранения: %v", err)
	}

	action := "добавлен"
	if existing != nil {
		action = "обновлён"
	}

	return b.sendMessage(chatID, fmt.Sprintf("✅ Оверрайд %s:\n"+
		"%s / %s / %s / %s\n"+
		"Баллы: %.1f\n"+
		"Причина: %s",
		action,
		course, period, component, student,
		score,
		reason,
	))
}

func (b *Bot) handleOverrideList(chatID int64, course string) error {
	overrides, err := b.store.ListScoreOverrides(course)
	if err != nil {
		return fmt.Errorf("ошибка получения списка оверрайдов: %v", err)
	}

	if len(overrides) == 0 {
		return b.sendMessage(chatID, "Оверрайды не найдены")
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("Оверрайды курса %s:\n\n", course))
	for _, override := range overrides {
		msg.WriteString(fmt.Sprintf(
			"👉🏻 %s: за компонент %s (%s) ставим %.1f\n❓(%s)\n\n",
			override.Student,
			override.Component,
			override.Period,
			override.Score,
			override.Reason,
		))
	}

	return b.sendMessage(chatID, msg.String())
}

func (b *Bot) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}
