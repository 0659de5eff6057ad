// Package income — handlers.go обрабатывает команды:
// /income (список источников), /income_set, /income_on, /income_off (админ),
// /work (доход за команду), /tip <сумма> [описание] (чаевые).
package income

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/income-bot/internal/common"
	"serotonyl.ru/income-bot/internal/schema"
)

// Handler обрабатывает команды дохода.
type Handler struct {
	service *Service
	sender  common.Sender
}

// NewHandler создаёт обработчик команд дохода.
func NewHandler(service *Service, sender common.Sender) *Handler {
	return &Handler{service: service, sender: sender}
}

// HandleList — /income. Показывает все источники.
//
// Формат ответа:
//
//	⚙️ Источники дохода:
//	✅ tips: 1.00 – 5.00
//	⛔ auto: 0.50 – 2.00
func (h *Handler) HandleList(ctx context.Context, chatID int64) {
	configs, err := h.service.List(ctx)
	if err != nil {
		log.WithError(err).Error("Ошибка получения источников дохода")
		common.SendText(h.sender, chatID, "❌ Ошибка получения источников")
		return
	}
	common.SendText(h.sender, chatID, FormatConfigs(configs))
}

// HandleSet — /income_set <источник> <min> <max>.
func (h *Handler) HandleSet(ctx context.Context, chatID int64, args []string) {
	if len(args) < 3 {
		common.SendText(h.sender, chatID, "Формат: /income_set <источник> <min> <max>")
		return
	}

	in := schema.InsertIncomeConfig{SourceName: args[0]}
	var fields []schema.FieldError
	for i, name := range []string{"minRate", "maxRate"} {
		d, err := schema.ParseMoney(args[i+1])
		if err != nil {
			fields = append(fields, schema.FieldError{Field: name, Rule: schema.RuleDecimal, Message: err.Error()})
			continue
		}
		if i == 0 {
			in.MinRate = schema.Money(d)
		} else {
			in.MaxRate = schema.Money(d)
		}
	}
	if len(fields) > 0 {
		common.SendText(h.sender, chatID, common.FormatError(&schema.ValidationError{
			Entity: schema.IncomeConfigTable.Name, Fields: fields,
		}))
		return
	}

	cfg, err := h.service.Configure(ctx, in)
	if err != nil {
		common.SendText(h.sender, chatID, common.FormatError(err))
		return
	}
	common.SendText(h.sender, chatID, "✅ Сохранено\n"+formatConfig(cfg))
}

// HandleToggle — /income_on <источник> и /income_off <источник>.
func (h *Handler) HandleToggle(ctx context.Context, chatID int64, args []string, enabled bool) {
	if len(args) < 1 {
		common.SendText(h.sender, chatID, "Укажите источник: /income_on tips")
		return
	}
	cfg, err := h.service.SetEnabled(ctx, args[0], enabled)
	if err != nil {
		common.SendText(h.sender, chatID, common.FormatError(err))
		return
	}
	common.SendText(h.sender, chatID, formatConfig(cfg))
}

// HandleWork — /work. Начисляет доход канала command.
func (h *Handler) HandleWork(ctx context.Context, chatID, userID int64) {
	e, err := h.service.Roll(ctx, schema.SourceCommand, schema.Text(common.IDString(userID)))
	if err != nil {
		common.SendText(h.sender, chatID, common.FormatError(err))
		return
	}
	common.SendText(h.sender, chatID, fmt.Sprintf("💼 Заработано %s", common.FormatSignedAmount(e.Amount)))
}

// HandleTip — /tip <сумма> [описание].
//
// Ответ при успехе:
//
//	🎁 Чаевые +12.50 ₽ записаны
func (h *Handler) HandleTip(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		common.SendText(h.sender, chatID, "Формат: /tip <сумма> [описание]")
		return
	}

	amount, err := schema.ParseMoney(strings.Replace(args[0], ",", ".", 1))
	if err != nil {
		common.SendText(h.sender, chatID, common.FormatError(&schema.ValidationError{
			Entity: schema.EarningsTable.Name,
			Fields: []schema.FieldError{{Field: "amount", Rule: schema.RuleDecimal, Message: err.Error()}},
		}))
		return
	}

	e, err := h.service.Tip(ctx, common.IDString(userID), amount, strings.Join(args[1:], " "))
	if err != nil {
		common.SendText(h.sender, chatID, common.FormatError(err))
		return
	}
	common.SendText(h.sender, chatID, fmt.Sprintf("🎁 Чаевые %s записаны", common.FormatSignedAmount(e.Amount)))
}

// FormatConfigs собирает список источников.
func FormatConfigs(configs []*schema.IncomeConfig) string {
	if len(configs) == 0 {
		return "⚙️ Источники дохода не настроены"
	}
	var sb strings.Builder
	sb.WriteString("⚙️ Источники дохода:\n")
	for _, c := range configs {
		sb.WriteString(formatConfig(c))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatConfig(c *schema.IncomeConfig) string {
	mark := "✅"
	if !c.Enabled {
		mark = "⛔"
	}
	return fmt.Sprintf("%s %s: %s – %s", mark, c.SourceName, schema.FormatMoney(c.MinRate), schema.FormatMoney(c.MaxRate))
}
