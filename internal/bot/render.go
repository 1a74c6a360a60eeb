package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/gotto/core/telegram/helpers"
	"github.com/m3rciful/gotto/core/telegram/keyboard"
	"github.com/m3rciful/gotto/core/telegram/sender"
	"github.com/m3rciful/gotto/internal/hunt"
	"github.com/m3rciful/gotto/internal/texts"
)

// Renderer turns engine replies into Telegram sends.
type Renderer struct {
	texts *texts.Catalog
}

// NewRenderer returns a renderer resolving messages through catalog.
func NewRenderer(catalog *texts.Catalog) *Renderer {
	return &Renderer{texts: catalog}
}

// Message renders a text reply in lang.
func (r *Renderer) Message(lang string, reply hunt.Reply) (string, *tele.SendOptions) {
	text := r.texts.Render(lang, reply.Message, reply.Args...)
	opts := &tele.SendOptions{DisableWebPagePreview: true}
	switch reply.Format {
	case hunt.FormatMarkdown:
		opts.ParseMode = tele.ModeMarkdown
	case hunt.FormatHTML:
		opts.ParseMode = tele.ModeHTML
	}
	opts.ReplyMarkup = r.markup(lang, reply.Keyboard)
	return text, opts
}

func (r *Renderer) markup(lang string, k hunt.Keyboard) *tele.ReplyMarkup {
	switch k {
	case hunt.KeyboardShareLocation:
		return keyboard.LocationRequest(r.texts.Render(lang, hunt.BtnShareLocation))
	case hunt.KeyboardRound:
		return keyboard.ReplyButtons([]string{hunt.CmdCheck, hunt.CmdStart})
	case hunt.KeyboardRestart:
		return keyboard.ReplyButtons([]string{hunt.CmdStart})
	default:
		return nil
	}
}

// Steps builds one ordered send step per reply.
func (r *Renderer) Steps(c tele.Context, lang string, replies []hunt.Reply) []sender.Step {
	steps := make([]sender.Step, 0, len(replies))
	for _, reply := range replies {
		if reply.Kind == hunt.ReplyPin {
			steps = append(steps, helpers.LocationStep(c, reply.Pin.Lat, reply.Pin.Lon))
			continue
		}
		text, opts := r.Message(lang, reply)
		steps = append(steps, helpers.TextStep(c, text, opts))
	}
	return steps
}

// Send delivers replies in order as a single job.
func (r *Renderer) Send(c tele.Context, lang string, replies []hunt.Reply) error {
	if len(replies) == 0 {
		return nil
	}
	return helpers.SendSteps(c, "reply", "sendMessage", r.Steps(c, lang, replies)...)
}
