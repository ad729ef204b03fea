// Package mattress defines the mattress advisor conversation.
package mattress

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/aura/pkg/catalog"
	"github.com/aretw0/aura/pkg/dialog"
	"github.com/aretw0/aura/pkg/domain"
	"github.com/aretw0/aura/pkg/ports"
	"github.com/aretw0/aura/pkg/session"
)

// Element ids. They double as keys in Session.Results.
const (
	IsForTwo = "is_fortwo"
	Weight1  = "weight1"
	Weight2  = "weight2"
	Soft     = "soft"
	Result   = "result"
	AskPhone = "ask_phone"
	Sent     = "sent"
	Bye      = "bye"
)

// Greeting opens every conversation.
const Greeting = "Я подберу для вас идеальную модель матраса. Для этого мне необходимо задать вам несколько вопросов. "

// CallButton is the chip that asks for a manager call.
const CallButton = "Звонок"

// anonymous names the sender when no phone number was captured.
const anonymous = "пользователя"

var weightHints = []string{"50-70", "70-100", "более 100"}

// Config carries the collaborators of the mattress script.
type Config struct {
	// Notifier delivers the transcript once a phone number was captured.
	Notifier ports.Notifier
	// Recipient is the manager mailbox.
	Recipient string
	// Timeout bounds transcript delivery. Zero means dialog.DefaultDispatchTimeout.
	Timeout time.Duration
	// Catalog defaults to catalog.Default().
	Catalog catalog.Table
	// Debug appends the version tag to the greeting.
	Debug   bool
	Version string
}

// Profile is the typed view of the answers collected so far.
type Profile struct {
	ForTwo  string `mapstructure:"is_fortwo"`
	Weight1 int    `mapstructure:"weight1"`
	Weight2 int    `mapstructure:"weight2"`
	Soft    string `mapstructure:"soft"`
}

// ProfileOf decodes session results. Numbers restored from JSON as float64 are accepted.
func ProfileOf(s *domain.Session) (Profile, error) {
	var p Profile
	if err := mapstructure.WeakDecode(s.Results, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to decode answers of %s: %w", s.ID, err)
	}
	return p, nil
}

// Weight is the weight the recommendation is based on. For two sleepers the heavier one counts.
func (p Profile) Weight() int {
	if p.ForTwo == "да" {
		return max(p.Weight1, p.Weight2)
	}
	return p.Weight1
}

// GreetingFor returns the greeting, tagged with the version in debug mode.
func GreetingFor(debug bool, version string) string {
	if debug {
		return Greeting + "(ver:" + version + ") "
	}
	return Greeting
}

// Elements builds the ordered question list.
func Elements(cfg Config) []*dialog.Element {
	table := cfg.Catalog
	if table == nil {
		table = catalog.Default()
	}

	firmness := make([]string, 0, len(catalog.Firmnesses))
	for _, f := range catalog.Firmnesses {
		firmness = append(firmness, string(f))
	}

	return []*dialog.Element{
		{
			ID:      IsForTwo,
			Message: "Скажите, вам нужен матрас для двоих?",
			Checker: dialog.NewChoiceChecker("",
				[]string{"да", "ага", "ну да"},
				[]string{"нет", "неа", "не знаю"},
			),
			Hints: []string{"да", "нет"},
		},
		{
			ID:      Weight1,
			Message: "Какой у вас вес?",
			Checker: dialog.NewIntChecker(dialog.MinValue(30)),
			Hints:   weightHints,
		},
		{
			ID:      Weight2,
			Message: "Какой примерно вес у вашего партнера?",
			Checker: dialog.NewIntChecker(dialog.MinValue(30)),
			Hints:   weightHints,
		},
		{
			ID:      Soft,
			Message: "Оцените ваши предпочтения мягкости/жесткости матраса",
			Checker: dialog.NewChoiceChecker("",
				[]string{string(catalog.Soft), "самый мягкий", "очень мягкий"},
				[]string{string(catalog.MediumSoft), "средне мягкий", "скорее мягкий"},
				[]string{string(catalog.Medium), "не знаю"},
				[]string{string(catalog.MediumFirm), "средний жесткий", "скорее жесткий", "1"},
				[]string{string(catalog.Firm), "очень жесткий", "самый жесткий"},
			),
			Hints: firmness,
		},
		{
			ID: Result,
			Checker: dialog.NewChoiceChecker("",
				[]string{"да", "ага", "ну да", CallButton},
				[]string{"нет", "не надо", "нет спасибо"},
			),
			Render: Recommendation(table),
		},
		{
			ID:      AskPhone,
			Message: "Сообщите ваш телефон",
			OnComplete: &dialog.SendTranscript{
				Notifier: cfg.Notifier,
				To:       cfg.Recipient,
				FromKey:  AskPhone,
				Fallback: anonymous,
				Timeout:  cfg.Timeout,
			},
		},
		{
			ID:        Sent,
			Message:   "Я передала ваш номер менеджеру. Скоро с вами свяжутся.",
			OnPrepare: dialog.EndSession{},
		},
		{
			ID:        Bye,
			Message:   "Было приятно пообщаться с вами. До свидания",
			OnPrepare: dialog.EndSession{},
		},
	}
}

// Transitions returns the routing that departs from the plain question order.
func Transitions() []dialog.Transition {
	decline := dialog.NewRouter(map[string]string{"нет": Bye}, "")
	return []dialog.Transition{
		skipPartner,
		decline.For(Result),
	}
}

// skipPartner jumps over the partner's weight for a single sleeper.
func skipPartner(currentID string, _ any, s *domain.Session) string {
	if currentID != Weight1 {
		return ""
	}
	if v, ok := s.Result(IsForTwo); ok && v == "нет" {
		return Soft
	}
	return ""
}

// Recommendation renders the product list for the collected profile.
func Recommendation(table catalog.Table) dialog.RenderFunc {
	return func(s *domain.Session) (dialog.Prompt, error) {
		p, err := ProfileOf(s)
		if err != nil {
			return dialog.Prompt{}, err
		}
		products, err := table.Recommend(p.Weight(), catalog.Firmness(p.Soft))
		if err != nil {
			return dialog.Prompt{}, err
		}

		offers := make([]string, 0, len(products))
		buttons := make([]domain.Button, 0, len(products)+1)
		for _, product := range products {
			offers = append(offers, fmt.Sprintf("%s за %d рублей", product.Name, product.Price))
			buttons = append(buttons, domain.Button{Title: product.Name, URL: product.URL, Hide: true})
		}
		buttons = append(buttons, domain.Button{Title: CallButton, Hide: true})

		text := "Я подобрала вам такие модели: " + strings.Join(offers, ", ") +
			". Хотите, наш менеджер свяжется с вами?"
		return dialog.Prompt{Text: text, Buttons: buttons}, nil
	}
}

// NewScript assembles the mattress conversation on top of a session manager.
// Extra options are applied after the defaults and may override them.
func NewScript(sessions *session.Manager, cfg Config, opts ...dialog.Option) (*dialog.Script, error) {
	base := []dialog.Option{
		dialog.WithGreeting(GreetingFor(cfg.Debug, cfg.Version)),
		dialog.WithTransitions(Transitions()...),
	}
	return dialog.NewScript(Elements(cfg), sessions, append(base, opts...)...)
}
