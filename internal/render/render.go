// Package render builds the reply texts and inline keyboards the
// engine emits. The transport delivers them verbatim; editing versus
// sending is the transport's business.
package render

import (
	"fmt"
	"strings"

	"github.com/dkazmin/rotabot/internal/domain"
)

func PasswordPrompt() domain.Reply {
	return domain.Reply{Text: "Hi. Enter the access password."}
}

func WrongPassword() domain.Reply {
	return domain.Reply{Text: "Wrong password."}
}

func ModeMenu(lead string) domain.Reply {
	return domain.Reply{Text: lead, Options: []domain.Option{
		{Label: "Rotation", Payload: domain.PayloadOpenMenu},
		{Label: "Daily check-in", Payload: domain.PayloadStartSync},
	}}
}

func ActionMenu(lead string) domain.Reply {
	return domain.Reply{Text: lead, Options: []domain.Option{
		{Label: "Submit an activity", Payload: domain.PayloadSubmit},
		{Label: "Get an activity", Payload: domain.PayloadGet},
		{Label: "Show the activity list", Payload: domain.PayloadList},
	}}
}

func ActivityList(pool []domain.Activity) domain.Reply {
	return domain.Reply{Text: "Activity list:\n" + NumberedList(pool)}
}

func ListMenu() domain.Reply {
	return domain.Reply{Text: "What next?", Options: []domain.Option{
		{Label: "🎲 Random pick", Payload: domain.PayloadGet},
		{Label: "Pick an activity", Payload: domain.PayloadChoose},
		{Label: "Delete activities", Payload: domain.PayloadDelete},
	}}
}

func EmptyList() domain.Reply {
	return domain.Reply{Text: "The activity list is empty."}
}

func Offer(a domain.Activity) domain.Reply {
	return domain.Reply{Text: "Activity:\n\n" + string(a), Options: []domain.Option{
		{Label: "Discard", Payload: domain.PayloadDiscard},
		{Label: "Keep", Payload: domain.PayloadKeep},
	}}
}

func CurrentActivity(a domain.Activity) domain.Reply {
	return domain.Reply{Text: "Your current activity:\n\n" + string(a)}
}

func GoalMenu() domain.Reply {
	return domain.Reply{Text: "Choose an action:", Options: []domain.Option{
		{Label: "Goal achieved", Payload: domain.PayloadDone},
		{Label: "Swap the activity", Payload: domain.PayloadChange},
	}}
}

func Exhausted() domain.Reply {
	return domain.Reply{Text: "All done. Waiting for a new idea."}
}

func SubmitPrompt() domain.Reply {
	return domain.Reply{Text: "Type the activity idea:"}
}

func BlankIdea() domain.Reply {
	return domain.Reply{Text: "A blank activity cannot be added."}
}

func ConfirmNewCurrent() domain.Reply {
	return domain.Reply{Text: "Activity added. Make it the current one?", Options: []domain.Option{
		{Label: "Yes", Payload: domain.PayloadYes},
		{Label: "No", Payload: domain.PayloadNo},
	}}
}

func ChoosePrompt() domain.Reply {
	return domain.Reply{Text: "Type the number of the activity to make it current:"}
}

func DeletePrompt(pool []domain.Activity) domain.Reply {
	return domain.Reply{
		Text: "Activity list:\n" + NumberedList(pool) +
			"\n\nType the numbers to delete, separated by spaces or commas:",
	}
}

func BadIndices() domain.Reply {
	return domain.Reply{Text: "Those numbers do not match anything. Try again."}
}

func Deleted(removed []domain.Activity) domain.Reply {
	lines := make([]string, 0, len(removed))
	for _, a := range removed {
		lines = append(lines, string(a))
	}
	return domain.Reply{
		Text: fmt.Sprintf("Deleted %d activities:\n%s", len(removed), strings.Join(lines, "\n")),
	}
}

func Wiped() domain.Reply {
	return domain.Reply{Text: "💥 The universe has been rebuilt."}
}

func Failure() domain.Reply {
	return domain.Reply{Text: "Something went wrong. Try again."}
}

// Question renders one questionnaire step as a single-choice keyboard.
func Question(prompt string, options []string) domain.Reply {
	buttons := make([]domain.Option, 0, len(options))
	for _, option := range options {
		buttons = append(buttons, domain.Option{
			Label:   strings.ReplaceAll(option, "_", " "),
			Payload: option,
		})
	}
	return domain.Reply{Text: prompt, Options: buttons}
}

var digitEmoji = [...]string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

func numberEmoji(n int) string {
	if n >= 1 && n <= len(digitEmoji) {
		return digitEmoji[n-1]
	}
	return fmt.Sprintf("%d️⃣", n)
}

// NumberedList renders one activity per line with an emoji ordinal,
// matching the 1-based numbering the list-input states parse.
func NumberedList(pool []domain.Activity) string {
	var builder strings.Builder
	for i, activity := range pool {
		if i > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(numberEmoji(i + 1))
		builder.WriteByte(' ')
		builder.WriteString(string(activity))
	}
	return builder.String()
}
