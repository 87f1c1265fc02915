package render

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/dkazmin/rotabot/internal/domain"
)

func TestNumberedListOrdinals(t *testing.T) {
	t.Parallel()

	pool := make([]domain.Activity, 0, 12)
	for i := 1; i <= 12; i++ {
		pool = append(pool, domain.Activity(fmt.Sprintf("activity-%d", i)))
	}

	g := goldie.New(t)
	g.Assert(t, "numbered_list", []byte(NumberedList(pool)))
}

func TestDeletePromptLayout(t *testing.T) {
	t.Parallel()

	reply := DeletePrompt([]domain.Activity{"meditate", "walk the dog", "read"})

	g := goldie.New(t)
	g.Assert(t, "delete_prompt", []byte(reply.Text))
	assert.Empty(t, reply.Options)
}

func TestNumberedListEmptyPool(t *testing.T) {
	t.Parallel()

	assert.Empty(t, NumberedList(nil))
}

func TestQuestionLabelsReplaceUnderscores(t *testing.T) {
	t.Parallel()

	reply := Question("How much time do you have?", []string{"quarter_hour", "open_ended"})

	assert.Equal(t, "How much time do you have?", reply.Text)
	assert.Equal(t, []domain.Option{
		{Label: "quarter hour", Payload: "quarter_hour"},
		{Label: "open ended", Payload: "open_ended"},
	}, reply.Options)
}

func TestMenusCarryStablePayloads(t *testing.T) {
	t.Parallel()

	mode := ModeMenu("Choose a mode:")
	assert.Equal(t, domain.PayloadOpenMenu, mode.Options[0].Payload)
	assert.Equal(t, domain.PayloadStartSync, mode.Options[1].Payload)

	action := ActionMenu("What shall we do?")
	payloads := make([]string, 0, len(action.Options))
	for _, opt := range action.Options {
		payloads = append(payloads, opt.Payload)
	}
	assert.Equal(t, []string{domain.PayloadSubmit, domain.PayloadGet, domain.PayloadList}, payloads)

	goal := GoalMenu()
	assert.Equal(t, domain.PayloadDone, goal.Options[0].Payload)
	assert.Equal(t, domain.PayloadChange, goal.Options[1].Payload)
}

func TestDeletedSummary(t *testing.T) {
	t.Parallel()

	reply := Deleted([]domain.Activity{"walk", "read"})
	assert.Equal(t, "Deleted 2 activities:\nwalk\nread", reply.Text)
}
