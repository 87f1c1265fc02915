// Package application hosts the conversation engine: the finite-state
// dispatch table, the selection/transfer orchestration over the store,
// and the router that serializes events per user.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dkazmin/rotabot/internal/domain"
	"github.com/dkazmin/rotabot/internal/ports"
	"github.com/dkazmin/rotabot/internal/render"
)

// anyText is the table input matching any typed message in a state.
const anyText = "\x00text"

type transitionKey struct {
	state domain.State
	input string
}

type handler func(*Engine, *turn) error

// turn collects the output of one transition: ordered replies plus the
// milestone notifications to fan out after the per-user gate drops.
type turn struct {
	ctx     context.Context
	sess    *domain.Session
	event   domain.Event
	replies []domain.Reply
	notes   []domain.Notification
}

func (t *turn) reply(r domain.Reply) {
	t.replies = append(t.replies, r)
}

// Engine executes conversation transitions against the durable store.
// It holds no per-user state itself; the caller owns the Session and
// serializes events for a given user.
type Engine struct {
	store  ports.Store
	rand   ports.Rand
	clock  ports.Clock
	log    *slog.Logger
	passes map[string]struct{}
	steps  []SyncStep
	table  map[transitionKey]handler
}

func NewEngine(store ports.Store, rnd ports.Rand, clock ports.Clock, passphrases []string, logger *slog.Logger) (*Engine, error) {
	if rnd == nil {
		rnd = ports.SystemRand{}
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	if len(passphrases) == 0 {
		return nil, errors.New("no accepted passphrases configured")
	}
	passes := make(map[string]struct{}, len(passphrases))
	for _, phrase := range passphrases {
		passes[phrase] = struct{}{}
	}

	steps, err := loadSyncSteps()
	if err != nil {
		return nil, fmt.Errorf("load questionnaire: %w", err)
	}

	return &Engine{
		store:  store,
		rand:   rnd,
		clock:  clock,
		log:    logger,
		passes: passes,
		steps:  steps,
		table:  transitionTable(),
	}, nil
}

// transitionTable keys every legal (state, input) pair; anything not
// listed is dropped at lookup time instead of falling through to an
// accidental handler.
func transitionTable() map[transitionKey]handler {
	return map[transitionKey]handler{
		{domain.StatePassword, anyText}:                       (*Engine).password,
		{domain.StateMain, domain.PayloadOpenMenu}:            (*Engine).openMenu,
		{domain.StateMain, domain.PayloadStartSync}:           (*Engine).startSync,
		{domain.StateAction, domain.PayloadSubmit}:            (*Engine).promptSubmit,
		{domain.StateAction, domain.PayloadGet}:               (*Engine).offer,
		{domain.StateAction, domain.PayloadList}:              (*Engine).list,
		{domain.StateAction, domain.PayloadChoose}:            (*Engine).promptChoose,
		{domain.StateAction, domain.PayloadDelete}:            (*Engine).promptDelete,
		{domain.StateSubmitActivity, anyText}:                 (*Engine).submit,
		{domain.StateConfirmNewCurrent, domain.PayloadYes}:    (*Engine).confirmYes,
		{domain.StateConfirmNewCurrent, domain.PayloadNo}:     (*Engine).confirmNo,
		{domain.StateChooseFromList, anyText}:                 (*Engine).listInput,
		{domain.StateActivityDecision, domain.PayloadDiscard}: (*Engine).discard,
		{domain.StateActivityDecision, domain.PayloadKeep}:    (*Engine).keep,
		{domain.StateGoalDecision, domain.PayloadDone}:        (*Engine).goalDone,
		{domain.StateGoalDecision, domain.PayloadChange}:      (*Engine).goalChange,
	}
}

// Handle executes one transition. Within a call everything is
// synchronous: read, mutate, persist, reply. On error the session has
// not advanced and the caller answers with a generic failure notice.
func (e *Engine) Handle(ctx context.Context, sess *domain.Session, event domain.Event) ([]domain.Reply, []domain.Notification, error) {
	t := &turn{ctx: ctx, sess: sess, event: event}

	if event.Kind == domain.EventText {
		handled, err := e.command(t)
		if handled || err != nil {
			return t.replies, t.notes, err
		}
	}

	// The questionnaire ladder validates payloads against the current
	// step's option set, which a static table cannot key.
	if sess.State == domain.StateSync {
		err := e.syncAnswer(t)
		return t.replies, t.notes, err
	}

	key := transitionKey{state: sess.State, input: anyText}
	if event.Kind == domain.EventButton {
		key.input = event.Payload
	}

	h, ok := e.table[key]
	if !ok {
		e.log.Debug("event ignored", "user", sess.UserID, "state", sess.State, "payload", event.Payload)
		return nil, nil, nil
	}

	err := h(e, t)
	return t.replies, t.notes, err
}

// command intercepts the privileged text commands in any state.
func (e *Engine) command(t *turn) (bool, error) {
	text := strings.TrimSpace(t.event.Text)
	switch {
	case strings.EqualFold(text, "bigbang"):
		if err := e.store.WipeAll(t.ctx, false); err != nil {
			return true, fmt.Errorf("wipe collections: %w", err)
		}
		t.sess.Reset(domain.StatePassword)
		t.reply(render.Wiped())
		t.reply(render.PasswordPrompt())
		return true, nil

	case text == "/reset":
		initialized, err := e.store.Initialized(t.ctx, t.sess.UserID)
		if err != nil {
			return true, fmt.Errorf("check touched marker: %w", err)
		}
		if initialized {
			t.sess.Reset(domain.StateMain)
			t.reply(render.ModeMenu("State reset. Choose a mode:"))
		} else {
			t.sess.Reset(domain.StatePassword)
			t.reply(render.PasswordPrompt())
		}
		return true, nil

	case text == "/start":
		return true, e.start(t)
	}

	return false, nil
}

// start resets the conversation; a user with a current activity on
// disk resumes straight at the goal decision.
func (e *Engine) start(t *turn) error {
	current, err := e.store.Load(t.ctx, t.sess.UserID, domain.KindCurrent)
	if err != nil {
		return fmt.Errorf("load current: %w", err)
	}

	e.note(t, "start", "")

	if len(current) > 0 {
		t.sess.Reset(domain.StateGoalDecision)
		t.reply(render.CurrentActivity(current[0]))
		t.reply(render.GoalMenu())
		return nil
	}

	t.sess.Reset(domain.StatePassword)
	t.reply(render.PasswordPrompt())
	return nil
}

func (e *Engine) password(t *turn) error {
	if _, ok := e.passes[strings.TrimSpace(t.event.Text)]; !ok {
		t.reply(render.WrongPassword())
		return nil
	}

	if err := e.store.InitializeIfAbsent(t.ctx, t.sess.UserID); err != nil {
		return fmt.Errorf("initialize collections: %w", err)
	}

	t.sess.Reset(domain.StateMain)
	t.reply(render.ModeMenu("Choose a mode:"))
	return nil
}

func (e *Engine) openMenu(t *turn) error {
	t.sess.State = domain.StateAction
	t.reply(render.ActionMenu("What shall we do?"))
	return nil
}

func (e *Engine) startSync(t *turn) error {
	t.sess.Reset(domain.StateSync)
	step := e.steps[0]
	t.reply(render.Question(step.Prompt, step.Options))
	return nil
}

// syncAnswer advances the check-in ladder. Free text and payloads
// outside the step's option set are ignored; every accepted answer
// emits one notification and nothing is ever persisted.
func (e *Engine) syncAnswer(t *turn) error {
	if t.event.Kind != domain.EventButton {
		return nil
	}
	if t.sess.SyncStep >= len(e.steps) {
		return e.toActionMenu(t)
	}

	step := e.steps[t.sess.SyncStep]
	if !step.Accepts(t.event.Payload) {
		return nil
	}

	e.note(t, "sync."+step.Name, t.event.Payload)
	t.sess.SyncStep++

	if t.sess.SyncStep >= len(e.steps) {
		t.sess.Reset(domain.StateAction)
		t.reply(render.ActionMenu("Check-in complete. What shall we do?"))
		return nil
	}

	next := e.steps[t.sess.SyncStep]
	t.reply(render.Question(next.Prompt, next.Options))
	return nil
}

func (e *Engine) promptSubmit(t *turn) error {
	t.sess.State = domain.StateSubmitActivity
	t.reply(render.SubmitPrompt())
	return nil
}

// offer draws one activity uniformly without removing it and shows the
// discard/keep decision. An empty pool is the expected exhaustion
// case, not an error.
func (e *Engine) offer(t *turn) error {
	pool, err := e.loadPool(t)
	if err != nil {
		return err
	}

	if len(pool) == 0 {
		t.sess.Offered = ""
		t.sess.State = domain.StateAction
		t.reply(render.Exhausted())
		t.reply(render.ActionMenu("Choose an action:"))
		return nil
	}

	offered := pool[e.rand.IntN(len(pool))]
	t.sess.Offered = offered
	t.sess.State = domain.StateActivityDecision
	e.note(t, "got", string(offered))
	t.reply(render.Offer(offered))
	return nil
}

func (e *Engine) list(t *turn) error {
	pool, err := e.loadPool(t)
	if err != nil {
		return err
	}

	if len(pool) == 0 {
		t.reply(render.EmptyList())
		t.reply(render.ActionMenu("Choose an action:"))
		return nil
	}

	t.reply(render.ActivityList(pool))
	t.reply(render.ListMenu())
	return nil
}

func (e *Engine) promptChoose(t *turn) error {
	pool, err := e.loadPool(t)
	if err != nil {
		return err
	}
	if len(pool) == 0 {
		t.reply(render.EmptyList())
		t.reply(render.ActionMenu("Choose an action:"))
		return nil
	}

	t.sess.DeleteMode = false
	t.sess.State = domain.StateChooseFromList
	t.reply(render.ChoosePrompt())
	return nil
}

func (e *Engine) promptDelete(t *turn) error {
	pool, err := e.loadPool(t)
	if err != nil {
		return err
	}
	if len(pool) == 0 {
		t.reply(render.EmptyList())
		t.reply(render.ActionMenu("Choose an action:"))
		return nil
	}

	t.sess.DeleteMode = true
	t.sess.State = domain.StateChooseFromList
	t.reply(render.DeletePrompt(pool))
	return nil
}

func (e *Engine) submit(t *turn) error {
	idea := domain.Activity(strings.TrimSpace(t.event.Text))
	if idea.Blank() {
		t.reply(render.BlankIdea())
		return nil
	}

	// Every submission also grows the global seed so future users
	// inherit it.
	if err := e.store.AppendSeed(t.ctx, idea); err != nil {
		return fmt.Errorf("append seed: %w", err)
	}
	if err := e.store.Append(t.ctx, t.sess.UserID, domain.KindPool, idea); err != nil {
		return fmt.Errorf("append pool: %w", err)
	}

	e.note(t, "idea", string(idea))
	t.sess.PendingIdea = idea
	t.sess.State = domain.StateConfirmNewCurrent
	t.reply(render.ConfirmNewCurrent())
	return nil
}

func (e *Engine) confirmYes(t *turn) error {
	pending := t.sess.PendingIdea
	if pending == "" {
		// Pending idea lost with the process; fall back to the menu.
		return e.toActionMenu(t)
	}

	if err := e.promote(t, pending); err != nil {
		if errors.Is(err, domain.ErrCurrentOccupied) {
			e.log.Debug("promote skipped, current occupied", "user", t.sess.UserID)
			return nil
		}
		return err
	}

	t.sess.PendingIdea = ""
	t.sess.State = domain.StateGoalDecision
	e.note(t, "got", string(pending))
	t.reply(render.CurrentActivity(pending))
	t.reply(render.GoalMenu())
	return nil
}

func (e *Engine) confirmNo(t *turn) error {
	t.sess.PendingIdea = ""
	return e.toActionMenu(t)
}

func (e *Engine) listInput(t *turn) error {
	pool, err := e.loadPool(t)
	if err != nil {
		return err
	}

	indices := domain.ParseIndices(t.event.Text, len(pool))
	if len(indices) == 0 {
		t.reply(render.BadIndices())
		return nil
	}

	if t.sess.DeleteMode {
		kept, removed := domain.RemoveIndices(pool, indices)
		if err := e.store.Replace(t.ctx, t.sess.UserID, domain.KindPool, kept); err != nil {
			return fmt.Errorf("rewrite pool: %w", err)
		}
		t.sess.DeleteMode = false
		t.sess.State = domain.StateAction
		t.reply(render.Deleted(removed))
		t.reply(render.ActionMenu("Choose an action:"))
		return nil
	}

	// Choose mode honors only the first valid index, however many
	// were supplied.
	chosen := pool[indices[0]]
	if err := e.promote(t, chosen); err != nil {
		if errors.Is(err, domain.ErrCurrentOccupied) {
			e.log.Debug("promote skipped, current occupied", "user", t.sess.UserID)
			return nil
		}
		return err
	}

	t.sess.State = domain.StateGoalDecision
	e.note(t, "got", string(chosen))
	t.reply(render.CurrentActivity(chosen))
	t.reply(render.GoalMenu())
	return nil
}

func (e *Engine) discard(t *turn) error {
	offered := t.sess.Offered
	if offered == "" {
		// The offer did not survive a restart; never trust stale
		// scratch, re-enter the menu instead.
		return e.toActionMenu(t)
	}

	pool, err := e.loadPool(t)
	if err != nil {
		return err
	}
	pool = domain.RemoveValue(pool, offered)
	if err := e.store.Replace(t.ctx, t.sess.UserID, domain.KindPool, pool); err != nil {
		return fmt.Errorf("rewrite pool: %w", err)
	}

	e.note(t, "discarded", string(offered))
	t.sess.Offered = ""
	return e.offer(t)
}

func (e *Engine) keep(t *turn) error {
	offered := t.sess.Offered
	if offered == "" {
		return e.toActionMenu(t)
	}

	if err := e.promote(t, offered); err != nil {
		if errors.Is(err, domain.ErrCurrentOccupied) {
			e.log.Debug("promote skipped, current occupied", "user", t.sess.UserID)
			return nil
		}
		return err
	}

	e.note(t, "keep", string(offered))
	t.sess.Offered = ""
	t.sess.State = domain.StateGoalDecision
	t.reply(render.CurrentActivity(offered))
	t.reply(render.GoalMenu())
	return nil
}

func (e *Engine) goalDone(t *turn) error {
	current, err := e.store.Load(t.ctx, t.sess.UserID, domain.KindCurrent)
	if err != nil {
		return fmt.Errorf("load current: %w", err)
	}
	if len(current) == 0 {
		// Stale tap with an empty slot; ignore rather than crash.
		return nil
	}

	finished := current[0]
	if err := e.store.Append(t.ctx, t.sess.UserID, domain.KindDone, finished); err != nil {
		return fmt.Errorf("append completed: %w", err)
	}
	if err := e.store.Replace(t.ctx, t.sess.UserID, domain.KindCurrent, nil); err != nil {
		return fmt.Errorf("clear current: %w", err)
	}

	e.note(t, "completed", string(finished))
	return e.offer(t)
}

func (e *Engine) goalChange(t *turn) error {
	current, err := e.store.Load(t.ctx, t.sess.UserID, domain.KindCurrent)
	if err != nil {
		return fmt.Errorf("load current: %w", err)
	}
	if len(current) == 0 {
		return nil
	}

	// Requeue at the end of the pool, not a random position.
	swapped := current[0]
	if err := e.store.Append(t.ctx, t.sess.UserID, domain.KindPool, swapped); err != nil {
		return fmt.Errorf("append pool: %w", err)
	}
	if err := e.store.Replace(t.ctx, t.sess.UserID, domain.KindCurrent, nil); err != nil {
		return fmt.Errorf("clear current: %w", err)
	}

	e.note(t, "changed", string(swapped))
	return e.offer(t)
}

// promote removes the activity from the pool by value and writes it to
// the current slot, pool first. Both writes are idempotent; a crash in
// the window can at worst leave a duplicate, never lose the activity.
// Fails with ErrCurrentOccupied when a current activity already
// exists; callers clear the slot first.
func (e *Engine) promote(t *turn, a domain.Activity) error {
	current, err := e.store.Load(t.ctx, t.sess.UserID, domain.KindCurrent)
	if err != nil {
		return fmt.Errorf("load current: %w", err)
	}
	if len(current) > 0 {
		return domain.ErrCurrentOccupied
	}

	pool, err := e.loadPool(t)
	if err != nil {
		return err
	}
	pool = domain.RemoveValue(pool, a)
	if err := e.store.Replace(t.ctx, t.sess.UserID, domain.KindPool, pool); err != nil {
		return fmt.Errorf("rewrite pool: %w", err)
	}
	if err := e.store.Replace(t.ctx, t.sess.UserID, domain.KindCurrent, []domain.Activity{a}); err != nil {
		return fmt.Errorf("write current: %w", err)
	}

	return nil
}

func (e *Engine) toActionMenu(t *turn) error {
	t.sess.Reset(domain.StateAction)
	t.reply(render.ActionMenu("Choose an action:"))
	return nil
}

func (e *Engine) loadPool(t *turn) ([]domain.Activity, error) {
	pool, err := e.store.Load(t.ctx, t.sess.UserID, domain.KindPool)
	if err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}
	return pool, nil
}

func (e *Engine) note(t *turn, tag, detail string) {
	t.notes = append(t.notes, domain.Notification{
		ID:     uuid.NewString(),
		UserID: t.sess.UserID,
		Tag:    tag,
		Detail: detail,
		At:     e.clock.Now(),
	})
}
