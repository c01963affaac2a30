package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kiranshivaraju/radassist/internal/contract"
	"github.com/kiranshivaraju/radassist/pkg/models"
)

// Answerer produces the assistant reply for one question.
type Answerer interface {
	Ask(ctx context.Context, in contract.AskInput) (string, error)
}

// Conversation accumulates question and answer turns against a fixed analysis snapshot.
// The transcript only ever grows by complete pairs.
type Conversation struct {
	context string

	askMu sync.Mutex // one ask at a time

	mu    sync.RWMutex
	turns []models.ConversationTurn
	now   func() time.Time
}

func NewConversation(res models.AnalysisResult) *Conversation {
	return &Conversation{
		context: fmt.Sprintf("Findings: %s. Anomalies: %s.", res.Findings, res.Anomalies),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Context is the snapshot every question is answered against.
func (c *Conversation) Context() string { return c.context }

// Ask records the question, obtains an answer and records it. When answering
// fails the question is removed again and the error returned.
func (c *Conversation) Ask(ctx context.Context, a Answerer, question string) (models.ConversationTurn, error) {
	in, err := contract.ValidateAsk(contract.AskInput{Context: c.context, Question: question}).Get()
	if err != nil {
		return models.ConversationTurn{}, err
	}

	c.askMu.Lock()
	defer c.askMu.Unlock()

	c.mu.Lock()
	mark := len(c.turns)
	c.turns = append(c.turns, models.ConversationTurn{Role: models.RoleUser, Content: question, CreatedAt: c.now()})
	c.mu.Unlock()

	answer, err := a.Ask(ctx, in)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.turns = c.turns[:mark]
		return models.ConversationTurn{}, err
	}
	turn := models.ConversationTurn{Role: models.RoleAssistant, Content: answer, CreatedAt: c.now()}
	c.turns = append(c.turns, turn)
	return turn, nil
}

// Turns returns a copy of the transcript.
func (c *Conversation) Turns() []models.ConversationTurn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.ConversationTurn(nil), c.turns...)
}

func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}
