package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/radassist/internal/contract"
	"github.com/kiranshivaraju/radassist/pkg/models"
)

type answerFunc func(ctx context.Context, in contract.AskInput) (string, error)

func (f answerFunc) Ask(ctx context.Context, in contract.AskInput) (string, error) { return f(ctx, in) }

func TestConversation_Context(t *testing.T) {
	c := NewConversation(models.AnalysisResult{Findings: "Likely pneumonia", Anomalies: "opacity"})
	assert.Equal(t, "Findings: Likely pneumonia. Anomalies: opacity.", c.Context())
}

func TestConversation_AsksAreSerialized(t *testing.T) {
	c := NewConversation(models.AnalysisResult{Findings: "f", Anomalies: "a"})

	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	a := answerFunc(func(_ context.Context, in contract.AskInput) (string, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		return "answer to " + in.Question, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Ask(context.Background(), a, "q")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight)
	turns := c.Turns()
	require.Len(t, turns, 10)
	for i := 0; i < len(turns); i += 2 {
		assert.Equal(t, models.RoleUser, turns[i].Role)
		assert.Equal(t, models.RoleAssistant, turns[i+1].Role)
	}
}

func TestConversation_RollbackOnFailure(t *testing.T) {
	c := NewConversation(models.AnalysisResult{Findings: "f", Anomalies: "a"})
	fail := answerFunc(func(context.Context, contract.AskInput) (string, error) {
		return "", errors.New("unavailable")
	})

	_, err := c.Ask(context.Background(), fail, "why?")
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}
