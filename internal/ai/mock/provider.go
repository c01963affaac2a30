// Package mock provides a scriptable in-process models.Backend for tests and local development.
package mock

import (
	"context"
	"sync"

	"github.com/kiranshivaraju/radassist/internal/contract"
	"github.com/kiranshivaraju/radassist/pkg/models"
)

// 1x1 transparent PNG.
const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// MockBackend satisfies models.Backend. GenerateFunc, when set, handles every call;
// otherwise canned responses keyed by schema name are returned.
type MockBackend struct {
	Name_        string
	GenerateFunc func(ctx context.Context, req models.GenerateRequest) (models.GenerateResponse, error)

	mu       sync.Mutex
	requests []models.GenerateRequest
}

func (m *MockBackend) Name() string { return m.Name_ }

func (m *MockBackend) Generate(ctx context.Context, req models.GenerateRequest) (models.GenerateResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return CannedResponse(req), nil
}

// Calls returns how many times Generate was invoked.
func (m *MockBackend) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every request received, in arrival order.
func (m *MockBackend) Requests() []models.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.GenerateRequest(nil), m.requests...)
}

// CannedResponse returns a schema-conforming response for any stage.
func CannedResponse(req models.GenerateRequest) models.GenerateResponse {
	resp := models.GenerateResponse{Model: "mock-v1"}
	if req.Schema == nil {
		resp.Text = "Mock answer: the opacity is most consistent with an infective process."
	} else {
		resp.Text = cannedJSON[req.Schema.Name]
	}
	if req.WantsImage() {
		resp.Text = "Highlighted region corresponds to the suspected consolidation."
		resp.Media = []models.MediaRef{{URL: pixelPNG, MIMEType: "image/png"}}
	}
	return resp
}

var cannedJSON = map[string]string{
	contract.SchemaAnalyze: `{"findings":"Likely pneumonia with left lower lobe consolidation; risk of effusion if untreated.",` +
		`"anomalies":"Patchy opacity in the left lower lobe."}`,
	contract.SchemaAnomaly: `{"anomalies":"Patchy opacity in the left lower lobe."}`,
	contract.SchemaCorrelate: `{"potentialConditions":[` +
		`{"condition":"Community-acquired pneumonia","confidence":"High","reasoning":"Fever and cough with focal consolidation."},` +
		`{"condition":"Pulmonary edema","confidence":"Low","reasoning":"Opacity without cardiomegaly makes this less likely."}],` +
		`"suggestedNextSteps":"Complete blood count, sputum culture and follow-up radiograph in six weeks."}`,
	contract.SchemaReport: `{"markdownReport":"## Findings Summary\n\n### Left Lung\n\n*   **Finding:** Consolidation consistent with pneumonia.\n\n` +
		`## AI-Driven Clinical Recommendations Summary\n\n1. Start empiric antibiotics.\n\n### Disclaimer\n\n> *AI-generated suggestion.*"}`,
}

// NewMockBackend returns a MockBackend with canned responses.
func NewMockBackend() *MockBackend {
	return &MockBackend{Name_: "mock"}
}

// NewFailingBackend returns a MockBackend that always returns the given error.
func NewFailingBackend(err error) *MockBackend {
	return &MockBackend{
		Name_: "mock-failing",
		GenerateFunc: func(_ context.Context, _ models.GenerateRequest) (models.GenerateResponse, error) {
			return models.GenerateResponse{}, err
		},
	}
}

// NewTimeoutBackend returns a MockBackend that blocks until the context is cancelled.
func NewTimeoutBackend() *MockBackend {
	return &MockBackend{
		Name_: "mock-timeout",
		GenerateFunc: func(ctx context.Context, _ models.GenerateRequest) (models.GenerateResponse, error) {
			<-ctx.Done()
			return models.GenerateResponse{}, models.ErrInferenceTimeout
		},
	}
}

// Compile-time check that MockBackend implements Backend.
var _ models.Backend = (*MockBackend)(nil)
