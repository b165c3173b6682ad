// Package confirm provides confirmation dialog implementations for
// environments without a real wallet UI: local development, demos and
// tests.
package confirm

import (
	"context"
	"sync"

	"github.com/cyphera/gator-permissions/internal/interfaces"
	"github.com/cyphera/gator-permissions/internal/ui"
	"github.com/google/uuid"
)

// AutoDialog resolves every confirmation with a fixed decision. The
// optional BeforeDecision hook runs just before the decision is returned,
// which lets callers simulate user interaction against a live interface
// handle.
type AutoDialog struct {
	Approve        bool
	BeforeDecision func(interfaceID string) error

	mu       sync.Mutex
	contents map[string]ui.Content
}

// NewAutoDialog creates a dialog that always answers with the given
// decision
func NewAutoDialog(approve bool) *AutoDialog {
	return &AutoDialog{Approve: approve, contents: make(map[string]ui.Content)}
}

// CreateInterface stores the initial content under a fresh handle
func (d *AutoDialog) CreateInterface(_ context.Context, content ui.Content) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	interfaceID := uuid.NewString()
	d.contents[interfaceID] = content
	return interfaceID, nil
}

// UpdateContent replaces the stored content for a handle
func (d *AutoDialog) UpdateContent(_ context.Context, interfaceID string, content ui.Content) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.contents[interfaceID] = content
	return nil
}

// AwaitUserDecision runs the interaction hook, then answers
func (d *AutoDialog) AwaitUserDecision(_ context.Context, interfaceID string) (interfaces.UserDecision, error) {
	if d.BeforeDecision != nil {
		if err := d.BeforeDecision(interfaceID); err != nil {
			return interfaces.UserDecision{}, err
		}
	}
	return interfaces.UserDecision{IsConfirmationGranted: d.Approve}, nil
}

// Content returns the last content rendered for a handle
func (d *AutoDialog) Content(interfaceID string) ui.Content {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.contents[interfaceID]
}
