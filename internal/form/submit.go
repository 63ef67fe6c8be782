package form

import (
	"context"
	"strings"

	"github.com/beyoung-commerce/admin-console/internal/domain"
	"go.uber.org/zap"
)

// ValidationError carries the client-side failures that blocked a submit.
type ValidationError struct {
	Failures []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Failures, "; ")
}

// Submit validates the draft and persists it: create when the draft started
// empty, update when it was hydrated from an existing product.
//
// The draft transitions Editing -> Submitting for the duration of the call;
// a second Submit while one is outstanding fails with ErrSubmitInFlight and
// issues no network call. On success a create resets the draft to empty and
// an update closes it; on any failure the draft is preserved unchanged so the
// operator can correct and resubmit.
func (d *Draft) Submit(ctx context.Context, token string) (domain.Product, error) {
	d.mu.Lock()
	switch d.state {
	case StateSubmitting:
		d.mu.Unlock()
		return domain.Product{}, ErrSubmitInFlight
	case StateClosed:
		d.mu.Unlock()
		return domain.Product{}, ErrDraftClosed
	}

	if failures := d.validateLocked(); len(failures) > 0 {
		d.mu.Unlock()
		return domain.Product{}, &ValidationError{Failures: failures}
	}

	payload := d.buildPayloadLocked()
	updating := d.existingID != ""
	d.state = StateSubmitting
	d.mu.Unlock()

	var saved domain.Product
	var err error
	if updating {
		saved, err = d.backend.UpdateProduct(ctx, payload.ID, payload, token)
	} else {
		saved, err = d.backend.CreateProduct(ctx, payload, token)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.state = StateEditing
		d.logger.Warn("Submit failed",
			zap.String("title", payload.Title),
			zap.Bool("updating", updating),
			zap.Error(err))
		return domain.Product{}, err
	}

	if updating {
		d.state = StateClosed
	} else {
		d.resetLocked()
	}

	d.logger.Info("Product saved",
		zap.String("product_id", saved.ID),
		zap.String("title", saved.Title),
		zap.Bool("updating", updating))

	return saved, nil
}
