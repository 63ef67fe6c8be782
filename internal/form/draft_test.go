package form

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/beyoung-commerce/admin-console/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBackend struct {
	mu          sync.Mutex
	creates     int
	updates     int
	createErr   error
	updateErr   error
	lastPayload domain.Product
	block       chan struct{} // when set, Create blocks until closed
	entered     chan struct{} // signalled when Create is reached
}

func (f *fakeBackend) CreateProduct(ctx context.Context, payload domain.Product, token string) (domain.Product, error) {
	f.mu.Lock()
	f.creates++
	f.lastPayload = payload
	entered := f.entered
	block := f.block
	err := f.createErr
	f.mu.Unlock()

	if entered != nil {
		close(entered)
		f.mu.Lock()
		f.entered = nil
		f.mu.Unlock()
	}
	if block != nil {
		<-block
	}
	if err != nil {
		return domain.Product{}, err
	}
	payload.ID = "prod-1"
	return payload, nil
}

func (f *fakeBackend) UpdateProduct(ctx context.Context, id string, payload domain.Product, token string) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.lastPayload = payload
	if f.updateErr != nil {
		return domain.Product{}, f.updateErr
	}
	payload.ID = id
	return payload, nil
}

func (f *fakeBackend) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates, f.updates
}

func newTestDraft(backend Backend) *Draft {
	if backend == nil {
		backend = &fakeBackend{}
	}
	return NewDraft(backend, zap.NewNop())
}

// fillValid drives the draft to the minimal submittable state: one variant,
// one size with stock, a color, a price and a preview image.
func fillValid(t *testing.T, d *Draft) {
	t.Helper()
	require.NoError(t, d.SetTitle("Oversized Tee"))
	require.NoError(t, d.SetMainCategory("Men"))
	require.NoError(t, d.SetSubCategory("Topwear"))
	require.NoError(t, d.SetSpecificType("T-Shirts"))
	require.NoError(t, d.SetColor(0, "Black"))
	require.NoError(t, d.SetPrice(0, "original", "100"))
	require.NoError(t, d.SetSize(0, 0, "stock", "1"))
	require.NoError(t, d.SetImage(SlotPreview, []byte("image-bytes")))
	d.WaitUploads()
}

func TestOffPercentRecompute(t *testing.T) {
	d := newTestDraft(nil)

	require.NoError(t, d.SetPrice(0, "original", "1000"))
	require.NoError(t, d.SetPrice(0, "discounted", "750"))

	assert.Equal(t, "25", d.Snapshot().Variants[0].Price.OffPercent)
}

func TestOffPercentRounding(t *testing.T) {
	d := newTestDraft(nil)

	require.NoError(t, d.SetPrice(0, "original", "3"))
	require.NoError(t, d.SetPrice(0, "discounted", "2"))

	// (3-2)/3*100 = 33.33...
	assert.Equal(t, "33", d.Snapshot().Variants[0].Price.OffPercent)
}

func TestOffPercentStaysStaleOnInvalidInput(t *testing.T) {
	d := newTestDraft(nil)

	require.NoError(t, d.SetPrice(0, "original", "1000"))
	require.NoError(t, d.SetPrice(0, "discounted", "750"))
	require.Equal(t, "25", d.Snapshot().Variants[0].Price.OffPercent)

	// discounted above original: pair is invalid, last value sticks
	require.NoError(t, d.SetPrice(0, "discounted", "1200"))
	assert.Equal(t, "25", d.Snapshot().Variants[0].Price.OffPercent)

	// non-numeric original: same
	require.NoError(t, d.SetPrice(0, "original", "abc"))
	assert.Equal(t, "25", d.Snapshot().Variants[0].Price.OffPercent)
}

func TestOffPercentNotComputedWithoutDiscount(t *testing.T) {
	d := newTestDraft(nil)

	require.NoError(t, d.SetPrice(0, "original", "500"))
	assert.Equal(t, "", d.Snapshot().Variants[0].Price.OffPercent)
}

func TestMainCategoryResetsDependentSelections(t *testing.T) {
	d := newTestDraft(nil)

	require.NoError(t, d.SetMainCategory("Men"))
	require.NoError(t, d.SetSubCategory("Topwear"))
	require.NoError(t, d.SetSpecificType("Shirts"))

	require.NoError(t, d.SetMainCategory("Women"))

	v := d.Snapshot()
	assert.Equal(t, "Women", v.MainCategory)
	assert.Empty(t, v.SubCategory)
	assert.Empty(t, v.SpecificType)
	assert.Contains(t, v.SubCategoryOptions, "Dresses")
	assert.Empty(t, v.TypeOptions)
}

func TestSubCategoryResetsSpecificType(t *testing.T) {
	d := newTestDraft(nil)

	require.NoError(t, d.SetMainCategory("Men"))
	require.NoError(t, d.SetSubCategory("Topwear"))
	require.NoError(t, d.SetSpecificType("Polos"))

	require.NoError(t, d.SetSubCategory("Bottomwear"))

	v := d.Snapshot()
	assert.Empty(t, v.SpecificType)
	assert.Contains(t, v.TypeOptions, "Jeans")
}

func TestLeafSubCategoryHasNoTypeOptions(t *testing.T) {
	d := newTestDraft(nil)

	require.NoError(t, d.SetMainCategory("Women"))
	require.NoError(t, d.SetSubCategory("Dresses"))

	assert.Empty(t, d.Snapshot().TypeOptions)
}

func TestCustomColorLifecycle(t *testing.T) {
	d := newTestDraft(nil)

	require.NoError(t, d.SetColor(0, "Custom"))
	v := d.Snapshot().Variants[0]
	assert.True(t, v.IsCustomColor)
	assert.Empty(t, v.Color)

	require.NoError(t, d.SetCustomColor(0, "Teal"))
	v = d.Snapshot().Variants[0]
	assert.True(t, v.IsCustomColor)
	assert.Equal(t, "Teal", v.Color)

	require.NoError(t, d.SetColor(0, "Black"))
	v = d.Snapshot().Variants[0]
	assert.False(t, v.IsCustomColor)
	assert.Equal(t, "Black", v.Color)
}

func TestCustomSpecificationLifecycle(t *testing.T) {
	d := newTestDraft(nil)

	require.NoError(t, d.SetSpecification("Fabric", "Other"))
	v := d.Snapshot()
	assert.True(t, v.CustomSpecs["Fabric"])
	assert.Empty(t, v.Specifications["Fabric"])

	require.NoError(t, d.SetCustomSpecification("Fabric", "Bamboo"))
	assert.Equal(t, "Bamboo", d.Snapshot().Specifications["Fabric"])

	require.NoError(t, d.SetSpecification("Fabric", "Cotton"))
	v = d.Snapshot()
	assert.False(t, v.CustomSpecs["Fabric"])
	assert.Equal(t, "Cotton", v.Specifications["Fabric"])

	assert.ErrorIs(t, d.SetSpecification("Weight", "Heavy"), ErrBadField)
}

func TestVariantAndSizeRows(t *testing.T) {
	d := newTestDraft(nil)

	require.NoError(t, d.AddVariant())
	require.Len(t, d.Snapshot().Variants, 2)

	require.NoError(t, d.AddSize(1))
	require.NoError(t, d.SetSize(1, 1, "size", "XL"))
	require.NoError(t, d.SetSize(1, 1, "stock", "5"))

	v := d.Snapshot().Variants[1]
	require.Len(t, v.Sizes, 2)
	assert.Equal(t, "XL", v.Sizes[1].Size)
	assert.Equal(t, "5", v.Sizes[1].Stock)

	require.NoError(t, d.RemoveSize(1, 0))
	assert.Len(t, d.Snapshot().Variants[1].Sizes, 1)

	require.NoError(t, d.RemoveVariant(0))
	assert.Len(t, d.Snapshot().Variants, 1)

	assert.ErrorIs(t, d.RemoveVariant(5), ErrBadIndex)
	assert.ErrorIs(t, d.SetSize(0, 9, "stock", "1"), ErrBadIndex)
}

func TestValidateRejectsMissingPreview(t *testing.T) {
	d := newTestDraft(nil)
	fillValid(t, d)
	require.NoError(t, d.ClearImage(SlotPreview))

	failures := d.Validate()
	assert.Contains(t, failures, "Main Product Image is required!")
}

func TestValidateRejectsEmptyAndNegativeStock(t *testing.T) {
	d := newTestDraft(nil)
	fillValid(t, d)

	require.NoError(t, d.SetSize(0, 0, "stock", ""))
	assert.NotEmpty(t, d.Validate())

	require.NoError(t, d.SetSize(0, 0, "stock", "-3"))
	assert.NotEmpty(t, d.Validate())
}

func TestValidateAcceptsMinimalDraft(t *testing.T) {
	d := newTestDraft(nil)
	fillValid(t, d)

	assert.Empty(t, d.Validate())
}

func TestValidateRequiresSpecificTypeOnlyWhenOffered(t *testing.T) {
	d := newTestDraft(nil)
	fillValid(t, d)

	// Dresses is a leaf: no specific type needed.
	require.NoError(t, d.SetMainCategory("Women"))
	require.NoError(t, d.SetSubCategory("Dresses"))
	assert.Empty(t, d.Validate())

	// Topwear offers types: specific type becomes required.
	require.NoError(t, d.SetSubCategory("Topwear"))
	assert.Contains(t, d.Validate(), "Specific type required")
}

func TestSubmitBuildsCoercedPayload(t *testing.T) {
	backend := &fakeBackend{}
	d := newTestDraft(backend)
	fillValid(t, d)
	require.NoError(t, d.SetPrice(0, "discounted", "75"))
	require.NoError(t, d.SetSpecification("Fit", "Oversized"))

	saved, err := d.Submit(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "prod-1", saved.ID)

	payload := backend.lastPayload
	assert.Empty(t, payload.ID)
	assert.True(t, payload.Variants[0].Price.Original.Equal(decimal.NewFromInt(100)))
	assert.True(t, payload.Variants[0].Price.Discounted.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, 25, payload.Variants[0].Price.OffPercent)
	assert.Equal(t, 1, payload.Variants[0].Sizes[0].Stock)
	assert.Equal(t, []domain.Specification{{Key: "Fit", Value: "Oversized"}}, payload.Specifications)
	assert.Contains(t, payload.Images.Preview, "base64,")
}

func TestSubmitDefaultsAbsentDiscountToZero(t *testing.T) {
	backend := &fakeBackend{}
	d := newTestDraft(backend)
	fillValid(t, d)

	_, err := d.Submit(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, backend.lastPayload.Variants[0].Price.Discounted.IsZero())
}

func TestSubmitValidationFailureIssuesNoCall(t *testing.T) {
	backend := &fakeBackend{}
	d := newTestDraft(backend)

	_, err := d.Submit(context.Background(), "token")
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.NotEmpty(t, validation.Failures)

	creates, updates := backend.calls()
	assert.Zero(t, creates)
	assert.Zero(t, updates)
}

func TestSubmitSuccessResetsCreateDraft(t *testing.T) {
	d := newTestDraft(&fakeBackend{})
	fillValid(t, d)

	_, err := d.Submit(context.Background(), "token")
	require.NoError(t, err)

	v := d.Snapshot()
	assert.True(t, v.Editing)
	assert.Empty(t, v.Title)
	assert.Empty(t, v.Preview)
	assert.Len(t, v.Variants, 1)
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	backend := &fakeBackend{createErr: errors.New("boom")}
	d := newTestDraft(backend)
	fillValid(t, d)

	_, err := d.Submit(context.Background(), "token")
	require.Error(t, err)

	v := d.Snapshot()
	assert.True(t, v.Editing)
	assert.Equal(t, "Oversized Tee", v.Title)

	// retry works once the backend recovers
	backend.mu.Lock()
	backend.createErr = nil
	backend.mu.Unlock()
	_, err = d.Submit(context.Background(), "token")
	assert.NoError(t, err)
}

func TestDoubleSubmitIssuesOneCall(t *testing.T) {
	backend := &fakeBackend{
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	d := newTestDraft(backend)
	fillValid(t, d)

	entered := backend.entered
	done := make(chan error, 1)
	go func() {
		_, err := d.Submit(context.Background(), "token")
		done <- err
	}()

	<-entered

	_, err := d.Submit(context.Background(), "token")
	assert.ErrorIs(t, err, ErrSubmitInFlight)
	assert.ErrorIs(t, d.SetTitle("changed mid-flight"), ErrSubmitInFlight)

	close(backend.block)
	require.NoError(t, <-done)

	creates, _ := backend.calls()
	assert.Equal(t, 1, creates)
}

func TestEditDraftSubmitsUpdateAndCloses(t *testing.T) {
	backend := &fakeBackend{}
	existing := domain.Product{
		ID:           "prod-9",
		Title:        "Classic Polo",
		MainCategory: "Men",
		SubCategory:  "Topwear",
		SpecificType: "Polos",
		Images:       domain.Images{Preview: "data:image/png;base64,xxx"},
		Variants: []domain.Variant{{
			Color: "Teal",
			Price: domain.Price{
				Original:   decimal.NewFromInt(999),
				Discounted: decimal.NewFromInt(799),
				OffPercent: 20,
			},
			Sizes: []domain.Size{{Size: "M", Stock: 4}},
		}},
	}

	d := EditOf(existing, backend, zap.NewNop())

	v := d.Snapshot()
	assert.Equal(t, "prod-9", v.ExistingID)
	assert.True(t, v.Variants[0].IsCustomColor) // Teal is not in the palette
	assert.Equal(t, "999", v.Variants[0].Price.Original)
	assert.Equal(t, "4", v.Variants[0].Sizes[0].Stock)
	assert.Contains(t, v.TypeOptions, "Polos")

	saved, err := d.Submit(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "prod-9", saved.ID)
	assert.Equal(t, "prod-9", backend.lastPayload.ID)

	_, updates := backend.calls()
	assert.Equal(t, 1, updates)
	assert.Equal(t, StateClosed, d.State())

	assert.ErrorIs(t, d.SetTitle("late edit"), ErrDraftClosed)
	_, err = d.Submit(context.Background(), "token")
	assert.ErrorIs(t, err, ErrDraftClosed)
}

func TestHydratedPaletteColorIsNotCustom(t *testing.T) {
	existing := domain.Product{
		ID: "prod-2",
		Variants: []domain.Variant{{
			Color: "Black",
			Price: domain.Price{Original: decimal.NewFromInt(100)},
			Sizes: []domain.Size{{Size: "S", Stock: 1}},
		}},
	}

	d := EditOf(existing, &fakeBackend{}, zap.NewNop())
	assert.False(t, d.Snapshot().Variants[0].IsCustomColor)
}
