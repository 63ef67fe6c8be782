// Package form manages a single in-progress product draft: the cascading
// category selection, color and specification entry with their custom-value
// sentinels, per-variant pricing and stock rows, inline image slots, and the
// validate/submit cycle against the backend.
package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/beyoung-commerce/admin-console/internal/domain"
	"github.com/beyoung-commerce/admin-console/internal/taxonomy"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateClosed:
		return "closed"
	default:
		return "editing"
	}
}

var (
	ErrSubmitInFlight = errors.New("a submit is already in progress")
	ErrDraftClosed    = errors.New("draft is closed")
	ErrBadIndex       = errors.New("no such variant or size")
	ErrBadField       = errors.New("unknown field")
)

// Backend is the slice of the API client the draft needs to persist itself.
type Backend interface {
	CreateProduct(ctx context.Context, payload domain.Product, token string) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, payload domain.Product, token string) (domain.Product, error)
}

// Draft holds one product being created or edited. All mutations serialize
// under the draft's lock; image encodes complete asynchronously and reacquire
// it to apply.
type Draft struct {
	backend Backend
	logger  *zap.Logger

	mu    sync.Mutex
	state State

	// non-empty when the draft was hydrated from an existing product
	existingID string

	title        string
	description  string
	mainCategory string
	subCategory  string
	specificType string
	subOptions   []string
	typeOptions  []string

	specs       map[string]string
	customSpecs map[string]bool

	variants []variantState

	preview   string
	gallery   []galleryState
	uploadSeq map[string]uint64
	uploads   sync.WaitGroup
}

type variantState struct {
	color         string
	isCustomColor bool
	original      string
	discounted    string
	offPercent    string
	sizes         []sizeState
}

type sizeState struct {
	size  string
	stock string
}

type galleryState struct {
	view string
	file string
}

// NewDraft returns an empty draft: one blank variant with a single default
// size row, no categories, no images.
func NewDraft(backend Backend, logger *zap.Logger) *Draft {
	d := &Draft{
		backend:   backend,
		logger:    logger,
		uploadSeq: make(map[string]uint64),
	}
	d.resetLocked()
	return d
}

// EditOf returns a draft hydrated from an existing product. Custom-color and
// custom-specification flags are derived by checking stored values against the
// taxonomy, the same way the form decides which free-text inputs to show.
func EditOf(p domain.Product, backend Backend, logger *zap.Logger) *Draft {
	d := NewDraft(backend, logger)
	d.existingID = p.ID

	d.title = p.Title
	d.description = p.Description
	d.mainCategory = p.MainCategory
	d.subCategory = p.SubCategory
	d.specificType = p.SpecificType
	d.subOptions = taxonomy.SubCategoriesOf(p.MainCategory)
	d.typeOptions = taxonomy.TypesOf(p.MainCategory, p.SubCategory)

	for _, spec := range p.Specifications {
		d.specs[spec.Key] = spec.Value
		if spec.Value != "" && !taxonomy.IsSpecOption(spec.Key, spec.Value) {
			d.customSpecs[spec.Key] = true
		}
	}

	if len(p.Variants) > 0 {
		d.variants = d.variants[:0]
	}
	for _, v := range p.Variants {
		vs := variantState{
			color:         v.Color,
			isCustomColor: v.Color != "" && !taxonomy.IsPaletteColor(v.Color),
			original:      v.Price.Original.String(),
			offPercent:    strconv.Itoa(v.Price.OffPercent),
		}
		if !v.Price.Discounted.IsZero() {
			vs.discounted = v.Price.Discounted.String()
		}
		for _, s := range v.Sizes {
			vs.sizes = append(vs.sizes, sizeState{size: s.Size, stock: strconv.Itoa(s.Stock)})
		}
		if len(vs.sizes) == 0 {
			vs.sizes = []sizeState{{size: "S"}}
		}
		d.variants = append(d.variants, vs)
	}

	d.preview = p.Images.Preview
	for _, g := range p.Images.Gallery {
		for i := range d.gallery {
			if d.gallery[i].view == g.View {
				d.gallery[i].file = g.File
			}
		}
	}

	return d
}

// resetLocked reinitializes the draft to its empty state. Callers hold the
// lock (or own the draft exclusively, as constructors do).
func (d *Draft) resetLocked() {
	d.state = StateEditing
	d.existingID = ""
	d.title = ""
	d.description = ""
	d.mainCategory = ""
	d.subCategory = ""
	d.specificType = ""
	d.subOptions = nil
	d.typeOptions = nil
	d.specs = make(map[string]string)
	d.customSpecs = make(map[string]bool)
	d.variants = []variantState{newVariant()}
	d.preview = ""
	d.gallery = d.gallery[:0]
	for _, view := range taxonomy.GalleryViews {
		d.gallery = append(d.gallery, galleryState{view: view})
	}
}

func newVariant() variantState {
	return variantState{sizes: []sizeState{{size: "S"}}}
}

// Editing reports whether the draft still accepts mutations.
func (d *Draft) Editing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state == StateEditing
}

func (d *Draft) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Draft) SetTitle(v string) error {
	return d.edit(func() error {
		d.title = v
		return nil
	})
}

func (d *Draft) SetDescription(v string) error {
	return d.edit(func() error {
		d.description = v
		return nil
	})
}

// SetMainCategory selects the first-level category. The sub-category and
// specific type always reset, and both dependent option lists are recomputed.
func (d *Draft) SetMainCategory(v string) error {
	return d.edit(func() error {
		d.mainCategory = v
		d.subCategory = ""
		d.specificType = ""
		d.subOptions = taxonomy.SubCategoriesOf(v)
		d.typeOptions = nil
		return nil
	})
}

// SetSubCategory selects the second-level category and resets the specific
// type. An empty type option list means the pair is a leaf and the form has
// no third selection step.
func (d *Draft) SetSubCategory(v string) error {
	return d.edit(func() error {
		d.subCategory = v
		d.specificType = ""
		d.typeOptions = taxonomy.TypesOf(d.mainCategory, v)
		return nil
	})
}

func (d *Draft) SetSpecificType(v string) error {
	return d.edit(func() error {
		d.specificType = v
		return nil
	})
}

// SetColor applies a color dropdown selection to a variant. The Custom
// sentinel clears the stored color and switches the variant to free-text
// entry; a palette value sets the color directly and leaves custom mode.
func (d *Draft) SetColor(variant int, v string) error {
	return d.edit(func() error {
		vs, err := d.variant(variant)
		if err != nil {
			return err
		}
		if v == taxonomy.CustomColor {
			vs.isCustomColor = true
			vs.color = ""
		} else {
			vs.isCustomColor = false
			vs.color = v
		}
		return nil
	})
}

// SetCustomColor types into the free-text color input. The custom flag stays
// set regardless of the text.
func (d *Draft) SetCustomColor(variant int, v string) error {
	return d.edit(func() error {
		vs, err := d.variant(variant)
		if err != nil {
			return err
		}
		vs.color = v
		return nil
	})
}

// SetSpecification applies a specification dropdown selection. The Other
// sentinel clears the stored value and switches the field to free-text entry.
func (d *Draft) SetSpecification(key, v string) error {
	return d.edit(func() error {
		if _, ok := taxonomy.SpecOptions[key]; !ok {
			return ErrBadField
		}
		if v == taxonomy.OtherOption {
			d.customSpecs[key] = true
			d.specs[key] = ""
		} else {
			d.customSpecs[key] = false
			d.specs[key] = v
		}
		return nil
	})
}

func (d *Draft) SetCustomSpecification(key, v string) error {
	return d.edit(func() error {
		if _, ok := taxonomy.SpecOptions[key]; !ok {
			return ErrBadField
		}
		d.specs[key] = v
		return nil
	})
}

// SetPrice updates one of the two price inputs on a variant. The discount
// percentage is recomputed only while the pair is valid; on invalid input the
// last computed value is deliberately left in place.
func (d *Draft) SetPrice(variant int, field, raw string) error {
	return d.edit(func() error {
		vs, err := d.variant(variant)
		if err != nil {
			return err
		}
		switch field {
		case "original":
			vs.original = raw
		case "discounted":
			vs.discounted = raw
		default:
			return ErrBadField
		}

		original, errO := decimal.NewFromString(strings.TrimSpace(vs.original))
		discounted, errD := decimal.NewFromString(strings.TrimSpace(vs.discounted))
		if errO == nil && errD == nil &&
			original.IsPositive() &&
			!discounted.IsNegative() &&
			discounted.LessThanOrEqual(original) {
			off := original.Sub(discounted).
				Div(original).
				Mul(decimal.NewFromInt(100)).
				Round(0)
			vs.offPercent = off.String()
		}
		return nil
	})
}

func (d *Draft) AddVariant() error {
	return d.edit(func() error {
		d.variants = append(d.variants, newVariant())
		return nil
	})
}

func (d *Draft) RemoveVariant(variant int) error {
	return d.edit(func() error {
		if variant < 0 || variant >= len(d.variants) {
			return ErrBadIndex
		}
		d.variants = append(d.variants[:variant], d.variants[variant+1:]...)
		return nil
	})
}

func (d *Draft) AddSize(variant int) error {
	return d.edit(func() error {
		vs, err := d.variant(variant)
		if err != nil {
			return err
		}
		vs.sizes = append(vs.sizes, sizeState{size: "S"})
		return nil
	})
}

func (d *Draft) RemoveSize(variant, size int) error {
	return d.edit(func() error {
		vs, err := d.variant(variant)
		if err != nil {
			return err
		}
		if size < 0 || size >= len(vs.sizes) {
			return ErrBadIndex
		}
		vs.sizes = append(vs.sizes[:size], vs.sizes[size+1:]...)
		return nil
	})
}

func (d *Draft) SetSize(variant, size int, field, v string) error {
	return d.edit(func() error {
		vs, err := d.variant(variant)
		if err != nil {
			return err
		}
		if size < 0 || size >= len(vs.sizes) {
			return ErrBadIndex
		}
		switch field {
		case "size":
			vs.sizes[size].size = v
		case "stock":
			vs.sizes[size].stock = v
		default:
			return ErrBadField
		}
		return nil
	})
}

// edit runs fn under the lock, refusing mutations once the draft has left the
// editing state.
func (d *Draft) edit(fn func() error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case StateSubmitting:
		return ErrSubmitInFlight
	case StateClosed:
		return ErrDraftClosed
	}
	return fn()
}

func (d *Draft) variant(i int) (*variantState, error) {
	if i < 0 || i >= len(d.variants) {
		return nil, ErrBadIndex
	}
	return &d.variants[i], nil
}

// Validate checks the draft against the submission rules and returns the
// list of human-readable failures, empty when the draft is submittable.
func (d *Draft) Validate() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.validateLocked()
}

func (d *Draft) validateLocked() []string {
	var failures []string

	if strings.TrimSpace(d.title) == "" {
		failures = append(failures, "Product title required")
	}
	if d.mainCategory == "" || d.subCategory == "" {
		failures = append(failures, "Category required")
	} else if len(taxonomy.TypesOf(d.mainCategory, d.subCategory)) > 0 && d.specificType == "" {
		failures = append(failures, "Specific type required")
	}
	if d.preview == "" {
		failures = append(failures, "Main Product Image is required!")
	}
	if len(d.variants) == 0 {
		failures = append(failures, "At least one variant is required")
	}

	for i := range d.variants {
		vs := &d.variants[i]
		label := fmt.Sprintf("Variant %d", i+1)

		if strings.TrimSpace(vs.color) == "" {
			failures = append(failures, label+": color is required")
		}
		original, err := decimal.NewFromString(strings.TrimSpace(vs.original))
		if err != nil || !original.IsPositive() {
			failures = append(failures, label+": original price required")
		}
		if len(vs.sizes) == 0 {
			failures = append(failures, label+": add at least one size")
		}
		for j, s := range vs.sizes {
			stock, err := strconv.Atoi(strings.TrimSpace(s.stock))
			if err != nil || stock < 0 {
				failures = append(failures, fmt.Sprintf("%s size %d: stock must be a non-negative number", label, j+1))
			}
		}
	}

	return failures
}

// buildPayloadLocked converts the draft to the wire product: prices and stock
// are coerced to numbers (absent discounted becomes 0) and UI-only state such
// as the custom-color flag is dropped.
func (d *Draft) buildPayloadLocked() domain.Product {
	p := domain.Product{
		ID:           d.existingID,
		Title:        d.title,
		Description:  d.description,
		MainCategory: d.mainCategory,
		SubCategory:  d.subCategory,
		SpecificType: d.specificType,
		Images: domain.Images{
			Preview: d.preview,
		},
	}

	for _, key := range taxonomy.SpecFields {
		if v := d.specs[key]; v != "" {
			p.Specifications = append(p.Specifications, domain.Specification{Key: key, Value: v})
		}
	}

	for _, g := range d.gallery {
		p.Images.Gallery = append(p.Images.Gallery, domain.GalleryImage{View: g.view, File: g.file})
	}

	for _, vs := range d.variants {
		original, _ := decimal.NewFromString(strings.TrimSpace(vs.original))
		discounted := decimal.Zero
		if raw := strings.TrimSpace(vs.discounted); raw != "" {
			if parsed, err := decimal.NewFromString(raw); err == nil {
				discounted = parsed
			}
		}
		off, _ := strconv.Atoi(vs.offPercent)

		v := domain.Variant{
			Color: vs.color,
			Price: domain.Price{
				Original:   original,
				Discounted: discounted,
				OffPercent: off,
			},
		}
		for _, s := range vs.sizes {
			stock, _ := strconv.Atoi(strings.TrimSpace(s.stock))
			v.Sizes = append(v.Sizes, domain.Size{Size: s.size, Stock: stock})
		}
		p.Variants = append(p.Variants, v)
	}

	return p
}
