package form

import (
	"github.com/beyoung-commerce/admin-console/internal/domain"
)

// View is a consistent read of the draft for rendering: current values plus
// the derived dropdown option lists.
type View struct {
	State        string `json:"state"`
	Editing      bool   `json:"editing"`
	ExistingID   string `json:"existing_id,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	MainCategory string `json:"mainCategory"`
	SubCategory  string `json:"subCategory"`
	SpecificType string `json:"specificType"`

	SubCategoryOptions []string `json:"subCategoryOptions"`
	TypeOptions        []string `json:"typeOptions"`

	Specifications map[string]string `json:"specifications"`
	CustomSpecs    map[string]bool   `json:"customSpecs"`

	Variants []VariantView         `json:"variants"`
	Preview  string                `json:"preview"`
	Gallery  []domain.GalleryImage `json:"gallery"`
}

type VariantView struct {
	Color         string     `json:"color"`
	IsCustomColor bool       `json:"isCustomColor"`
	Price         PriceView  `json:"price"`
	Sizes         []SizeView `json:"sizes"`
}

// PriceView exposes the raw input strings; OffPercent is the last computed
// value, possibly stale while the pair is invalid.
type PriceView struct {
	Original   string `json:"original"`
	Discounted string `json:"discounted"`
	OffPercent string `json:"offPercent"`
}

type SizeView struct {
	Size  string `json:"size"`
	Stock string `json:"stock"`
}

func (d *Draft) Snapshot() View {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := View{
		State:              d.state.String(),
		Editing:            d.state == StateEditing,
		ExistingID:         d.existingID,
		Title:              d.title,
		Description:        d.description,
		MainCategory:       d.mainCategory,
		SubCategory:        d.subCategory,
		SpecificType:       d.specificType,
		SubCategoryOptions: append([]string(nil), d.subOptions...),
		TypeOptions:        append([]string(nil), d.typeOptions...),
		Specifications:     make(map[string]string, len(d.specs)),
		CustomSpecs:        make(map[string]bool, len(d.customSpecs)),
		Preview:            d.preview,
	}
	for k, val := range d.specs {
		v.Specifications[k] = val
	}
	for k, flag := range d.customSpecs {
		v.CustomSpecs[k] = flag
	}
	for _, g := range d.gallery {
		v.Gallery = append(v.Gallery, domain.GalleryImage{View: g.view, File: g.file})
	}
	for _, vs := range d.variants {
		vv := VariantView{
			Color:         vs.color,
			IsCustomColor: vs.isCustomColor,
			Price: PriceView{
				Original:   vs.original,
				Discounted: vs.discounted,
				OffPercent: vs.offPercent,
			},
		}
		for _, s := range vs.sizes {
			vv.Sizes = append(vv.Sizes, SizeView{Size: s.size, Stock: s.stock})
		}
		v.Variants = append(v.Variants, vv)
	}
	return v
}
