// Package catalogseed loads catalog items from a YAML document.
package catalogseed

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	types "github.com/yungbote/styleswipe-backend/internal/domain"
	"github.com/yungbote/styleswipe-backend/internal/domain/catalog"
)

// skuNamespace derives stable item ids from SKUs so reseeding updates rows
// in place.
var skuNamespace = uuid.MustParse("6f1c7d1e-3a52-4b8e-9a57-1f4f6f0c2b11")

type File struct {
	Items []Entry `yaml:"items"`
}

type Entry struct {
	SKU         string                    `yaml:"sku"`
	Name        string                    `yaml:"name"`
	Brand       string                    `yaml:"brand"`
	Description string                    `yaml:"description"`
	Category    string                    `yaml:"category"`
	Subcategory string                    `yaml:"subcategory"`
	Price       float64                   `yaml:"price"`
	Sizes       []string                  `yaml:"sizes"`
	Colors      []string                  `yaml:"colors"`
	Material    string                    `yaml:"material"`
	Pattern     string                    `yaml:"pattern"`
	Style       []string                  `yaml:"style"`
	Occasion    []string                  `yaml:"occasion"`
	Gender      string                    `yaml:"gender"`
	Fit         string                    `yaml:"fit"`
	Images      []string                  `yaml:"images"`
	Stock       map[string]map[string]int `yaml:"stock"`
	Inactive    bool                      `yaml:"inactive"`
}

// ItemID is the id an entry with the given SKU is stored under.
func ItemID(sku string) uuid.UUID {
	return uuid.NewSHA1(skuNamespace, []byte(strings.TrimSpace(sku)))
}

// Parse decodes and validates a catalog document. Every invalid entry is
// reported, not just the first.
func Parse(r io.Reader) ([]*types.Item, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return []*types.Item{}, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	var (
		errs  []error
		items = make([]*types.Item, 0, len(f.Items))
		seen  = map[string]int{}
	)
	for i, e := range f.Items {
		sku := strings.TrimSpace(e.SKU)
		if prev, ok := seen[sku]; ok && sku != "" {
			errs = append(errs, fmt.Errorf("item %d: sku %q already used by item %d", i, sku, prev))
			continue
		}
		seen[sku] = i
		if err := e.validate(); err != nil {
			errs = append(errs, fmt.Errorf("item %d (%s): %w", i, sku, err))
			continue
		}
		items = append(items, e.toItem())
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return items, nil
}

func (e Entry) validate() error {
	var errs []error
	if strings.TrimSpace(e.SKU) == "" {
		errs = append(errs, errors.New("sku is required"))
	}
	if strings.TrimSpace(e.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if strings.TrimSpace(e.Brand) == "" {
		errs = append(errs, errors.New("brand is required"))
	}
	if !catalog.In(catalog.Categories, e.Category) {
		errs = append(errs, fmt.Errorf("unknown category %q", e.Category))
	}
	if !catalog.In(catalog.ItemGenders, e.Gender) {
		errs = append(errs, fmt.Errorf("unknown gender %q", e.Gender))
	}
	if e.Price < 0 {
		errs = append(errs, fmt.Errorf("price %v is negative", e.Price))
	}
	if e.Pattern != "" && !catalog.In(catalog.Patterns, e.Pattern) {
		errs = append(errs, fmt.Errorf("unknown pattern %q", e.Pattern))
	}
	if !catalog.AllIn(catalog.Styles, e.Style) {
		errs = append(errs, fmt.Errorf("unknown style in %v", e.Style))
	}
	if !catalog.AllIn(catalog.Colors, e.Colors) {
		errs = append(errs, fmt.Errorf("unknown color in %v", e.Colors))
	}
	for size, byColor := range e.Stock {
		if !catalog.In(e.Sizes, size) {
			errs = append(errs, fmt.Errorf("stock size %q is not offered", size))
		}
		for color, qty := range byColor {
			if !catalog.In(e.Colors, color) {
				errs = append(errs, fmt.Errorf("stock color %q is not offered", color))
			}
			if qty < 0 {
				errs = append(errs, fmt.Errorf("stock %s/%s is negative", size, color))
			}
		}
	}
	return errors.Join(errs...)
}

func (e Entry) toItem() *types.Item {
	stock := types.Stock{}
	for size, byColor := range e.Stock {
		stock[size] = map[string]int{}
		for color, qty := range byColor {
			stock[size][color] = qty
		}
	}
	return &types.Item{
		ID:              ItemID(e.SKU),
		Name:            strings.TrimSpace(e.Name),
		Brand:           strings.TrimSpace(e.Brand),
		Description:     e.Description,
		Category:        e.Category,
		Subcategory:     e.Subcategory,
		Price:           e.Price,
		AvailableSizes:  datatypes.JSONSlice[string](nonNil(e.Sizes)),
		AvailableColors: datatypes.JSONSlice[string](nonNil(e.Colors)),
		Material:        e.Material,
		Pattern:         e.Pattern,
		Style:           datatypes.JSONSlice[string](nonNil(e.Style)),
		Occasion:        datatypes.JSONSlice[string](nonNil(e.Occasion)),
		Gender:          e.Gender,
		Fit:             e.Fit,
		Images:          datatypes.JSONSlice[string](nonNil(e.Images)),
		Stock:           datatypes.NewJSONType(stock),
		IsActive:        !e.Inactive,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
