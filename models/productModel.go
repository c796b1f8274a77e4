package models

import (
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
)

const DefaultCategory = "Other"

type Product struct {
	Base
	Name        string         `gorm:"size:100;not null" json:"name"`
	Description string         `gorm:"size:1000;not null" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Image       string         `gorm:"size:500" json:"image"`
	Category    string         `gorm:"size:50;index;not null;default:Other" json:"category"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// ProductInput is the request body for both create and update. Absent fields
// are left untouched on update.
type ProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
}

// Apply copies the present input fields onto p, trimming strings.
func (in ProductInput) Apply(p *Product) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Image != nil {
		p.Image = strings.TrimSpace(*in.Image)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
}

// Validate reports every rule the product breaks. An empty result means valid.
// Length limits count characters, not bytes.
func (p Product) Validate() []string {
	var errs []string
	switch {
	case p.Name == "":
		errs = append(errs, "name is required")
	case utf8.RuneCountInString(p.Name) > 100:
		errs = append(errs, "name must be at most 100 characters")
	}
	switch {
	case p.Description == "":
		errs = append(errs, "description is required")
	case utf8.RuneCountInString(p.Description) > 1000:
		errs = append(errs, "description must be at most 1000 characters")
	}
	if p.Price < 0 {
		errs = append(errs, "price must be a non-negative number")
	}
	if p.Stock < 0 {
		errs = append(errs, "stock must be a non-negative integer")
	}
	if utf8.RuneCountInString(p.Category) > 50 {
		errs = append(errs, "category must be at most 50 characters")
	}
	if utf8.RuneCountInString(p.Image) > 500 {
		errs = append(errs, "image must be at most 500 characters")
	}
	return errs
}
