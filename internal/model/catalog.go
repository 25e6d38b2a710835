package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag colors accepted by the schema.
const (
	ColorOrange = "#E26C2D"
	ColorGreen  = "#49B64E"
	ColorPurple = "#8775D2"
)

// ValidTagColor reports whether c is one of the fixed tag colors.
func ValidTagColor(c string) bool {
	switch c {
	case ColorOrange, ColorGreen, ColorPurple:
		return true
	}
	return false
}

type Tag struct {
	ID    uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name  string    `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Color string    `gorm:"size:7;not null;uniqueIndex;check:color IN ('#E26C2D','#49B64E','#8775D2')" json:"color"`
	Slug  string    `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Ingredient struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name            string    `gorm:"size:200;not null;uniqueIndex" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
