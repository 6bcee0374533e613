package models

import (
	"maps"
	"slices"
	"time"
)

// Info is the shared guidance document. It has no owner.
type Info struct {
	ID           uint                         `gorm:"primaryKey" json:"-"`
	Introduction string                       `gorm:"type:text" json:"introduction"`
	Features     map[string]string            `gorm:"type:text;serializer:json" json:"features"`
	Calculations map[string]string            `gorm:"type:text;serializer:json" json:"calculations"`
	Examples     map[string]map[string]string `gorm:"type:text;serializer:json" json:"examples"`
	Tips         []string                     `gorm:"type:text;serializer:json" json:"tips"`
	HowToUse     map[string]string            `gorm:"type:text;serializer:json" json:"how_to_use"`
	UpdatedAt    time.Time                    `json:"-"`
}

// Clone returns a deep copy without the storage id.
func (i *Info) Clone() *Info {
	if i == nil {
		return nil
	}
	out := &Info{
		Introduction: i.Introduction,
		Features:     maps.Clone(i.Features),
		Calculations: maps.Clone(i.Calculations),
		Tips:         slices.Clone(i.Tips),
		HowToUse:     maps.Clone(i.HowToUse),
	}
	if i.Examples != nil {
		out.Examples = make(map[string]map[string]string, len(i.Examples))
		for k, v := range i.Examples {
			out.Examples[k] = maps.Clone(v)
		}
	}
	return out
}
