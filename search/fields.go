// Package search filters and ranks bike frames by how close their reach and
// stack are to a target.
package search

import (
	"fmt"
	"strings"

	"bikefit/domain"
)

// FieldResolver reads one logical value from a string-keyed record whose
// columns may be named differently from dataset to dataset. Aliases are tried
// in order and the first non-blank value wins.
type FieldResolver struct {
	Aliases []string
}

func NewFieldResolver(aliases ...string) FieldResolver {
	return FieldResolver{Aliases: aliases}
}

func (r FieldResolver) Lookup(fields map[string]string) (string, bool) {
	for _, key := range r.Aliases {
		if v := strings.TrimSpace(fields[key]); v != "" {
			return v, true
		}
	}
	return "", false
}

// Number returns the first non-blank value parsed as a float. A value that
// does not parse is unset, the same as a missing one.
func (r FieldResolver) Number(fields map[string]string) domain.Number {
	v, ok := r.Lookup(fields)
	if !ok {
		return domain.Number{}
	}
	return domain.ParseNumber(v)
}

func (r FieldResolver) String(fields map[string]string) string {
	v, _ := r.Lookup(fields)
	return v
}

var (
	BrandField    = NewFieldResolver("brand", "Brand", "make", "Make", "manufacturer")
	ModelField    = NewFieldResolver("model", "Model", "name", "Name")
	SizeField     = NewFieldResolver("size", "Size", "frame_size", "frameSize")
	ReachField    = NewFieldResolver("reach", "Reach", "reach_mm", "Reach (mm)")
	StackField    = NewFieldResolver("stack", "Stack", "stack_mm", "Stack (mm)")
	StyleField    = NewFieldResolver("style", "Style", "category", "Category", "type")
	MaterialField = NewFieldResolver("material", "Material", "frame_material", "frameMaterial")

	SRRatioField = NewFieldResolver(
		"sr_ratio", "srRatio", "SR Ratio", "stack_reach_ratio", "stackReachRatio",
		"stack_to_reach", "Stack/Reach", "s/r",
	)
	SeatTubeAngleField = NewFieldResolver(
		"sta", "STA", "seat_tube_angle", "seatTubeAngle", "Seat Tube Angle",
		"seat_angle", "seatAngle",
	)
)

// RecordFromFields builds a BikeRecord from a raw row. Reach and stack are
// required; every other column is optional and kept in Fields.
func RecordFromFields(fields map[string]string) (domain.BikeRecord, error) {
	reach := ReachField.Number(fields)
	stack := StackField.Number(fields)
	if !reach.Set || !stack.Set {
		return domain.BikeRecord{}, fmt.Errorf("record %q %q %q: reach and stack are required",
			BrandField.String(fields), ModelField.String(fields), SizeField.String(fields))
	}
	return domain.BikeRecord{
		Brand:    BrandField.String(fields),
		Model:    ModelField.String(fields),
		Size:     SizeField.String(fields),
		Reach:    reach.Value,
		Stack:    stack.Value,
		Style:    StyleField.String(fields),
		Material: MaterialField.String(fields),
		Fields:   fields,
	}, nil
}
