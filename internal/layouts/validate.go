package layouts

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateAreas checks every area against its column budget and collects all
// violations.
func ValidateAreas(areas []Area, defaultColumns int) []string {
	var errs []string
	for i, area := range areas {
		label := area.Name
		if strings.TrimSpace(label) == "" {
			label = fmt.Sprintf("#%d", i)
			errs = append(errs, fmt.Sprintf("area %s has no name", label))
		}
		total := area.TotalColumns
		if total <= 0 {
			total = defaultColumns
		}
		used := 0
		for j, cell := range area.Cells {
			if cell.ColumnSpan <= 0 {
				errs = append(errs, fmt.Sprintf("area %q cell %d has non-positive column span %d", label, j, cell.ColumnSpan))
				continue
			}
			used += cell.ColumnSpan
		}
		if used > total {
			errs = append(errs, fmt.Sprintf("area %q uses %d columns but only %d are available", label, used, total))
		}
	}
	return errs
}

// validateTemplate checks a template before it enters the registry.
func validateTemplate(tpl *Template, defaultColumns int) error {
	if tpl == nil {
		return ErrTemplateRequired
	}
	err := validation.ValidateStruct(tpl,
		validation.Field(&tpl.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&tpl.Areas, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplateInvalid, err)
	}
	if errs := ValidateAreas(tpl.Areas, defaultColumns); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrTemplateInvalid, strings.Join(errs, "; "))
	}
	return nil
}
