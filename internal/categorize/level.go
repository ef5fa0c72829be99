package categorize

import (
	"regexp"
	"strings"
)

var levelFormatRe = regexp.MustCompile(`^(.+)\s*\((\d+)\)$`)

// Level standardizes a raw level to "Name (Number)" form. Values that match no
// keyword but already carry the formatted shape are passed through with a
// derived logical value; everything else lands on General (200).
func Level(logicalValue, displayValue string) Category {
	l := strings.ToLower(logicalValue)
	d := strings.ToLower(displayValue)

	if anyContains(l, d, "beginner", "100", "intro", "basic", "fundamental") {
		return Category{LogicalValue: "beginner-100", DisplayValue: "Beginner (100)"}
	}
	if anyContains(l, d, "intermediate", "200", "general") {
		return Category{LogicalValue: "intermediate-200", DisplayValue: "Intermediate (200)"}
	}
	if anyContains(l, d, "advanced", "300", "deep") {
		return Category{LogicalValue: "advanced-300", DisplayValue: "Advanced (300)"}
	}
	if anyContains(l, d, "expert", "400", "deep dive", "technical") {
		return Category{LogicalValue: "expert-400", DisplayValue: "Expert (400)"}
	}

	if m := levelFormatRe.FindStringSubmatch(displayValue); m != nil {
		name := strings.TrimSpace(m[1])
		number := m[2]
		logical := strings.Join(strings.Fields(strings.ToLower(name)), "-") + "-" + number
		return Category{LogicalValue: logical, DisplayValue: name + " (" + number + ")"}
	}

	return Category{LogicalValue: "general-200", DisplayValue: "General (200)"}
}

func AllLevelCategories() []Category {
	return []Category{
		{LogicalValue: "beginner-100", DisplayValue: "Beginner (100)"},
		{LogicalValue: "intermediate-200", DisplayValue: "Intermediate (200)"},
		{LogicalValue: "advanced-300", DisplayValue: "Advanced (300)"},
		{LogicalValue: "expert-400", DisplayValue: "Expert (400)"},
	}
}
