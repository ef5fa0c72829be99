package categorize

import "strings"

// SessionType maps a raw session type to one of at most 10 main categories.
func SessionType(logicalValue, displayValue string) Category {
	l := strings.ToLower(logicalValue)
	d := strings.ToLower(displayValue)

	if anyContains(l, d, "breakout", "chalk talk", "lightning talk", "innovation talk", "code talk") {
		return Category{LogicalValue: "presentations-talks", DisplayValue: "Presentations & Talks"}
	}
	if anyContains(l, d, "workshop", "lab", "builders", "bootcamp", "interactive training") {
		return Category{LogicalValue: "hands-on-learning", DisplayValue: "Hands-on Learning"}
	}
	if anyContains(l, d, "self-paced", "pre-recorded", "on-demand", "gamified learning", "exam prep") {
		return Category{LogicalValue: "self-paced-training", DisplayValue: "Self-paced & Training"}
	}
	if anyContains(l, d, "keynote", "featured") {
		return Category{LogicalValue: "keynotes-featured", DisplayValue: "Keynotes & Featured"}
	}
	if anyContains(l, d, "theater", "expo") {
		return Category{LogicalValue: "theater-demos", DisplayValue: "Theater & Demos"}
	}
	if anyContains(l, d, "meetup", "community", "interview") {
		return Category{LogicalValue: "community-networking", DisplayValue: "Community & Networking"}
	}
	if anyContains(l, d, "event service") {
		return Category{LogicalValue: "event-services", DisplayValue: "Event Services"}
	}

	return Category{LogicalValue: "other", DisplayValue: "Other"}
}

func AllSessionTypeCategories() []Category {
	return []Category{
		{LogicalValue: "presentations-talks", DisplayValue: "Presentations & Talks"},
		{LogicalValue: "hands-on-learning", DisplayValue: "Hands-on Learning"},
		{LogicalValue: "keynotes-featured", DisplayValue: "Keynotes & Featured"},
		{LogicalValue: "theater-demos", DisplayValue: "Theater & Demos"},
		{LogicalValue: "community-networking", DisplayValue: "Community & Networking"},
		{LogicalValue: "self-paced-training", DisplayValue: "Self-paced & Training"},
		{LogicalValue: "event-services", DisplayValue: "Event Services"},
		{LogicalValue: "other", DisplayValue: "Other"},
	}
}
