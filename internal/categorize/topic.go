package categorize

import "strings"

// Topic maps a raw topic to one of at most 15 main categories.
func Topic(logicalValue, displayValue string) Category {
	l := strings.ToLower(logicalValue)
	d := strings.ToLower(displayValue)

	if anyContains(l, d, "cloud", "azure", "infrastructure", "iaas", "paas") {
		return Category{LogicalValue: "cloud-infrastructure", DisplayValue: "Cloud & Infrastructure"}
	}
	if anyContains(l, d, "security", "compliance", "identity", "authentication", "authorization", "defender", "entra") {
		return Category{LogicalValue: "security-compliance", DisplayValue: "Security & Compliance"}
	}
	if anyContains(l, d, "ai", "artificial intelligence", "machine learning", "ml", "copilot", "openai", "cognitive") {
		return Category{LogicalValue: "ai-machine-learning", DisplayValue: "AI & Machine Learning"}
	}
	if anyContains(l, d, "data", "analytics", "database", "sql", "data warehouse", "data lake", "power bi", "fabric") {
		return Category{LogicalValue: "data-analytics", DisplayValue: "Data & Analytics"}
	}
	// "code" on the display side must not swallow low-code content; the
	// logical side carries no such guard upstream.
	if anyContains(l, d, "developer", "devops", "github", "visual studio") ||
		strings.Contains(l, "code") ||
		(strings.Contains(d, "code") && !strings.Contains(d, "low code")) ||
		anyContains(l, d, "kubernetes", "container", "docker") {
		return Category{LogicalValue: "developer-devops", DisplayValue: "Developer Tools & DevOps"}
	}
	if anyContains(l, d, "microsoft 365", "office 365", "teams", "sharepoint", "outlook", "excel", "word", "powerpoint", "productivity") {
		return Category{LogicalValue: "m365-productivity", DisplayValue: "Microsoft 365 & Productivity"}
	}
	if anyContains(l, d, "power platform", "power apps", "power automate", "power pages", "low code", "no code") {
		return Category{LogicalValue: "power-platform", DisplayValue: "Power Platform & Low-Code"}
	}
	if anyContains(l, d, "windows", "endpoint", "intune", "device management", "autopilot") {
		return Category{LogicalValue: "windows-endpoint", DisplayValue: "Windows & Endpoint Management"}
	}
	if anyContains(l, d, "dynamics", "crm", "erp", "business application") ||
		strings.Contains(l, "sales") ||
		(strings.Contains(d, "sales") && !strings.Contains(d, "retail")) ||
		anyContains(l, d, "customer service") {
		return Category{LogicalValue: "business-applications", DisplayValue: "Business Applications & Dynamics"}
	}
	if anyContains(l, d, "networking", "network", "connectivity", "vpn", "sd-wan") {
		return Category{LogicalValue: "networking-connectivity", DisplayValue: "Networking & Connectivity"}
	}
	if anyContains(l, d, "hybrid", "multi-cloud", "arc") {
		return Category{LogicalValue: "hybrid-multicloud", DisplayValue: "Hybrid & Multi-Cloud"}
	}
	if anyContains(l, d, "healthcare", "retail", "manufacturing", "financial", "education", "government", "nonprofit") {
		return Category{LogicalValue: "industry-solutions", DisplayValue: "Industry Solutions"}
	}
	if anyContains(l, d, "collaboration", "remote work", "hybrid work", "viva", "workplace") {
		return Category{LogicalValue: "modern-work", DisplayValue: "Modern Work & Collaboration"}
	}
	if anyContains(l, d, "governance", "management", "administration", "cost management") {
		return Category{LogicalValue: "governance-management", DisplayValue: "Governance & Management"}
	}

	return Category{LogicalValue: "other", DisplayValue: "Other"}
}

func AllTopicCategories() []Category {
	return []Category{
		{LogicalValue: "cloud-infrastructure", DisplayValue: "Cloud & Infrastructure"},
		{LogicalValue: "security-compliance", DisplayValue: "Security & Compliance"},
		{LogicalValue: "ai-machine-learning", DisplayValue: "AI & Machine Learning"},
		{LogicalValue: "data-analytics", DisplayValue: "Data & Analytics"},
		{LogicalValue: "developer-devops", DisplayValue: "Developer Tools & DevOps"},
		{LogicalValue: "m365-productivity", DisplayValue: "Microsoft 365 & Productivity"},
		{LogicalValue: "power-platform", DisplayValue: "Power Platform & Low-Code"},
		{LogicalValue: "windows-endpoint", DisplayValue: "Windows & Endpoint Management"},
		{LogicalValue: "business-applications", DisplayValue: "Business Applications & Dynamics"},
		{LogicalValue: "networking-connectivity", DisplayValue: "Networking & Connectivity"},
		{LogicalValue: "hybrid-multicloud", DisplayValue: "Hybrid & Multi-Cloud"},
		{LogicalValue: "industry-solutions", DisplayValue: "Industry Solutions"},
		{LogicalValue: "modern-work", DisplayValue: "Modern Work & Collaboration"},
		{LogicalValue: "governance-management", DisplayValue: "Governance & Management"},
		{LogicalValue: "other", DisplayValue: "Other"},
	}
}
