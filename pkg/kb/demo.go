package kb

import (
	"fmt"
)

// DefaultDemoName is the knowledge base written by SeedDemo.
const DefaultDemoName = "demo"

// SeedDemo writes a small starter knowledge base and returns the number of
// items written. An existing knowledge base under the name is only replaced
// when overwrite is set.
func SeedDemo(c *Catalog, name string, overwrite bool) (int, error) {
	if name == "" {
		name = DefaultDemoName
	}
	if err := validateName(name); err != nil {
		return 0, err
	}

	if !overwrite && c.Exists(name) {
		return 0, fmt.Errorf("knowledge base %q already exists (use overwrite to replace it)", name)
	}

	items := demoItems()
	if err := c.Save(name, items); err != nil {
		return 0, err
	}

	return len(items), nil
}

func demoItems() []Item {
	return []Item{
		{Question: "Capital of France?", Answer: "Paris"},
		{Question: "Capital of Japan?", Answer: "Tokyo"},
		{Question: "Capital of Canada?", Answer: "Ottawa"},
		{Question: "Capital of Australia?", Answer: "Canberra"},
		{Question: "Capital of Brazil?", Answer: "Brasília"},
		{Question: "Capital of Egypt?", Answer: "Cairo"},
		{Question: "Capital of Kenya?", Answer: "Nairobi"},
		{Question: "Capital of Norway?", Answer: "Oslo"},
		{Question: "Capital of Poland?", Answer: "Warsaw"},
		{Question: "Capital of Thailand?", Answer: "Bangkok"},
		{Question: "Capital of Mexico?", Answer: "Mexico City"},
		{Question: "Capital of New Zealand?", Answer: "Wellington"},
	}
}
