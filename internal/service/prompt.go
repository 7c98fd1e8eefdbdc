package service

import (
	"fmt"
	"strings"
)

const (
	AlternativeCount  = 5
	ConventionalCount = 2
)

// Category rotation for alternative entries, with what each entry must name
var alternativeCategories = []struct {
	category string
	detail   string
}{
	{"Acupuncture", "Specify exact body points"},
	{"Herbal Remedies", "Name exact herbs"},
	{"Supplements", "List exact supplements"},
	{"Mind-Body Techniques", "Mention specific practices"},
}

// BuildPrompt renders the generation instruction for a predicted disease.
// The output depends only on disease.
func BuildPrompt(disease string) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Objective: Suggest %d Alternative Medicines and %d Conventional Medicines to treat the disease below. Follow the structure strictly.\n\n",
		AlternativeCount, ConventionalCount))
	prompt.WriteString(fmt.Sprintf("Disease: %s\n\n", strings.TrimSpace(disease)))
	prompt.WriteString("---\n\n")

	prompt.WriteString(fmt.Sprintf("**Alternative Medicine** (Provide exactly %d)\n", AlternativeCount))
	prompt.WriteString("For each entry, provide:\n\n")
	prompt.WriteString("1. **Name**\n")
	prompt.WriteString("2. **Description** - What it is and how it helps\n")
	prompt.WriteString("3. **Precaution** - One health precaution to consider\n\n")
	prompt.WriteString("Include a variety from these categories:\n")
	for _, c := range alternativeCategories {
		prompt.WriteString(fmt.Sprintf("- %s -> %s\n", c.category, c.detail))
	}
	prompt.WriteString("\nFormat for each: a single numbered line, \"N. **Name** - Description. Precaution: ...\"\n\n")
	prompt.WriteString("---\n\n")

	prompt.WriteString(fmt.Sprintf("**Conventional Medicine** (Provide exactly %d)\n", ConventionalCount))
	prompt.WriteString("For each entry, include:\n\n")
	prompt.WriteString("1. **Medicine Name**\n")
	prompt.WriteString("2. **Drugs Included** - Active chemical compounds or drug names\n")
	prompt.WriteString("3. **Precaution** - One-liner health advisory\n\n")
	prompt.WriteString("Format for each: a single numbered line, \"N. **Medicine Name** - Drugs Included: ... Precaution: ...\"\n\n")
	prompt.WriteString("---\n\n")

	prompt.WriteString("Finish with a **Disclaimer** section of one or two sentences advising the reader to consult a qualified healthcare professional.\n")
	prompt.WriteString("Put each section header (**Alternative Medicine**, **Conventional Medicine**, **Disclaimer**) on its own line and do not repeat those phrases inside entries.\n")

	return prompt.String()
}
