package catalogue

import (
	"strings"

	"assessrec/internal/domain"
)

// FrequencyText is the text the tf-idf model is fitted on.
func FrequencyText(e domain.CatalogueEntry) string {
	return strings.Join(strings.Fields(e.Name+" "+e.Description+" "+e.Skills), " ")
}

// DocumentText is the labelled text sent to embedding models.
func DocumentText(e domain.CatalogueEntry) string {
	var b strings.Builder
	b.WriteString("Assessment Name: ")
	b.WriteString(e.Name)
	b.WriteString(". Type: ")
	b.WriteString(strings.Join(e.Types, ", "))
	b.WriteString(". Duration: ")
	b.WriteString(e.Duration)
	b.WriteString(". Description: ")
	b.WriteString(e.Description)
	if e.Skills != "" {
		b.WriteString(". Skills: ")
		b.WriteString(e.Skills)
	}
	return b.String()
}
