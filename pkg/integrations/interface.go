package integrations

import "github.com/kerbaras/lucollection/pkg/data"

// CatalogItem is one bundled asset as it appears in the collection catalog.
type CatalogItem struct {
	Entry data.ManifestEntry
	// Card is the metadata embedded in a character card, when it has any.
	Card *Card
	// Image is a PNG shown next to the entry: the avatar or the theme preview.
	Image []byte
}

// Describe returns the entry's description, falling back to the card's own.
func (i CatalogItem) Describe() string {
	if i.Entry.Description != "" {
		return i.Entry.Description
	}
	if i.Card != nil {
		return i.Card.Description
	}
	return ""
}
