package storage

import (
	emucore "github.com/nikitaolenych123-coder/pxs3c/api"
)

// SanitizeLibraryEntries drops entries that could never be loaded: those with
// an empty locator or a kind that did not decode. It also removes later
// duplicates of a locator and corrects the version.
// This runs on load so invalid entries never reach the UI.
func SanitizeLibraryEntries(doc *LibraryDocument) {
	if doc.Version != libraryVersion {
		doc.Version = libraryVersion
	}

	seen := make(map[string]bool, len(doc.Entries))
	kept := make([]CatalogEntry, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		if e.Locator == "" || e.Kind == emucore.KindUnsupported {
			continue
		}
		if seen[e.Locator] {
			continue
		}
		seen[e.Locator] = true
		if e.Title == "" {
			e.Title = emucore.LocatorName(e.Locator)
		}
		kept = append(kept, e)
	}
	doc.Entries = kept
}
