package viewmodel

import "github.com/dealhive/dealhive/domain"

// storeIcons maps known merchant slugs to their bundled icon assets.
var storeIcons = map[string]string{
	"amazon":     "/static/stores/amazon.svg",
	"aliexpress": "/static/stores/aliexpress.svg",
	"bestbuy":    "/static/stores/bestbuy.svg",
	"costco":     "/static/stores/costco.svg",
	"ebay":       "/static/stores/ebay.svg",
	"etsy":       "/static/stores/etsy.svg",
	"homedepot":  "/static/stores/homedepot.svg",
	"newegg":     "/static/stores/newegg.svg",
	"target":     "/static/stores/target.svg",
	"walmart":    "/static/stores/walmart.svg",
}

// resolveStoreIcon picks the store image in precedence order: explicit logo
// URL on the nested store object, then the builtin icon for a known slug.
// Unknown or missing stores yield an empty string; the caller decides what
// (if anything) to render in that case.
func resolveStoreIcon(store *domain.Store, flatSlug string) string {
	slug := flatSlug
	if store != nil {
		if store.LogoURL != "" {
			return store.LogoURL
		}
		if store.Slug != "" {
			slug = store.Slug
		}
	}
	return storeIcons[slug]
}

func resolveStoreName(store *domain.Store, flatSlug string) string {
	if store != nil && store.Name != "" {
		return store.Name
	}
	if store != nil && store.Slug != "" {
		return store.Slug
	}
	return flatSlug
}
