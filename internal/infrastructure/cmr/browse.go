package cmr

import (
	"net/url"
	"strings"
)

// browseRelMarker is the fragment CMR uses in a link's rel attribute to mark
// browse/preview imagery, e.g.
// "http://esipfed.org/ns/fedsearch/1.1/browse#".
const browseRelMarker = "browse#"

// browseImageURL returns the first qualifying browse-image URL in the
// concept's links: the rel attribute must mark it as browse imagery and the
// href must be fetchable over https.
func browseImageURL(c *Concept) (string, bool) {
	for _, link := range c.Links {
		if !strings.Contains(link.Rel, browseRelMarker) {
			continue
		}
		if !secureHref(link.Href) {
			continue
		}
		return link.Href, true
	}
	return "", false
}

func secureHref(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return u.Scheme == "https"
}
