package funnel

import "net/url"

// MarketingSource is the campaign attribution snapshot taken from a landing
// URL's query string. It is ephemeral: never stored locally, only forwarded
// into event payloads and person properties.
type MarketingSource struct {
	Source   string
	Medium   string
	Campaign string
	Term     string
	Content  string
}

// MarketingSourceFromURL extracts the five canonical utm parameters.
func MarketingSourceFromURL(u *url.URL) MarketingSource {
	if u == nil {
		return MarketingSource{}
	}

	params := u.Query()

	return MarketingSource{
		Source:   params.Get("utm_source"),
		Medium:   params.Get("utm_medium"),
		Campaign: params.Get("utm_campaign"),
		Term:     params.Get("utm_term"),
		Content:  params.Get("utm_content"),
	}
}

func (m MarketingSource) fields() map[string]string {
	return map[string]string{
		"source":   m.Source,
		"medium":   m.Medium,
		"campaign": m.Campaign,
		"term":     m.Term,
		"content":  m.Content,
	}
}

// Properties returns the present attribution fields as a flat event payload.
func (m MarketingSource) Properties() map[string]any {
	ans := make(map[string]any)

	for k, v := range m.fields() {
		if v != "" {
			ans[k] = v
		}
	}

	return ans
}

// PersonProperties returns the present attribution fields keyed as
// marketing_<field>, the shape attached to the analytics identity.
func (m MarketingSource) PersonProperties() map[string]any {
	ans := make(map[string]any)

	for k, v := range m.fields() {
		if v != "" {
			ans["marketing_"+k] = v
		}
	}

	return ans
}
