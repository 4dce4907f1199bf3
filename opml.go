package main

import (
	"encoding/xml"
	"fmt"
	"sort"
)

// Subscription is one feed from the aggregator's subscription list.
type Subscription struct {
	Title    string
	FeedURL  string
	SiteURL  string
	Category string
}

// SubscriptionLister retrieves the current feed subscriptions.
type SubscriptionLister interface {
	Subscriptions() ([]Subscription, error)
}

type opmlOutline struct {
	Text     string        `xml:"text,attr"`
	Title    string        `xml:"title,attr,omitempty"`
	Type     string        `xml:"type,attr,omitempty"`
	XMLURL   string        `xml:"xmlUrl,attr,omitempty"`
	HTMLURL  string        `xml:"htmlUrl,attr,omitempty"`
	Outlines []opmlOutline `xml:"outline,omitempty"`
}

type opmlDocument struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    struct {
		Title string `xml:"title"`
	} `xml:"head"`
	Body struct {
		Outlines []opmlOutline `xml:"outline"`
	} `xml:"body"`
}

// BuildOPML renders the subscription list as an OPML 2.0 blogroll, grouped
// by category. Output is sorted and carries no timestamp, so an unchanged
// subscription list produces a byte-identical file and no spurious commit.
func BuildOPML(subs []Subscription) ([]byte, error) {
	doc := opmlDocument{Version: "2.0"}
	doc.Head.Title = "Subscriptions"

	byCategory := map[string][]Subscription{}
	for _, sub := range subs {
		byCategory[sub.Category] = append(byCategory[sub.Category], sub)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		group := byCategory[category]
		sort.Slice(group, func(i, j int) bool { return group[i].Title < group[j].Title })

		outlines := make([]opmlOutline, 0, len(group))
		for _, sub := range group {
			outlines = append(outlines, opmlOutline{
				Text:    sub.Title,
				Title:   sub.Title,
				Type:    "rss",
				XMLURL:  sub.FeedURL,
				HTMLURL: sub.SiteURL,
			})
		}

		if category == "" {
			doc.Body.Outlines = append(doc.Body.Outlines, outlines...)
			continue
		}
		doc.Body.Outlines = append(doc.Body.Outlines, opmlOutline{
			Text:     category,
			Title:    category,
			Outlines: outlines,
		})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling OPML: %w", err)
	}

	return append([]byte(xml.Header), append(data, '\n')...), nil
}
