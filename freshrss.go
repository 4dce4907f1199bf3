package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	greaderBasePath = "/api/greader.php"
	starredCategory = "user/-/state/com.google/starred"
)

// FavoriteFetcher retrieves the user's starred articles.
type FavoriteFetcher interface {
	FetchFavorites() ([]FavoriteArticle, error)
}

// FreshRSSClient talks to a FreshRSS instance over its GReader-compatible
// API. Authentication is lazy: the first call performs ClientLogin and the
// token is reused for the rest of the run.
type FreshRSSClient struct {
	baseURL   string
	user      string
	apiKey    string
	limit     int
	client    *http.Client
	authToken string
}

// NewFreshRSSClient creates a client for the given instance.
func NewFreshRSSClient(baseURL, user, apiKey string, limit int, timeout time.Duration) *FreshRSSClient {
	return &FreshRSSClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		user:    user,
		apiKey:  apiKey,
		limit:   limit,
		client:  &http.Client{Timeout: timeout},
	}
}

// streamItem mirrors the GReader JSON item shape. Only the fields the
// pipeline needs are mapped.
type streamItem struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Published  int64    `json:"published"`
	Categories []string `json:"categories"`
	Canonical  []struct {
		Href string `json:"href"`
	} `json:"canonical"`
	Alternate []struct {
		Href string `json:"href"`
	} `json:"alternate"`
	Summary struct {
		Content string `json:"content"`
	} `json:"summary"`
	Content struct {
		Content string `json:"content"`
	} `json:"content"`
	Origin struct {
		Title string `json:"title"`
	} `json:"origin"`
}

type streamContents struct {
	Items []streamItem `json:"items"`
}

// FetchFavorites returns the current starred items, newest first as served
// by the instance. The full list is re-fetched every run; deduplication
// against already-published posts happens downstream.
func (c *FreshRSSClient) FetchFavorites() ([]FavoriteArticle, error) {
	body, err := c.get(fmt.Sprintf("/reader/api/0/stream/contents/%s?output=json&n=%d",
		url.PathEscape(starredCategory), c.limit))
	if err != nil {
		return nil, err
	}

	var contents streamContents
	if err := json.Unmarshal(body, &contents); err != nil {
		return nil, &ParseError{Source: "freshrss", Err: err}
	}

	favorites := make([]FavoriteArticle, 0, len(contents.Items))
	for _, item := range contents.Items {
		// The starred stream should only contain starred items, but the
		// category check guards against servers that fold other states in.
		if !hasCategory(item.Categories, starredCategory) {
			continue
		}

		article := FavoriteArticle{
			ID:        item.ID,
			Title:     strings.TrimSpace(item.Title),
			URL:       itemURL(item),
			Content:   itemContent(item),
			FeedTitle: item.Origin.Title,
		}
		if item.Published > 0 {
			article.FavoritedAt = time.Unix(item.Published, 0).UTC()
		}
		if article.URL == "" {
			continue // nothing to link to, nothing to publish
		}
		favorites = append(favorites, article)
	}

	return favorites, nil
}

// subscription mirrors the GReader subscription list shape.
type subscription struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	HTMLURL    string `json:"htmlUrl"`
	Categories []struct {
		Label string `json:"label"`
	} `json:"categories"`
}

type subscriptionList struct {
	Subscriptions []subscription `json:"subscriptions"`
}

// Subscriptions returns the user's feed subscriptions, used to regenerate
// the blogroll OPML file.
func (c *FreshRSSClient) Subscriptions() ([]Subscription, error) {
	body, err := c.get("/reader/api/0/subscription/list?output=json")
	if err != nil {
		return nil, err
	}

	var list subscriptionList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, &ParseError{Source: "freshrss", Err: err}
	}

	subs := make([]Subscription, 0, len(list.Subscriptions))
	for _, s := range list.Subscriptions {
		feedURL := s.URL
		if feedURL == "" {
			// FreshRSS encodes the feed URL in the subscription id as
			// "feed/https://example.com/feed.xml".
			feedURL = strings.TrimPrefix(s.ID, "feed/")
		}
		sub := Subscription{
			Title:   s.Title,
			FeedURL: feedURL,
			SiteURL: s.HTMLURL,
		}
		if len(s.Categories) > 0 {
			sub.Category = s.Categories[0].Label
		}
		subs = append(subs, sub)
	}

	return subs, nil
}

// login performs ClientLogin and caches the auth token.
func (c *FreshRSSClient) login() error {
	form := url.Values{}
	form.Set("Email", c.user)
	form.Set("Passwd", c.apiKey)

	loginURL := c.baseURL + greaderBasePath + "/accounts/ClientLogin"
	resp, err := c.client.PostForm(loginURL, form)
	if err != nil {
		return fmt.Errorf("reaching %s: %w", loginURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{Service: "freshrss"}
	}
	if resp.StatusCode != http.StatusOK {
		return &HTTPError{StatusCode: resp.StatusCode, URL: loginURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading login response: %w", err)
	}

	// Response is line-oriented: "SID=...\nLSID=...\nAuth=<token>\n"
	for _, line := range strings.Split(string(body), "\n") {
		if token, ok := strings.CutPrefix(line, "Auth="); ok && token != "" {
			c.authToken = strings.TrimSpace(token)
			return nil
		}
	}

	return &ParseError{Source: "freshrss", Err: fmt.Errorf("no Auth token in ClientLogin response")}
}

// get performs an authenticated GET against a reader API path.
func (c *FreshRSSClient) get(path string) ([]byte, error) {
	if c.authToken == "" {
		if err := c.login(); err != nil {
			return nil, err
		}
	}

	reqURL := c.baseURL + greaderBasePath + path
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "GoogleLogin auth="+c.authToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reaching %s: %w", reqURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &AuthError{Service: "freshrss"}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	return io.ReadAll(resp.Body)
}

func hasCategory(categories []string, want string) bool {
	for _, c := range categories {
		if c == want {
			return true
		}
	}
	return false
}

// itemURL prefers the canonical link and falls back to the alternate.
func itemURL(item streamItem) string {
	if len(item.Canonical) > 0 && item.Canonical[0].Href != "" {
		return item.Canonical[0].Href
	}
	if len(item.Alternate) > 0 {
		return item.Alternate[0].Href
	}
	return ""
}

// itemContent prefers the full content block over the summary excerpt.
func itemContent(item streamItem) string {
	if item.Content.Content != "" {
		return item.Content.Content
	}
	return item.Summary.Content
}
