package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Volume is the metadata extracted from the best-matching volume.
type Volume struct {
	Title       string
	Authors     []string
	PublishYear int
	Categories  []string
	Description string
}

// FetchVolume queries the volumes API for a title (and author, when
// given) and returns the first matching volume's metadata. Returns
// ErrNotFound when no volume matches.
func (c *Client) FetchVolume(ctx context.Context, title, author string) (*Volume, error) {
	q := fmt.Sprintf("intitle:%q", title)
	if author != "" {
		q += fmt.Sprintf(" inauthor:%q", author)
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", "5")

	body, err := c.doRequest(ctx, "/books/v1/volumes", params)
	if err != nil {
		return nil, fmt.Errorf("googlebooks fetch [%s]: %w", title, err)
	}

	var resp struct {
		Items []struct {
			VolumeInfo *rawVolumeInfo `json:"volumeInfo"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("googlebooks fetch [%s]: parse response: %w", title, err)
	}

	for _, item := range resp.Items {
		if item.VolumeInfo == nil || item.VolumeInfo.Title == "" {
			continue
		}
		return volumeFromRaw(item.VolumeInfo), nil
	}
	return nil, fmt.Errorf("googlebooks fetch [%s]: %w", title, ErrNotFound)
}

type rawVolumeInfo struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PublishedDate string   `json:"publishedDate"`
	Categories    []string `json:"categories"`
	Description   string   `json:"description"`
}

func volumeFromRaw(raw *rawVolumeInfo) *Volume {
	return &Volume{
		Title:       raw.Title,
		Authors:     raw.Authors,
		PublishYear: parseYear(raw.PublishedDate),
		Categories:  raw.Categories,
		Description: raw.Description,
	}
}

// parseYear extracts the year from a publication date shaped
// YYYY[-MM[-DD]]. Returns 0 when the leading component isn't a year.
func parseYear(date string) int {
	lead, _, _ := strings.Cut(date, "-")
	year, err := strconv.Atoi(lead)
	if err != nil || year <= 0 {
		return 0
	}
	return year
}
