// Package feeder imports items from an RSS feed as unclassified feed
// records, so a feed file can be seeded without hand-writing JSON.
package feeder

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"feedtriage/internal/domain"
)

// Import fetches the RSS feed at url and maps its items onto feed records.
// If limit is greater than 0, only the first limit items are returned.
func Import(url string, limit int) ([]domain.FeedRecord, error) {
	fp := gofeed.NewParser()
	feed, err := fp.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("fetching RSS feed: %w", err)
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	source := feed.Title
	if source == "" {
		source = url
	}

	records := make([]domain.FeedRecord, 0, len(items))
	for _, item := range items {
		records = append(records, FromItem(source, item))
	}
	return records, nil
}

// FromItem maps one RSS item onto an unclassified feed record. Items without
// a GUID get a generated id so the merge key stays unique.
func FromItem(source string, item *gofeed.Item) domain.FeedRecord {
	id := item.GUID
	if id == "" {
		id = uuid.NewString()
	}

	author := ""
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		author = item.Authors[0].Name
	}

	content := item.Title
	if item.Description != "" {
		content = content + "\n\n" + item.Description
	}

	record := domain.FeedRecord{
		"id":      id,
		"source":  source,
		"author":  author,
		"content": content,
		"url":     item.Link,
	}
	if item.PublishedParsed != nil {
		record["publishedAt"] = item.PublishedParsed.UTC().Format(time.RFC3339)
	}
	return record
}
