package profile

import (
	"context"
	"strings"

	"github.com/gorilla/feeds"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	FeedSize       = 20
	defaultSiteURL = "http://localhost:3000"
)

// ProfileFeed lists the newest developer profiles, newest first, as a
// feed whose items link to the profile pages of the web client.
func (uc *ProfileUseCase) ProfileFeed(ctx context.Context) (*feeds.Feed, error) {
	ctx, span := tracer.Start(ctx, "ProfileFeed")
	defer span.End()

	profiles, err := uc.ListProfiles(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	feed := &feeds.Feed{
		Title:       "DevConnector - Developers",
		Link:        &feeds.Link{Href: uc.siteURL + "/profiles"},
		Description: "Newest developer profiles.",
		Id:          uc.siteURL + "/profiles",
		Created:     uc.now(),
		Items:       make([]*feeds.Item, 0, FeedSize),
	}

	for i := len(profiles) - 1; i >= 0 && len(feed.Items) < FeedSize; i-- {
		p := profiles[i]
		link := uc.siteURL + "/profile/" + p.UserID.String()

		name := "Developer"
		if p.Owner != nil && p.Owner.Name != "" {
			name = p.Owner.Name
		}
		title := name + " - " + p.Status
		if p.Company != "" {
			title += " at " + p.Company
		}

		description := p.Bio
		if description == "" {
			description = "Skills: " + strings.Join(p.Skills, ", ")
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       title,
			Link:        &feeds.Link{Href: link},
			Description: description,
			Author:      &feeds.Author{Name: name},
			Created:     p.Date,
		})
	}
	if len(feed.Items) > 0 {
		feed.Updated = feed.Items[0].Created
	}

	span.SetAttributes(attribute.Int("item_count", len(feed.Items)))
	uc.logger.Debug("Profile feed generated", zap.Int("item_count", len(feed.Items)))
	return feed, nil
}
