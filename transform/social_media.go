package transform

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/footprintlab/scanner/matching"
	"github.com/footprintlab/scanner/models"
)

// SocialMediaTransformer correlates social media profiles and posts with the
// subject. Profiles run as a separate phase before posts: post matching
// depends on the usernames discovered during profile matching on the same
// platform, so the profile phase must fully complete first.
type SocialMediaTransformer struct {
	matcher     *matching.Matcher
	usernames   *matching.UsernameRegistry
	resolver    *Resolver
	accumulator *Accumulator
	pipeline    Pipeline
}

func NewSocialMediaTransformer(
	matcher *matching.Matcher,
	usernames *matching.UsernameRegistry,
	resolver *Resolver,
	accumulator *Accumulator,
	pipeline Pipeline,
) *SocialMediaTransformer {
	return &SocialMediaTransformer{
		matcher:     matcher,
		usernames:   usernames,
		resolver:    resolver,
		accumulator: accumulator,
		pipeline:    pipeline,
	}
}

type profileItem struct {
	platform models.Platform
	profile  Profile
}

type postItem struct {
	platform models.Platform
	kind     models.PostKind
	post     Post
}

// Transform flattens the per-platform data into tagged items and runs the
// profile phase, then the post phase, through the batch pipeline.
func (t *SocialMediaTransformer) Transform(ctx context.Context, data SocialMediaData) (*Result, error) {
	result := NewResult()
	if len(data.Platforms) == 0 {
		log.Printf("social: no platform data present")
		return result, nil
	}

	var profiles []profileItem
	var posts []postItem
	for _, platform := range data.Platforms {
		for _, profile := range platform.Profiles {
			profiles = append(profiles, profileItem{platform: platform.Name, profile: profile})
		}
		for kind, postList := range platform.Posts {
			for _, post := range postList {
				posts = append(posts, postItem{platform: platform.Name, kind: kind, post: post})
			}
		}
	}
	log.Printf("social: collected %d profiles and %d posts across %d platforms",
		len(profiles), len(posts), len(data.Platforms))

	result.Merge(ProcessAll(ctx, t.pipeline, profiles, t.processProfile))
	result.Merge(ProcessAll(ctx, t.pipeline, posts, t.processPost))
	return result, nil
}

func (t *SocialMediaTransformer) processProfile(ctx context.Context, item profileItem) (*Result, error) {
	result := NewResult()
	result.Stats.ItemsProcessed++

	profile := item.profile
	if !t.matcher.MatchesProfile(matching.ProfileFields{
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Email:     profile.Email,
		Phone:     profile.Phone,
		Address:   profile.Address,
	}) {
		return result, nil
	}

	if profile.Username != "" {
		t.usernames.Record(item.platform, profile.Username)
		log.Printf("social: matched profile %s on %s", profile.Username, item.platform)
	}

	footprintType := models.FootprintText
	if profile.ProfilePictureURL != "" {
		footprintType = models.FootprintImage
	}

	footprint, isNew, err := t.resolver.Resolve(ctx, profileURL(item.platform, profile.Username), footprintType, profile.ProfilePictureURL)
	if err != nil {
		return nil, err
	}
	result.Stats.FootprintsFound++
	if isNew {
		result.NewFootprints = append(result.NewFootprints, footprint)
		result.Stats.NewFootprints++
	} else {
		result.Stats.ExistingFootprints++
	}

	identities := t.accumulator.IdentitiesInText(profileText(profile))
	if profile.Email != "" && t.matcher.Index().Emails.Contains(strings.ToLower(profile.Email)) {
		identities = append(identities, models.IdentityName)
	}
	if profile.Phone != "" && t.matcher.Index().Phones.Contains(profile.Phone) {
		identities = append(identities, models.IdentityPhone)
	}

	if footprint.MediaPath != nil && footprintType == models.FootprintImage {
		media := t.accumulator.AnalyzeMedia(*footprint.MediaPath, footprintType)
		identities = append(identities, media.Identities...)
		result.Stats.MediaFilesProcessed++
		if media.FaceMatchFound {
			result.Stats.FaceMatchesFound++
		}
	}

	for _, kind := range identities {
		if result.TrackPendingIdentity(footprint, kind) {
			result.Stats.IdentitiesDetected++
		}
	}
	result.TrackPendingActivity(footprint, time.Now())
	return result, nil
}

func (t *SocialMediaTransformer) processPost(ctx context.Context, item postItem) (*Result, error) {
	result := NewResult()
	result.Stats.ItemsProcessed++

	post := item.post
	if post.URL == "" {
		log.Printf("social: post on %s missing URL, skipping", item.platform)
		return result, nil
	}

	footprintType, err := footprintTypeForPost(item.kind)
	if err != nil {
		return nil, err
	}

	discovered := t.usernames.Discovered(item.platform)
	related := matching.MatchesAuthored(post.Username, post.TaggedUsers, discovered) ||
		t.matcher.MatchesFreeText(matching.TextFields{
			Content: post.Content + " " + post.Location,
			URL:     post.URL,
		})
	if !related {
		return result, nil
	}

	mediaHint := ""
	if footprintType == models.FootprintImage || footprintType == models.FootprintVideo {
		mediaHint = post.URL
	}

	footprint, isNew, err := t.resolver.Resolve(ctx, post.URL, footprintType, mediaHint)
	if err != nil {
		return nil, err
	}
	result.Stats.FootprintsFound++
	if isNew {
		result.NewFootprints = append(result.NewFootprints, footprint)
		result.Stats.NewFootprints++
	} else {
		result.Stats.ExistingFootprints++
	}

	identities := t.accumulator.IdentitiesInText(post.Content + " " + post.Location)

	if footprint.MediaPath != nil &&
		(footprintType == models.FootprintImage || footprintType == models.FootprintVideo) {
		media := t.accumulator.AnalyzeMedia(*footprint.MediaPath, footprintType)
		identities = append(identities, media.Identities...)
		result.Stats.MediaFilesProcessed++
		if media.FaceMatchFound {
			result.Stats.FaceMatchesFound++
		}
		if media.Transcript != "" {
			result.Stats.VideosTranscribed++
		}
	}

	for _, kind := range identities {
		if result.TrackPendingIdentity(footprint, kind) {
			result.Stats.IdentitiesDetected++
		}
	}
	result.TrackPendingActivity(footprint, TimestampOrNow(post.Timestamp))
	return result, nil
}

func footprintTypeForPost(kind models.PostKind) (models.FootprintType, error) {
	switch kind {
	case models.PostTextOnly:
		return models.FootprintText, nil
	case models.PostImage:
		return models.FootprintImage, nil
	case models.PostVideo:
		return models.FootprintVideo, nil
	default:
		return "", fmt.Errorf("unknown post kind %q", kind)
	}
}

func profileURL(platform models.Platform, username string) string {
	if username == "" {
		return fmt.Sprintf("https://%s.com/profile/unknown", platform)
	}
	return fmt.Sprintf("https://%s.com/%s", platform, username)
}

func profileText(profile Profile) string {
	fields := []string{
		profile.DisplayName,
		profile.Bio,
		profile.FirstName,
		profile.LastName,
	}
	fields = append(fields, profile.Work...)
	fields = append(fields, profile.Education...)
	return strings.Join(fields, " ")
}
