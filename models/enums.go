package models

import "strings"

// SourceCategory classifies the origin of a digital footprint.
type SourceCategory string

const (
	SourceSocialMedia  SourceCategory = "social_media"
	SourceProfessional SourceCategory = "professional"
	SourcePersonal     SourceCategory = "personal"
)

// FootprintType describes the kind of content a footprint points at.
type FootprintType string

const (
	FootprintImage FootprintType = "image"
	FootprintVideo FootprintType = "video"
	FootprintText  FootprintType = "text"
	FootprintAudio FootprintType = "audio"
)

// IdentityKind is one facet of personal identity evidenced by a footprint.
type IdentityKind string

const (
	IdentityPhone   IdentityKind = "phone"
	IdentityName    IdentityKind = "name"
	IdentityPicture IdentityKind = "picture"
	IdentityAddress IdentityKind = "address"
)

// AddressType distinguishes a subject's postal addresses.
type AddressType string

const (
	AddressHome AddressType = "home"
	AddressWork AddressType = "work"
)

// Platform is a supported social media platform.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformX         Platform = "x"
)

// Platforms lists all platforms in a fixed iteration order.
var Platforms = []Platform{PlatformFacebook, PlatformInstagram, PlatformLinkedIn, PlatformX}

// PostKind is the content shape of a social media post.
type PostKind string

const (
	PostTextOnly PostKind = "text_only"
	PostImage    PostKind = "image"
	PostVideo    PostKind = "video"
)

// PostKinds lists all post kinds in a fixed iteration order.
var PostKinds = []PostKind{PostTextOnly, PostImage, PostVideo}

// Engine is a supported search engine.
type Engine string

const (
	EngineGoogle Engine = "google"
	EngineYahoo  Engine = "yahoo"
	EngineBing   Engine = "bing"
)

// Engines lists all engines in a fixed iteration order.
var Engines = []Engine{EngineGoogle, EngineYahoo, EngineBing}

// ResultKind is the content shape of a search engine result.
type ResultKind string

const (
	ResultImage   ResultKind = "image"
	ResultVideo   ResultKind = "video"
	ResultWebpage ResultKind = "webpage"
	ResultPDF     ResultKind = "pdf"
)

// ResultKinds lists all result kinds in a fixed iteration order.
var ResultKinds = []ResultKind{ResultImage, ResultVideo, ResultWebpage, ResultPDF}

// Status tracks the lifecycle of a pipeline stage.
type Status string

const (
	StatusNotStarted Status = "not started"
	StatusInProgress Status = "in progress"
	StatusFailed     Status = "failed"
	StatusCompleted  Status = "completed"
)

// Confidence grades how sure a content-analysis routine is about a match.
type Confidence int

const (
	ConfidenceNone Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
	ConfidenceCertain
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	case ConfidenceCertain:
		return "certain"
	default:
		return "none"
	}
}

// imageSuffixes and videoSuffixes are the recognised media file extensions.
var imageSuffixes = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}
var videoSuffixes = map[string]bool{".mp4": true, ".avi": true, ".wmv": true, ".mkv": true}

// IsImageSuffix reports whether ext (including the dot, any case) is a known image extension.
func IsImageSuffix(ext string) bool { return imageSuffixes[strings.ToLower(ext)] }

// IsVideoSuffix reports whether ext (including the dot, any case) is a known video extension.
func IsVideoSuffix(ext string) bool { return videoSuffixes[strings.ToLower(ext)] }
