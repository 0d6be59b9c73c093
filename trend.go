package reel

import "strconv"

// VideoCategory is a trending video category.
type VideoCategory string

const (
	VideoMusic         VideoCategory = "Music"
	VideoGaming        VideoCategory = "Gaming"
	VideoEntertainment VideoCategory = "Entertainment"
	VideoNews          VideoCategory = "News"
	VideoScience       VideoCategory = "Science"
	VideoSports        VideoCategory = "Sports"
	VideoEducation     VideoCategory = "Education"
	VideoComedy        VideoCategory = "Comedy"
	VideoPeople        VideoCategory = "People"
)

// VideoCategories lists every known video category.
var VideoCategories = []VideoCategory{
	VideoMusic, VideoGaming, VideoEntertainment, VideoNews, VideoScience,
	VideoSports, VideoEducation, VideoComedy, VideoPeople,
}

// Valid reports whether c is a known video category.
func (c VideoCategory) Valid() bool {
	for _, k := range VideoCategories {
		if c == k {
			return true
		}
	}
	return false
}

// Video is one trending video. Script is nil until a script has been
// generated for it.
type Video struct {
	ID        string
	Title     string
	Channel   string
	Views     int64
	Likes     int64
	Category  VideoCategory
	Thumbnail string
	Script    *string
}

// FormatCount abbreviates a view or like count for display, e.g. 1.2M.
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// Trends is a page of trending videos.
type Trends struct {
	Videos []Video
}

// TrendsQuery selects which trends to fetch. Zero values use the defaults.
type TrendsQuery struct {
	RegionCode string
	MaxResults int
	CategoryID *string
}

const (
	DefaultRegionCode = "US"
	DefaultMaxResults = 50
)

// WithDefaults returns q with zero fields replaced by defaults.
func (q TrendsQuery) WithDefaults() TrendsQuery {
	if q.RegionCode == "" {
		q.RegionCode = DefaultRegionCode
	}
	if q.MaxResults == 0 {
		q.MaxResults = DefaultMaxResults
	}
	return q
}

// PlanEntry is the content planned for one day. Date is YYYY-MM-DD.
type PlanEntry struct {
	Date  string
	Topic string
	Video Video
}
