package entity

import "time"

type Kind string

const (
	KindBanner     Kind = "banner"
	KindHeroSlider Kind = "hero_slider"
)

type Device string

const (
	DeviceDesktop Device = "desktop"
	DeviceMobile  Device = "mobile"
	DeviceTablet  Device = "tablet"
	DeviceAll     Device = "all"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
)

type DisplayType string

const (
	DisplayImage DisplayType = "image"
	DisplayVideo DisplayType = "video"
	DisplayMixed DisplayType = "mixed"
)

// Scope is the tuple within which at most one non-deleted
// placement may carry the default flag.
type Scope struct {
	Kind         Kind   `json:"kind"`
	Device       Device `json:"device"`
	WhiteLabelID string `json:"white_label_id"`
}

type TargetTime struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Placement is a single promotional unit, banner or hero slider.
// Kind discriminates; the field set is the superset used by both.
type Placement struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	TitleLine1     string `json:"title_line_1"`
	TitleLine2     string `json:"title_line_2"`
	OfferText      string `json:"offer_text"`
	OfferHighlight string `json:"offer_highlight"`
	ButtonText     string `json:"button_text"`
	ButtonLink     string `json:"button_link"`

	Image          string `json:"image"`
	ImageURL       string `json:"image_url"`
	MobileImage    string `json:"mobile_image"`
	MobileImageURL string `json:"mobile_image_url"`
	VideoURL       string `json:"video_url"`

	Device       Device      `json:"device"`
	WhiteLabelID string      `json:"white_label_id,omitempty"`
	DisplayType  DisplayType `json:"display_type"`
	Status       Status      `json:"status"`
	IsDefault    bool        `json:"is_default"`
	Priority     int         `json:"priority"`
	SortOrder    int         `json:"sort_order"`

	IsScheduled bool       `json:"is_scheduled"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`

	BackgroundColor   string `json:"background_color"`
	TextColor         string `json:"text_color"`
	Animation         string `json:"animation"`
	AnimationDuration int    `json:"animation_duration"`
	AutoplayDelay     int    `json:"autoplay_delay"`

	IsABTest     bool   `json:"is_ab_test"`
	ABTestGroup  string `json:"ab_test_group,omitempty"`
	ABTestWeight int    `json:"ab_test_weight"`

	Views          int64   `json:"views"`
	Clicks         int64   `json:"clicks"`
	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
	Revenue        float64 `json:"revenue"`

	TargetAudience []string    `json:"target_audience,omitempty"`
	TargetLocation []string    `json:"target_location,omitempty"`
	TargetDevice   []string    `json:"target_device,omitempty"`
	TargetTime     *TargetTime `json:"target_time,omitempty"`

	Tags     []string `json:"tags,omitempty"`
	Category string   `json:"category"`

	Version     int        `json:"version"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	CreatedBy  string     `json:"created_by"`
	UpdatedBy  string     `json:"updated_by,omitempty"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`

	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy string     `json:"deleted_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Scope derives the default-uniqueness scope of the placement.
func (p Placement) Scope() Scope {
	return Scope{Kind: p.Kind, Device: p.Device, WhiteLabelID: p.WhiteLabelID}
}

// DeriveCTR computes the click-through rate as a percentage.
// Zero views means zero CTR, never a division by zero.
func DeriveCTR(views, clicks int64) float64 {
	if views <= 0 {
		return 0
	}
	return float64(clicks) / float64(views) * 100
}
