package entity

import "time"

// Actor identifies the caller of a mutating operation. Audit fields
// are populated from it; the core never authenticates it.
type Actor struct {
	Name    string
	IsAdmin bool
}

type CreatePlacementDTO struct {
	Kind Kind `json:"kind"`

	TitleLine1     string `json:"title_line_1"`
	TitleLine2     string `json:"title_line_2"`
	OfferText      string `json:"offer_text"`
	OfferHighlight string `json:"offer_highlight"`
	ButtonText     string `json:"button_text"`
	ButtonLink     string `json:"button_link"`

	// Image and MobileImage may be data URIs; they are uploaded to the
	// media service before the record is persisted.
	Image       string `json:"image"`
	MobileImage string `json:"mobile_image"`
	VideoURL    string `json:"video_url"`

	Device       Device      `json:"device"`
	WhiteLabelID string      `json:"white_label_id"`
	DisplayType  DisplayType `json:"display_type"`
	Status       Status      `json:"status"`
	IsDefault    bool        `json:"is_default"`
	Priority     int         `json:"priority"`
	SortOrder    int         `json:"sort_order"`

	IsScheduled bool       `json:"is_scheduled"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`

	BackgroundColor   string `json:"background_color"`
	TextColor         string `json:"text_color"`
	Animation         string `json:"animation"`
	AnimationDuration int    `json:"animation_duration"`
	AutoplayDelay     int    `json:"autoplay_delay"`

	IsABTest     bool   `json:"is_ab_test"`
	ABTestGroup  string `json:"ab_test_group"`
	ABTestWeight int    `json:"ab_test_weight"`

	TargetAudience []string    `json:"target_audience"`
	TargetLocation []string    `json:"target_location"`
	TargetDevice   []string    `json:"target_device"`
	TargetTime     *TargetTime `json:"target_time"`

	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

// UpdatePlacementDTO is a patch: nil pointers leave the field untouched.
type UpdatePlacementDTO struct {
	ID string `json:"-"`

	TitleLine1     *string `json:"title_line_1"`
	TitleLine2     *string `json:"title_line_2"`
	OfferText      *string `json:"offer_text"`
	OfferHighlight *string `json:"offer_highlight"`
	ButtonText     *string `json:"button_text"`
	ButtonLink     *string `json:"button_link"`

	Image       *string `json:"image"`
	MobileImage *string `json:"mobile_image"`
	VideoURL    *string `json:"video_url"`

	// resolved by the service after a media upload, never set by callers
	ImageURL       *string `json:"-"`
	MobileImageURL *string `json:"-"`

	Device       *Device      `json:"device"`
	WhiteLabelID *string      `json:"white_label_id"`
	DisplayType  *DisplayType `json:"display_type"`
	Status       *Status      `json:"status"`
	IsDefault    *bool        `json:"is_default"`
	Priority     *int         `json:"priority"`
	SortOrder    *int         `json:"sort_order"`

	IsScheduled *bool      `json:"is_scheduled"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`

	BackgroundColor   *string `json:"background_color"`
	TextColor         *string `json:"text_color"`
	Animation         *string `json:"animation"`
	AnimationDuration *int    `json:"animation_duration"`
	AutoplayDelay     *int    `json:"autoplay_delay"`

	IsABTest     *bool   `json:"is_ab_test"`
	ABTestGroup  *string `json:"ab_test_group"`
	ABTestWeight *int    `json:"ab_test_weight"`

	TargetAudience []string    `json:"target_audience"`
	TargetLocation []string    `json:"target_location"`
	TargetDevice   []string    `json:"target_device"`
	TargetTime     *TargetTime `json:"target_time"`

	Tags     []string `json:"tags"`
	Category *string  `json:"category"`
}

type PlacementFilter struct {
	Kind           Kind
	Statuses       []Status
	Device         Device
	DeviceOrAll    bool // match Device plus "all" when set
	WhiteLabelID   *string
	Category       string
	Tag            string
	IsDefault      *bool
	IncludeDeleted bool
}

type ListPlacementsDTO struct {
	Filter   PlacementFilter
	SortBy   string // sort_order | priority | created_at | ctr
	SortDesc bool
	Limit    int
	Offset   int
}

type ActivePlacementsDTO struct {
	Kind         Kind
	Device       Device
	WhiteLabelID string
}

type ReorderDTO struct {
	OrderedIDs []string `json:"ordered_ids"`
}

type BulkOp string

const (
	BulkActivate   BulkOp = "activate"
	BulkDeactivate BulkOp = "deactivate"
	BulkDelete     BulkOp = "delete"
	BulkUpdate     BulkOp = "update"
)

type BulkOperationDTO struct {
	IDs   []string            `json:"ids"`
	Op    BulkOp              `json:"op"`
	Patch *UpdatePlacementDTO `json:"patch,omitempty"`
}

// BulkResult reports aggregate counts only, without per-item outcomes.
type BulkResult struct {
	Requested int   `json:"requested"`
	Affected  int64 `json:"affected"`
}

type GroupStats struct {
	Key         string  `json:"key"`
	Count       int     `json:"count"`
	TotalViews  int64   `json:"total_views"`
	TotalClicks int64   `json:"total_clicks"`
	AvgCTR      float64 `json:"avg_ctr"`
	Revenue     float64 `json:"revenue"`
}

type PlacementAnalytics struct {
	TotalUnits   int          `json:"total_units"`
	TotalViews   int64        `json:"total_views"`
	TotalClicks  int64        `json:"total_clicks"`
	AvgCTR       float64      `json:"avg_ctr"`
	TotalRevenue float64      `json:"total_revenue"`
	ByStatus     []GroupStats `json:"by_status"`
	ByDevice     []GroupStats `json:"by_device"`
	ByCategory   []GroupStats `json:"by_category"`
}
